package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/JaidenRM/recipe-shopper-api/internal/search"
	"github.com/JaidenRM/recipe-shopper-api/internal/services"
)

func Test_fail_500_LogsAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	// simulate RequestID + request-scoped logger
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		failFromError(c, errors.New("disk on fire"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Code != ErrCodeInternal || resp.Message != "internal error" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if strings.Contains(w.Body.String(), "disk on fire") {
		t.Fatalf("internal cause leaked to client: %s", w.Body.String())
	}
	logged := buf.String()
	if !strings.Contains(logged, `"level":"error"`) || !strings.Contains(logged, "disk on fire") {
		t.Fatalf("expected error log with cause, got: %s", logged)
	}
}

func Test_failFromError_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrRecipeNotFound, http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("load: %w", services.ErrProductNotFound), http.StatusNotFound, ErrCodeNotFound},
		{services.ErrProductExists, http.StatusConflict, ErrCodeConflict},
		{services.ErrUnknownSupermarket, http.StatusBadRequest, ErrCodeBadRequest},
		{fmt.Errorf("load recipe: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrCodeTimeout},
		{fmt.Errorf("search woolworths: %w", search.ErrUpstream), http.StatusInternalServerError, ErrCodeInternal},
		{services.CreateRecipeCommand{}.Validate(), http.StatusBadRequest, ErrCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.code+"/"+tc.err.Error(), func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { failFromError(c, tc.err) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			if w.Code != tc.status {
				t.Fatalf("status=%d want %d", w.Code, tc.status)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json: %v", err)
			}
			if resp.Code != tc.code {
				t.Fatalf("code=%q want %q", resp.Code, tc.code)
			}
		})
	}
}

func Test_failFromSearchError_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{fmt.Errorf("search woolworths: %w", search.ErrUpstream), http.StatusBadGateway, ErrCodeUpstream, "supermarket search failed"},
		{fmt.Errorf("search woolworths: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrCodeUpstreamTimeout, "supermarket search timed out"},
		{services.ErrUnknownSupermarket, http.StatusBadRequest, ErrCodeBadRequest, "unknown supermarket"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { failFromSearchError(c, tc.err) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json: %v", err)
			}
			if w.Code != tc.status || resp.Code != tc.code || resp.Message != tc.message {
				t.Fatalf("got %d %q %q; want %d %q %q", w.Code, resp.Code, resp.Message, tc.status, tc.code, tc.message)
			}
		})
	}
}

func Test_FailValidation_Details(t *testing.T) {
	gin.SetMode(gin.TestMode)

	err := services.CreateRecipeCommand{Name: "x", Servings: 0, DurationMinutes: 5}.Validate()
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	r := gin.New()
	r.GET("/v", func(c *gin.Context) { FailValidation(c, ve) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Code != ErrCodeValidation || len(resp.Details) == 0 {
		t.Fatalf("unexpected body: %+v", resp)
	}
	found := false
	for _, d := range resp.Details {
		if d.Field == "servings" && d.Message != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected servings detail, got %+v", resp.Details)
	}
}

func Test_Fail_404_And_SuccessHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-404")
		c.Next()
	})
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope") })
	r.POST("/things", func(c *gin.Context) { created(c, "/things/7", gin.H{"id": 7}) })
	r.DELETE("/gone", func(c *gin.Context) { noContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json 404: %v", err)
	}
	if w.Code != http.StatusNotFound || er.RequestID != "rid-404" || er.Code != "not_found" || er.Message != "nope" {
		t.Fatalf("unexpected 404: %d %+v", w.Code, er)
	}
	if strings.Contains(w.Body.String(), "details") {
		t.Fatalf("details should be omitted: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things", nil))
	if w.Code != http.StatusCreated || w.Header().Get("Location") != "/things/7" {
		t.Fatalf("created: %d loc=%q", w.Code, w.Header().Get("Location"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/gone", nil))
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("noContent: %d body=%q", w.Code, w.Body.String())
	}
}
