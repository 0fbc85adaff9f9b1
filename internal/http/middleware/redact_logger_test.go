package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedact(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"flour=500g", "flour=500g"},
		{"chef@example.com", "[REDACTED:email]"},
		{"call 212-555-1212", "call [REDACTED:phone]"},
		{"id=123e4567-e89b-12d3-a456-426614174000", "id=[REDACTED:id]"},
		{"a.b+tag@example.co.uk or 212 555 1212", "[REDACTED:email] or [REDACTED:phone]"},
	}
	for _, tc := range cases {
		if got := redact(tc.in); got != tc.want {
			t.Fatalf("redact(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestScrubHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("X-Api-Key", "k-1")
	h.Add("X-Note", "owner@example.com")
	h.Add("X-Note", "second")
	h.Set("Accept", "application/json")

	got := scrubHeaders(h, map[string]bool{"authorization": true, "x-api-key": true})
	want := map[string]string{
		"Authorization": masked,
		"X-Api-Key":     masked,
		"X-Note":        "[REDACTED:email], second",
		"Accept":        "application/json",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %q; want %q", k, got[k], v)
		}
	}
}

func TestRedactingLogger_AccessLine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{" x-api-key ", ""}}))
	r.GET("/supermarkets/:supermarketId/search", func(c *gin.Context) { c.String(http.StatusOK, "[]") })

	req := httptest.NewRequest(http.MethodGet,
		"/supermarkets/1/search?query=milk&notify=cook@example.com&ref=123e4567-e89b-12d3-a456-426614174000", nil)
	req.Header.Set(requestIDHeader, "rid-access")
	req.Header.Set("Cookie", "session=abc")
	req.Header.Set("X-API-Key", "secret-key")
	req.Header.Set("X-Shopper", "ring 212 555 1212")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var entry struct {
		Level     string            `json:"level"`
		Message   string            `json:"message"`
		RequestID string            `json:"request_id"`
		Path      string            `json:"path"`
		Method    string            `json:"method"`
		Query     string            `json:"query"`
		Status    int               `json:"status"`
		Bytes     int               `json:"bytes"`
		Headers   map[string]string `json:"headers"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("access line is not one JSON object: %v\n%s", err, buf.String())
	}

	if entry.Level != "info" || entry.Message != "http_request" || entry.Status != http.StatusOK || entry.Bytes != 2 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.RequestID != "rid-access" || entry.Method != http.MethodGet || entry.Path != "/supermarkets/:supermarketId/search" {
		t.Fatalf("unexpected scope fields: %+v", entry)
	}
	if want := "query=milk&notify=[REDACTED:email]&ref=[REDACTED:id]"; entry.Query != want {
		t.Fatalf("query = %q; want %q", entry.Query, want)
	}
	if entry.Headers["Cookie"] != masked || entry.Headers["X-Api-Key"] != masked {
		t.Fatalf("sensitive headers not masked: %v", entry.Headers)
	}
	if entry.Headers["X-Shopper"] != "ring [REDACTED:phone]" {
		t.Fatalf("X-Shopper = %q", entry.Headers["X-Shopper"])
	}
}

func TestRedactingLogger_UnmatchedPathAndLongQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))

	long := strings.Repeat("q", maxQueryLogLength+50)
	req := httptest.NewRequest(http.MethodGet, "/nowhere?"+long, nil)
	req.Header.Set(requestIDHeader, "rid-header-only")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"path":"/nowhere"`, `"status":404`, `"request_id":"rid-header-only"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
	if strings.Contains(out, long) || !strings.Contains(out, "…") {
		t.Fatalf("query was not truncated")
	}
}

func TestRedactingLogger_Levels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		handler gin.HandlerFunc
		level   string
		errors  bool
	}{
		{"ok", func(c *gin.Context) { c.Status(http.StatusNoContent) }, "info", false},
		{"client error", func(c *gin.Context) { c.Status(http.StatusUnprocessableEntity) }, "warn", false},
		{"server error", func(c *gin.Context) { c.Status(http.StatusBadGateway) }, "error", false},
		{"gin error on 4xx", func(c *gin.Context) {
			_ = c.Error(errors.New("product lookup failed"))
			c.Status(http.StatusNotFound)
		}, "error", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLogger(t)
			r := gin.New()
			r.Use(RedactingLogger(RedactOptions{}))
			r.GET("/x", tc.handler)
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tc.level+`"`) {
				t.Fatalf("want level %s: %s", tc.level, out)
			}
			if got := strings.Contains(out, `"errors":`); got != tc.errors {
				t.Fatalf("errors field present = %v: %s", got, out)
			}
		})
	}
}

func TestRedactingLogger_HandlerLinesShareScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}), ClientID())
	r.DELETE("/recipes/:id", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("recipe deleted")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodDelete, "/recipes/3", nil)
	req.Header.Set(HeaderClientID, "meal-planner")
	req.Header.Set(requestIDHeader, "rid-scope")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want handler and access lines, got:\n%s", buf.String())
	}
	for _, line := range lines {
		for _, want := range []string{`"request_id":"rid-scope"`, `"client_id":"meal-planner"`, `"method":"DELETE"`, `"path":"/recipes/:id"`} {
			if !strings.Contains(line, want) {
				t.Fatalf("line missing %s: %s", want, line)
			}
		}
	}
}
