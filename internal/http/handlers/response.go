// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities shared by every endpoint: the
// error envelope, the mapping from service errors to status codes, and small
// success helpers.
//
//	HTTP/1.1 404 Not Found
//	{
//	  "requestId": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "recipe not found"
//	}
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JaidenRM/recipe-shopper-api/internal/http/middleware"
	"github.com/JaidenRM/recipe-shopper-api/internal/search"
	"github.com/JaidenRM/recipe-shopper-api/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"requestId,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"recipe not found"`
	// Field errors, present only for validation_failed
	Details []services.FieldError `json:"details,omitempty"`
}

// ListResponse wraps collection results.
type ListResponse[T any] struct {
	Results T `json:"results"`
}

// fail aborts the request with a structured error. Server errors (>=500)
// are logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	abort(c, status, ErrorResponse{Code: code, Message: msg})
}

// Fail is the exported variant of fail for router-level handlers
// (NoRoute, NoMethod).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// FailValidation writes 400 validation_failed with every field error.
func FailValidation(c *gin.Context, ve *services.ValidationError) {
	abort(c, http.StatusBadRequest, ErrorResponse{
		Code:    ErrCodeValidation,
		Message: "request failed validation",
		Details: ve.Errors,
	})
}

func abort(c *gin.Context, status int, resp ErrorResponse) {
	resp.RequestID = c.Writer.Header().Get("X-Request-ID")
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		ev := lg.Error().Int("status", status).Str("code", resp.Code)
		if len(c.Errors) > 0 {
			ev = ev.Str("cause", c.Errors.String())
		}
		ev.Msg(resp.Message)
	}
	c.AbortWithStatusJSON(status, resp)
}

// failFromError maps a service error onto the envelope. Unrecognised errors
// become 500 with a generic message; the cause is attached to the gin
// context so the access log and the 5xx log line both carry it.
func failFromError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		FailValidation(c, ve)
	case errors.Is(err, services.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
	case errors.Is(err, services.ErrProductNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "product not found")
	case errors.Is(err, services.ErrProductExists):
		fail(c, http.StatusConflict, ErrCodeConflict, "product already exists")
	case errors.Is(err, services.ErrUnknownSupermarket):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown supermarket")
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		fail(c, http.StatusGatewayTimeout, ErrCodeTimeout, "request timed out")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

// failFromSearchError is failFromError for the retailer search endpoints,
// where a deadline or an upstream failure is the retailer's.
func failFromSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		fail(c, http.StatusGatewayTimeout, ErrCodeUpstreamTimeout, "supermarket search timed out")
	case errors.Is(err, search.ErrUpstream):
		_ = c.Error(err)
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "supermarket search failed")
	default:
		failFromError(c, err)
	}
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// created writes 201 with a Location header.
func created(c *gin.Context, location string, body any) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
