// Package http provides the REST API server and its handlers.
//
// This file implements a small builder for JSON responses and the mapping
// from domain errors to status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/middleware/trace"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Created sets 201 and the Location of the new resource.
func (b *JSONResponseBuilder) Created(location string) *JSONResponseBuilder {
	return b.Status(http.StatusCreated).Header("Location", location)
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response. A nil body writes no content.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	payload, err := json.Marshal(b.body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(payload, '\n'))
}

// errorBody is the single error shape of the API.
type errorBody struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

// NoContent creates a 204 response.
func NoContent() *JSONResponseBuilder {
	return NewJSONResponse().Status(http.StatusNoContent)
}

// ResponseForError maps an error from a handler or service to its response.
// The boolean reports whether the error is unexpected and worth logging
// at error level.
func ResponseForError(err error) (*JSONResponseBuilder, bool) {
	var (
		validation *core.ValidationErrors
		reqErr     *RequestError
	)
	switch {
	case errors.As(err, &validation):
		return NewJSONResponse().
			Status(http.StatusBadRequest).
			Body(errorBody{Error: "validation failed", Fields: validation.Map()}), false
	case errors.As(err, &reqErr):
		return ErrorResponse(http.StatusBadRequest, reqErr.Message), false
	case errors.Is(err, core.ErrNotFound):
		return ErrorResponse(http.StatusNotFound, err.Error()), false
	case errors.Is(err, core.ErrBusinessRule):
		return ErrorResponse(http.StatusBadRequest, err.Error()), false
	case errors.Is(err, core.ErrConflict):
		return ErrorResponse(http.StatusConflict, err.Error()), false
	default:
		return ErrorResponse(http.StatusInternalServerError, "internal server error"), true
	}
}

// writeError logs unexpected errors with the request logger and writes the
// mapped response. Unexpected errors echo the request id so a client can
// quote it.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	resp, unexpected := ResponseForError(err)
	logger := log.FromContext(ctx)
	if unexpected {
		log.NewStructuredLogger(logger).LogError(ctx, "Request failed", err, op,
			log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", ""))
		if id := trace.GetRequestID(ctx); id != "" {
			resp.Body(errorBody{Error: "internal server error", RequestID: id})
		}
	} else {
		logger.DebugContext(ctx, "Request rejected",
			log.FieldOperation, op,
			log.FieldError, err)
	}
	resp.Write(w)
}
