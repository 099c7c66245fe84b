// Package http provides the REST API server and its handlers.
//
// This file holds request decoding helpers shared by the handlers.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// maxBodyBytes bounds request bodies; entity payloads are tiny.
const maxBodyBytes = 64 << 10

// RequestError is a malformed request. It maps to 400 Bad Request.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RequestError) Unwrap() error { return e.Err }

func badRequest(format string, args ...any) error {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// DecodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || (mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json")) {
			return &RequestError{Message: "content type must be application/json"}
		}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return &RequestError{Message: "request body is empty"}
		case errors.As(err, &maxErr):
			return &RequestError{Message: "request body too large"}
		default:
			return &RequestError{Message: "invalid JSON body", Err: err}
		}
	}
	if dec.More() {
		return &RequestError{Message: "request body must contain a single JSON object"}
	}
	return nil
}

// PathID parses the {id} wildcard of the matched route.
func PathID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest("invalid id %q", raw)
	}
	return id, nil
}

// checkBodyID rejects a body id that disagrees with the path id.
func checkBodyID(pathID uuid.UUID, bodyID *uuid.UUID) error {
	if bodyID != nil && *bodyID != uuid.Nil && *bodyID != pathID {
		return badRequest("id in URL does not match id in body")
	}
	return nil
}
