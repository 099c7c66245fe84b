package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Header("X-Custom", "value").
		Body(map[string]string{"hello": "world"}).
		Write(w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "value", w.Header().Get("X-Custom"))
	assert.JSONEq(t, `{"hello":"world"}`, w.Body.String())
}

func TestJSONResponseBuilder_Created(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().Created("/people/1").Body(map[string]int{"id": 1}).Write(w)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/people/1", w.Header().Get("Location"))
}

func TestJSONResponseBuilder_NoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent().Write(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header().Get("Content-Type"))
}

func TestJSONResponseBuilder_UnencodableBody(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().Body(map[string]any{"bad": make(chan int)}).Write(w)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestResponseForError(t *testing.T) {
	var validation core.ValidationErrors
	validation.Add("name", "name is required")

	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantUnexpected bool
		wantBody       string
	}{
		{
			name:       "validation",
			err:        validation.Err(),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"validation failed","fields":{"name":"name is required"}}`,
		},
		{
			name:       "request",
			err:        badRequest("invalid id %q", "x"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid id \"x\""}`,
		},
		{
			name:       "not found",
			err:        core.NotFound("person", uuid.Nil),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "business rule",
			err:        core.ErrMinorIncome,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "conflict",
			err:        fmt.Errorf("delete category: %w", core.ErrConflict),
			wantStatus: http.StatusConflict,
		},
		{
			name:           "unexpected",
			err:            errors.New("disk on fire"),
			wantStatus:     http.StatusInternalServerError,
			wantUnexpected: true,
			wantBody:       `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, unexpected := ResponseForError(tt.err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantUnexpected, unexpected)

			w := httptest.NewRecorder()
			resp.Write(w)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
