package core_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfschwingel/coppers/core"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	core.JSON(rec, http.StatusCreated, map[string]string{"message": "created"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "created", body["message"])
}

func TestRespondError(t *testing.T) {
	t.Parallel()

	t.Run("application error keeps code and message", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		core.RespondError(rec, core.NotFound("task not found"))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body core.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "task not found", body.Error)
		assert.Equal(t, http.StatusNotFound, body.StatusCode)
	})

	t.Run("wrapped application error is unwrapped", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		core.RespondError(rec, fmt.Errorf("handler: %w", core.Conflict("username taken")))

		assert.Equal(t, http.StatusConflict, rec.Code)

		var body core.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "username taken", body.Error)
	})

	t.Run("unknown error never leaks internals", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		core.RespondError(rec, errors.New("mongo: connection refused at 10.0.0.3"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body core.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotContains(t, body.Error, "mongo")
		assert.NotContains(t, body.Error, "10.0.0.3")
		assert.Equal(t, http.StatusInternalServerError, body.StatusCode)
	})
}

func TestErrorConstructors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  *core.Error
		code int
	}{
		{"bad request", core.BadRequest("m"), http.StatusBadRequest},
		{"unauthorized", core.Unauthorized("m"), http.StatusUnauthorized},
		{"forbidden", core.Forbidden("m"), http.StatusForbidden},
		{"not found", core.NotFound("m"), http.StatusNotFound},
		{"conflict", core.Conflict("m"), http.StatusConflict},
		{"internal", core.Internal("m"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, "m", tc.err.Error())
		})
	}
}
