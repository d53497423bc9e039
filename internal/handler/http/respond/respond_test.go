package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedBody string
	}{
		{"map", http.StatusOK, map[string]string{"message": "success"}, "{\"message\":\"success\"}\n"},
		{"struct", http.StatusCreated, struct{ ID int }{ID: 123}, "{\"ID\":123}\n"},
		{"nil", http.StatusNoContent, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var env struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadGateway, ErrorBody{Kind: "network", Message: "Could not load the article.", Hint: "Check the link."})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, ErrorBody{Kind: "network", Message: "Could not load the article.", Hint: "Check the link."}, decodeError(t, w))
}

func TestError_OmitsEmptyHint(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, ErrorBody{Kind: "empty_input", Message: "Please enter a link."})

	assert.NotContains(t, w.Body.String(), "hint")
}

func TestSafeError(t *testing.T) {
	t.Run("app error returns the user message", func(t *testing.T) {
		w := httptest.NewRecorder()

		SafeError(w, NewAppError(http.StatusBadRequest, "invalid_request", "request body must be JSON", errors.New("unexpected EOF")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "invalid_request", body.Kind)
		assert.Equal(t, "request body must be JSON", body.Message)
	})

	t.Run("wrapped app error", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := errors.Join(errors.New("context"), NewAppError(http.StatusTooManyRequests, "rate_limited", "slow down", nil))

		SafeError(w, err)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("other errors are hidden", func(t *testing.T) {
		w := httptest.NewRecorder()

		SafeError(w, errors.New("dial tcp: key sk-1234567890abcdefghij leaked"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "internal server error", body.Message)
		assert.NotContains(t, w.Body.String(), "sk-")
	})

	t.Run("nil writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		SafeError(w, nil)
		assert.Zero(t, w.Body.Len())
	})
}

func TestAppError(t *testing.T) {
	inner := errors.New("inner")
	err := NewAppError(http.StatusBadRequest, "invalid_request", "bad", inner)

	assert.Equal(t, "inner", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "bad", NewAppError(http.StatusBadRequest, "x", "bad", nil).Error())
}
