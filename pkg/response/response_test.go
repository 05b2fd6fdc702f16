package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
)

func TestErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", apperr.Validation("date is in the past"), http.StatusBadRequest, "date is in the past"},
		{"permission", apperr.Permission(errors.New("42501")), http.StatusForbidden, apperr.PermissionMessage},
		{"not found", apperr.NotFound("event abc not found"), http.StatusNotFound, "event abc not found"},
		{"conflict", apperr.Conflict("already signed up"), http.StatusConflict, "already signed up"},
		{"backend", apperr.Backend("list news", errors.New("boom")), http.StatusInternalServerError, "internal error"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.status, body.Code)
			assert.Equal(t, tc.msg, body.Message)
		})
	}
}
