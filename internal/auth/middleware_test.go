package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testHeader = "X-Sharer-User-Id"

func TestIdentityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedID     int64
	}{
		{"Missing header", "", http.StatusBadRequest, 0},
		{"Not a number", "abc", http.StatusBadRequest, 0},
		{"Zero", "0", http.StatusBadRequest, 0},
		{"Negative", "-4", http.StatusBadRequest, 0},
		{"Valid", "42", http.StatusOK, 42},
		{"Valid with spaces", " 7 ", http.StatusOK, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int64
			router := gin.New()
			router.Use(IdentityMiddleware(testHeader))
			router.GET("/", func(c *gin.Context) {
				gotID, _ = GetUserID(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(testHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedID, gotID)
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, ok := GetUserID(c)
		assert.False(t, ok)
	})

	t.Run("wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(userIDKey, "7")
		_, ok := GetUserID(c)
		assert.False(t, ok)
	})

	t.Run("present", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(userIDKey, int64(7))
		id, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, int64(7), id)
	})
}
