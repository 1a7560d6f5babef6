package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type signupBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func bindRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signup", func(c *gin.Context) {
		var req signupBody
		if err := c.ShouldBindJSON(&req); err != nil {
			BindError(c, err)
			return
		}
		c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
	})
	return router
}

func TestBindErrorReportsEachBadField(t *testing.T) {
	router := bindRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"email":"not-an-email","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"error":"validation failed"`)
	assert.Contains(t, body, `"field":"Name"`)
	assert.Contains(t, body, "Name is required")
	assert.Contains(t, body, `"field":"Email"`)
	assert.Contains(t, body, "Email must be a valid email address")
	assert.Contains(t, body, `"field":"Password"`)
	assert.Contains(t, body, "Password must be at least 8")
}

func TestBindErrorMalformedJSON(t *testing.T) {
	router := bindRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "details")
}

func TestBindErrorValidPayloadPasses(t *testing.T) {
	router := bindRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"name":"Jo","email":"jo@example.com","password":"hunter22x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
