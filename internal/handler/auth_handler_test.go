package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dassimern/kosher-directory-api/internal/service"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
)

type sessionIssuerMock struct {
	resp     *service.LoginResponse
	err      error
	lastPass string
}

func (m *sessionIssuerMock) Login(password string) (*service.LoginResponse, error) {
	m.lastPass = password
	return m.resp, m.err
}

func newAuthRouter(h *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	return r
}

func TestLoginSuccess(t *testing.T) {
	issuer := &sessionIssuerMock{resp: &service.LoginResponse{
		Token:     "signed.session.token",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	r := newAuthRouter(NewAuthHandler(issuer))

	body, _ := json.Marshal(map[string]string{"password": "manager123"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "manager123", issuer.lastPass)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "signed.session.token", data["token"])
}

func TestLoginWrongPassword(t *testing.T) {
	issuer := &sessionIssuerMock{err: appErrors.Clone(appErrors.ErrUnauthorized, "Invalid password")}
	r := newAuthRouter(NewAuthHandler(issuer))

	body, _ := json.Marshal(map[string]string{"password": "wrong"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid password", env.Message)
}

func TestLoginMalformedBody(t *testing.T) {
	r := newAuthRouter(NewAuthHandler(&sessionIssuerMock{}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
