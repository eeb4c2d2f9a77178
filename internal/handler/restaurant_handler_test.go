package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/internal/service"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
	"github.com/dassimern/kosher-directory-api/pkg/response"
)

type moderationServiceMock struct {
	submitResp   *models.Restaurant
	submitErr    error
	statusErr    error
	editErr      error
	deleteErr    error
	lastSubmit   service.SubmitRequest
	lastStatusID string
	lastStatus   string
	lastEditID   string
	lastEdit     service.EditRequest
	lastDeleteID string
	lastCred     service.Credential
}

func (m *moderationServiceMock) Submit(ctx context.Context, req service.SubmitRequest) (*models.Restaurant, error) {
	m.lastSubmit = req
	return m.submitResp, m.submitErr
}

func (m *moderationServiceMock) SetStatus(ctx context.Context, id, status string, cred service.Credential) error {
	m.lastStatusID = id
	m.lastStatus = status
	m.lastCred = cred
	return m.statusErr
}

func (m *moderationServiceMock) EditFields(ctx context.Context, id string, req service.EditRequest, cred service.Credential) error {
	m.lastEditID = id
	m.lastEdit = req
	m.lastCred = cred
	return m.editErr
}

func (m *moderationServiceMock) Delete(ctx context.Context, id string, cred service.Credential) error {
	m.lastDeleteID = id
	m.lastCred = cred
	return m.deleteErr
}

type listingServiceMock struct {
	resp    []models.Restaurant
	err     error
	lastReq service.ListRequest
}

func (m *listingServiceMock) List(ctx context.Context, req service.ListRequest) ([]models.Restaurant, error) {
	m.lastReq = req
	return m.resp, m.err
}

type exportServiceMock struct {
	resp *service.ExportResult
	err  error
}

func (m *exportServiceMock) Export(ctx context.Context, cred service.Credential, format string) (*service.ExportResult, error) {
	return m.resp, m.err
}

type tokenValidatorMock struct {
	claims *models.SessionClaims
	err    error
}

func (m *tokenValidatorMock) ValidateToken(raw string) (*models.SessionClaims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func newDirectoryRouter(h *RestaurantHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/restaurants", h.List)
	r.POST("/restaurants", h.Submit)
	r.POST("/restaurants/:id/status", h.SetStatus)
	r.PUT("/restaurants/:id", h.Edit)
	r.DELETE("/restaurants/:id", h.Delete)
	r.GET("/restaurants/export", h.Export)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListPublic(t *testing.T) {
	listing := &listingServiceMock{resp: []models.Restaurant{{ID: "R1", Name: "Aleph"}}}
	h := NewRestaurantHandler(&moderationServiceMock{}, listing, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/restaurants?q=aleph", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Empty(t, listing.lastReq.Credential.Password)
	assert.Equal(t, "aleph", listing.lastReq.Query)
}

func TestListPassesQueryPassword(t *testing.T) {
	listing := &listingServiceMock{}
	h := NewRestaurantHandler(&moderationServiceMock{}, listing, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/restaurants?password=manager123", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "manager123", listing.lastReq.Credential.Password)
}

func TestListAcceptsBearerSession(t *testing.T) {
	listing := &listingServiceMock{}
	validator := &tokenValidatorMock{claims: &models.SessionClaims{Role: models.RoleModerator}}
	h := NewRestaurantHandler(&moderationServiceMock{}, listing, nil, validator)
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set("Authorization", "Bearer some.token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, listing.lastReq.Credential.Claims)
	assert.Equal(t, models.RoleModerator, listing.lastReq.Credential.Claims.Role)
}

func TestListRejectsMalformedAuthorizationHeader(t *testing.T) {
	h := NewRestaurantHandler(&moderationServiceMock{}, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}

func TestListRejectsInvalidToken(t *testing.T) {
	validator := &tokenValidatorMock{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")}
	h := NewRestaurantHandler(&moderationServiceMock{}, &listingServiceMock{}, nil, validator)
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set("Authorization", "Bearer expired.token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmit(t *testing.T) {
	moderation := &moderationServiceMock{submitResp: &models.Restaurant{ID: "R1"}}
	h := NewRestaurantHandler(moderation, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	body, _ := json.Marshal(map[string]string{
		"restaurantName": "פיצה כשרה",
		"city":           "בני ברק",
		"kashrut":        "בד\"ץ",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/restaurants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Restaurant submitted for approval", env.Message)
	assert.Equal(t, "פיצה כשרה", moderation.lastSubmit.Name)
}

func TestSubmitInvalidJSON(t *testing.T) {
	h := NewRestaurantHandler(&moderationServiceMock{}, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/restaurants", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitValidationFailure(t *testing.T) {
	moderation := &moderationServiceMock{submitErr: appErrors.Clone(appErrors.ErrValidation, "restaurant name and kashrut are required")}
	h := NewRestaurantHandler(moderation, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/restaurants", bytes.NewReader([]byte(`{"city":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "restaurant name and kashrut are required", env.Message)
}

func TestSetStatus(t *testing.T) {
	moderation := &moderationServiceMock{}
	h := NewRestaurantHandler(moderation, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	body, _ := json.Marshal(map[string]string{"status": "approved", "password": "manager123"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/restaurants/R1_abc/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "R1_abc", moderation.lastStatusID)
	assert.Equal(t, "approved", moderation.lastStatus)
	assert.Equal(t, "manager123", moderation.lastCred.Password)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Status updated successfully", env.Message)
}

func TestSetStatusUnauthorized(t *testing.T) {
	moderation := &moderationServiceMock{statusErr: appErrors.Clone(appErrors.ErrUnauthorized, "Invalid password")}
	h := NewRestaurantHandler(moderation, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	body, _ := json.Marshal(map[string]string{"status": "approved", "password": "wrong"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/restaurants/R1_abc/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid password", env.Message)
}

func TestSetStatusNotFound(t *testing.T) {
	moderation := &moderationServiceMock{statusErr: appErrors.Clone(appErrors.ErrNotFound, "restaurant not found")}
	h := NewRestaurantHandler(moderation, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	body, _ := json.Marshal(map[string]string{"status": "approved", "password": "manager123"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/restaurants/R9_missing/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditDropsImmutableFields(t *testing.T) {
	moderation := &moderationServiceMock{}
	h := NewRestaurantHandler(moderation, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	// Stray id/status/dateAdded values in the payload must not reach the service.
	body := []byte(`{"restaurantName":"New","kashrut":"K","password":"manager123","id":"R9_evil","status":"approved","dateAdded":"1.1.1999"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/restaurants/R1_abc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "R1_abc", moderation.lastEditID)
	assert.Equal(t, "New", moderation.lastEdit.Name)
	assert.Equal(t, "K", moderation.lastEdit.Kashrut)
}

func TestDeleteWithQueryPassword(t *testing.T) {
	moderation := &moderationServiceMock{}
	h := NewRestaurantHandler(moderation, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/restaurants/R1_abc?password=manager123", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "R1_abc", moderation.lastDeleteID)
	assert.Equal(t, "manager123", moderation.lastCred.Password)
}

func TestDeleteWithBodyPassword(t *testing.T) {
	moderation := &moderationServiceMock{}
	h := NewRestaurantHandler(moderation, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	body, _ := json.Marshal(map[string]string{"password": "manager123"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/restaurants/R1_abc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "manager123", moderation.lastCred.Password)
}

func TestExportDownload(t *testing.T) {
	exporter := &exportServiceMock{resp: &service.ExportResult{
		Content:     []byte("\uFEFFID,Name\n"),
		ContentType: "text/csv",
		Filename:    "restaurants-2024-01-01.csv",
	}}
	h := NewRestaurantHandler(&moderationServiceMock{}, &listingServiceMock{}, exporter, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/restaurants/export?password=manager123&format=csv", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="restaurants-2024-01-01.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
}

func TestExportDisabled(t *testing.T) {
	h := NewRestaurantHandler(&moderationServiceMock{}, &listingServiceMock{}, nil, &tokenValidatorMock{})
	r := newDirectoryRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/restaurants/export?password=manager123", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
