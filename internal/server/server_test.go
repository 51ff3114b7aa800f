package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimesense/crimesense/internal/auth"
	"github.com/crimesense/crimesense/internal/repo"
	"github.com/crimesense/crimesense/internal/storage"
)

var testAdmin = AdminAccount{Email: "admin@crimesense.com", Password: "admin123"}

func newTestRouter(t *testing.T, backend Backend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	authSvc := auth.NewService("test-secret", time.Hour)
	handler := NewHandler(backend, authSvc, testAdmin, log)

	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginAdmin(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    testAdmin.Email,
		"password": testAdmin.Password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, auth.RoleAdmin, resp.Role)
	return resp.Token
}

// --- Reports ---

func TestCreateReport_ThenGet(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodPost, "/api/reports", gin.H{
		"location":    "Main St",
		"type":        "Theft",
		"date":        "01-02-2024",
		"time":        "10:00",
		"description": "x",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Greater(t, created.ID, int64(0))

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reports/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var report storage.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "Main St", report.Location)
	assert.Equal(t, "2024-02-01", report.Date)
	assert.Equal(t, "Anonymous", report.Name)
	assert.Equal(t, storage.StatusPending, report.Status)
}

func TestCreateReport_MissingRequiredFields(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodPost, "/api/reports", gin.H{
		"location": "Main St",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReport_NotFound(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodGet, "/api/reports/9999", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Report not found", resp["error"])
}

func TestListReports_FiltersByQuery(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	for _, body := range []gin.H{
		{"location": "Market Square", "type": "Theft", "description": "wallet"},
		{"location": "Harbor", "type": "Vandalism", "description": "window"},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/reports", body, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/reports?type=Theft", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var reports []storage.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "Market Square", reports[0].Location)

	w = doJSON(t, router, http.MethodGet, "/api/reports?search=window", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "Harbor", reports[0].Location)
}

// --- Auth and admin routes ---

func TestLogin_BadCredentials(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    testAdmin.Email,
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "Admin@CrimeSense.com",
		"password": testAdmin.Password,
	}, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDeleteReport_RequiresToken(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodDelete, "/api/reports/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/reports/1", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteReport_WithAdminToken(t *testing.T) {
	backend := NewMemoryBackend(nil)
	router := newTestRouter(t, backend)

	w := doJSON(t, router, http.MethodPost, "/api/reports", gin.H{
		"location": "A", "type": "Theft", "description": "x",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	token := loginAdmin(t, router)
	w = doJSON(t, router, http.MethodDelete, "/api/reports/1", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/reports/1", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequireAdmin_RejectsUserRole(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	userToken, err := auth.NewService("test-secret", time.Hour).GenerateToken("someone@example.com", auth.RoleUser)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodDelete, "/api/reports/1", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClearData_AdminOnly(t *testing.T) {
	backend := NewMemoryBackend(nil)
	router := newTestRouter(t, backend)

	w := doJSON(t, router, http.MethodPost, "/api/reports", gin.H{
		"location": "A", "type": "Theft", "description": "x",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/data", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := loginAdmin(t, router)
	w = doJSON(t, router, http.MethodDelete, "/api/data", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/reports", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var reports []storage.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	assert.Len(t, reports, 0)
}

// --- Records ---

func TestCreateRecord_AndList(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodPost, "/api/records", gin.H{
		"name":      "John Doe",
		"alias":     "The Fox",
		"crimeType": "Burglary",
		"riskLevel": "High",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/records?search=fox", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var records []storage.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "John Doe", records[0].Name)
	assert.Equal(t, "High", records[0].RiskLevel)
}

func TestCreateRecord_MissingName(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodPost, "/api/records", gin.H{
		"crimeType": "Burglary",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Contact ---

func TestCreateContact(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodPost, "/api/contact", gin.H{
		"name":    "Jane",
		"email":   "jane@example.com",
		"message": "hello",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.ID, int64(0))
}

// --- Analytics ---

func TestAnalyticsEndpoints(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	for _, body := range []gin.H{
		{"location": "Main St", "type": "Theft", "date": "2024-01-01", "description": "a"},
		{"location": "Main St", "type": "Theft", "date": "2024-01-02", "description": "b"},
		{"location": "Harbor", "type": "Assault", "date": "2024-01-01", "description": "c"},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/reports", body, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/analytics/type-distribution", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var types []storage.TypeCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &types))
	require.Len(t, types, 2)
	assert.Equal(t, "Theft", types[0].Type)
	assert.Equal(t, int64(2), types[0].Count)

	w = doJSON(t, router, http.MethodGet, "/api/analytics/location-distribution", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var locations []storage.LocationCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &locations))
	require.Len(t, locations, 2)
	assert.Equal(t, "Main St", locations[0].Location)

	w = doJSON(t, router, http.MethodGet, "/api/analytics/reports-over-time", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var dates []storage.DateCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dates))
	require.Len(t, dates, 2)
	assert.Equal(t, "2024-01-01", dates[0].Date)
	assert.Equal(t, int64(2), dates[0].Count)
}

// --- Health ---

func TestHealth(t *testing.T) {
	router := newTestRouter(t, NewMemoryBackend(nil))

	w := doJSON(t, router, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

// --- Repository backend parity ---

func TestHandler_OverSQLiteRepository(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	r := repo.New(filepath.Join(t.TempDir(), "crimesense.db"), nil, log)
	t.Cleanup(func() { r.Close() })

	router := newTestRouter(t, r)

	w := doJSON(t, router, http.MethodPost, "/api/reports", gin.H{
		"location":    "Main St",
		"type":        "Theft",
		"date":        "01-02-2024",
		"description": "x",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reports/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var report storage.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "2024-02-01", report.Date)
	assert.Equal(t, storage.StatusPending, report.Status)
}
