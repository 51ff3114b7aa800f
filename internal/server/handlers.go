package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crimesense/crimesense/internal/auth"
	"github.com/crimesense/crimesense/internal/repo"
	"github.com/crimesense/crimesense/internal/storage"
)

// topLocations is how many locations the distribution endpoint returns.
const topLocations = 10

// Handler handles HTTP requests for the CrimeSense API.
type Handler struct {
	backend Backend
	auth    *auth.Service
	admin   AdminAccount
	log     *logrus.Logger
}

// AdminAccount is the single privileged login the mirror accepts.
type AdminAccount struct {
	Email    string
	Password string
}

// NewHandler creates an HTTP handler over the given backend.
func NewHandler(backend Backend, authSvc *auth.Service, admin AdminAccount, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{backend: backend, auth: authSvc, admin: admin, log: log}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/auth/login", h.Login)

		reports := api.Group("/reports")
		{
			reports.GET("", h.ListReports)
			reports.POST("", h.CreateReport)
			reports.GET("/:id", h.GetReport)
			reports.DELETE("/:id", h.RequireAdmin, h.DeleteReport)
		}

		records := api.Group("/records")
		{
			records.GET("", h.ListRecords)
			records.POST("", h.CreateRecord)
			records.DELETE("/:id", h.RequireAdmin, h.DeleteRecord)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/type-distribution", h.TypeDistribution)
			analytics.GET("/location-distribution", h.LocationDistribution)
			analytics.GET("/reports-over-time", h.ReportsOverTime)
		}

		api.POST("/contact", h.CreateContact)
		api.DELETE("/data", h.RequireAdmin, h.ClearData)
		api.GET("/health", h.Health)
	}
}

type reportRequest struct {
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// CreateReport handles POST /api/reports.
func (h *Handler) CreateReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Location == "" || req.Type == "" || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location, type, and description are required"})
		return
	}

	id, err := h.backend.SaveReport(c.Request.Context(), repo.ReportInput{
		Name:        req.Name,
		Contact:     req.Contact,
		Location:    req.Location,
		Type:        req.Type,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
	})
	if err != nil {
		h.log.WithError(err).Error("save report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// ListReports handles GET /api/reports with optional type and search params.
func (h *Handler) ListReports(c *gin.Context) {
	filter := storage.ReportFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
	}
	c.JSON(http.StatusOK, h.backend.ListReports(c.Request.Context(), filter))
}

// GetReport handles GET /api/reports/:id.
func (h *Handler) GetReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	report, err := h.backend.GetReportByID(c.Request.Context(), id)
	if err != nil {
		h.log.WithError(err).Error("get report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get report"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// DeleteReport handles DELETE /api/reports/:id. Admin only.
func (h *Handler) DeleteReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	if err := h.backend.DeleteReport(c.Request.Context(), id); err != nil {
		h.log.WithError(err).Error("delete report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type recordRequest struct {
	Name              string `json:"name"`
	Alias             string `json:"alias"`
	CrimeType         string `json:"crimeType"`
	RiskLevel         string `json:"riskLevel"`
	LastKnownLocation string `json:"lastKnownLocation"`
	Notes             string `json:"notes"`
}

// CreateRecord handles POST /api/records.
func (h *Handler) CreateRecord(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.CrimeType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and crimeType are required"})
		return
	}

	id, err := h.backend.SaveRecord(c.Request.Context(), repo.RecordInput{
		Name:              req.Name,
		Alias:             req.Alias,
		CrimeType:         req.CrimeType,
		RiskLevel:         req.RiskLevel,
		LastKnownLocation: req.LastKnownLocation,
		Notes:             req.Notes,
	})
	if err != nil {
		h.log.WithError(err).Error("save record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// ListRecords handles GET /api/records with an optional search param.
func (h *Handler) ListRecords(c *gin.Context) {
	c.JSON(http.StatusOK, h.backend.ListRecords(c.Request.Context(), c.Query("search")))
}

// DeleteRecord handles DELETE /api/records/:id. Admin only.
func (h *Handler) DeleteRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	if err := h.backend.DeleteRecord(c.Request.Context(), id); err != nil {
		h.log.WithError(err).Error("delete record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// CreateContact handles POST /api/contact.
func (h *Handler) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.backend.SaveContact(c.Request.Context(), repo.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		h.log.WithError(err).Error("save contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// TypeDistribution handles GET /api/analytics/type-distribution.
func (h *Handler) TypeDistribution(c *gin.Context) {
	counts, err := h.backend.TypeDistribution(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("type distribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute distribution"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

// LocationDistribution handles GET /api/analytics/location-distribution.
// Returns the top 10 locations by report count.
func (h *Handler) LocationDistribution(c *gin.Context) {
	counts, err := h.backend.LocationDistribution(c.Request.Context(), topLocations)
	if err != nil {
		h.log.WithError(err).Error("location distribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute distribution"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

// ReportsOverTime handles GET /api/analytics/reports-over-time, sorted by
// date ascending.
func (h *Handler) ReportsOverTime(c *gin.Context) {
	counts, err := h.backend.ReportsOverTime(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("reports over time")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute distribution"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login against the configured admin account.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !strings.EqualFold(req.Email, h.admin.Email) || req.Password != h.admin.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.auth.GenerateToken(h.admin.Email, auth.RoleAdmin)
	if err != nil {
		h.log.WithError(err).Error("generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "email": h.admin.Email, "role": auth.RoleAdmin})
}

// ClearData handles DELETE /api/data: the privileged bulk reset.
func (h *Handler) ClearData(c *gin.Context) {
	if err := h.backend.ClearAllData(c.Request.Context()); err != nil {
		h.log.WithError(err).Error("clear all data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
