package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"smarttext/internal/audit"
	"smarttext/internal/auth"
	"smarttext/internal/directory"
	"smarttext/internal/events"
	"smarttext/internal/rbac"
	"smarttext/internal/reporting"
	"smarttext/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth      *auth.Manager
	Directory directory.Repository
	Events    *events.Service
	Reporting *reporting.Service

	// Audit is optional; settings changes are recorded when configured.
	Audit *audit.Service

	// DB enables the transactional settings path: with it, the settings
	// write and its audit record commit together. Nil (memory-backed
	// tests) falls back to sequential writes.
	DB *sql.DB

	validate *validator.Validate
}

func New(authMgr *auth.Manager, dir directory.Repository, evs *events.Service, rep *reporting.Service, aud *audit.Service, db *sql.DB) *Handlers {
	return &Handlers{
		Auth:      authMgr,
		Directory: dir,
		Events:    evs,
		Reporting: rep,
		Audit:     aud,
		DB:        db,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// --- Auth ---

type loginRequest struct {
	UserID     string `json:"user_id"`
	BusinessID string `json:"business_id"`
	Role       string `json:"role"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h *Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.BusinessID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, business_id, role required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.BusinessID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// Me echoes the authenticated identity.
func (h *Handlers) Me(c *gin.Context) {
	uid, _ := auth.UserID(c.Request.Context())
	bid, _ := auth.BusinessID(c.Request.Context())
	role, _ := auth.Role(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"user_id": uid, "business_id": bid, "role": role})
}

// --- Events ---

// ListEvents returns the tenant's call events for a time range.
// Defaults to the trailing 7 days.
func (h *Handlers) ListEvents(c *gin.Context) {
	if h.Events == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "events not configured"})
		return
	}
	businessID, err := auth.BusinessID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "business_id required"})
		return
	}

	from, to, err := parseRange(c, 7*24*time.Hour)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.Events.List(c.Request.Context(), businessID, from, to)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": rows})
}

// --- Settings ---

func (h *Handlers) GetSettings(c *gin.Context) {
	if h.Directory == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "directory not configured"})
		return
	}
	businessID, err := auth.BusinessID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "business_id required"})
		return
	}
	biz, err := h.Directory.FindBusinessByID(c.Request.Context(), businessID)
	if errors.Is(err, directory.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "business not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "settings lookup failed"})
		return
	}
	c.JSON(http.StatusOK, biz.Settings)
}

type faqPayload struct {
	Question string `json:"question" validate:"required,max=200"`
	Answer   string `json:"answer" validate:"required,max=600"`
}

type updateSettingsRequest struct {
	AutoReplyEnabled *bool        `json:"auto_reply_enabled"`
	OwnerPhone       string       `json:"owner_phone" validate:"omitempty,e164"`
	ReplyOptions     []string     `json:"reply_options" validate:"max=5,dive,min=1,max=40"`
	OrderingURL      string       `json:"ordering_url" validate:"omitempty,url"`
	FAQs             []faqPayload `json:"faqs" validate:"max=25,dive"`
}

// UpdateSettings replaces the tenant's reply settings.
// RBAC: owner only (enforced in routing).
func (h *Handlers) UpdateSettings(c *gin.Context) {
	if h.Directory == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "directory not configured"})
		return
	}
	businessID, err := auth.BusinessID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "business_id required"})
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := directory.Settings{
		AutoReplyEnabled: req.AutoReplyEnabled,
		OwnerPhone:       req.OwnerPhone,
		ReplyOptions:     req.ReplyOptions,
		OrderingURL:      req.OrderingURL,
	}
	for _, f := range req.FAQs {
		s.FAQs = append(s.FAQs, directory.FAQ{Question: f.Question, Answer: f.Answer})
	}

	actor, _ := auth.UserID(c.Request.Context())
	role, _ := auth.Role(c.Request.Context())
	meta, _ := json.Marshal(s)
	ev := audit.SettingsUpdateEvent(businessID, actor, role, c.ClientIP(), string(meta))

	if err := h.applySettings(c.Request.Context(), businessID, s, ev); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "settings update failed"})
		return
	}

	c.JSON(http.StatusOK, s)
}

// applySettings commits the settings write and its audit record in one
// transaction when a database handle is configured.
func (h *Handlers) applySettings(ctx context.Context, businessID string, s directory.Settings, ev audit.Event) error {
	if h.DB == nil {
		if err := h.Directory.UpdateSettings(ctx, businessID, s); err != nil {
			return err
		}
		if h.Audit == nil {
			return nil
		}
		return h.Audit.Append(ctx, ev)
	}
	return utils.WithTx(ctx, h.DB, nil, func(ctx context.Context, tx *sql.Tx) error {
		if err := h.Directory.UpdateSettingsTx(ctx, tx, businessID, s); err != nil {
			return err
		}
		if h.Audit == nil {
			return nil
		}
		return h.Audit.AppendTx(ctx, tx, ev)
	})
}

// --- Reporting ---

func (h *Handlers) ActivitySummary(c *gin.Context) {
	if h.Reporting == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	businessID, err := auth.BusinessID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "business_id required"})
		return
	}

	from, to, err := parseRange(c, 30*24*time.Hour)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.Reporting.ActivitySummary(c.Request.Context(), reporting.ActivitySummaryRequest{
		BusinessID: businessID,
		Range:      reporting.TimeRange{From: from, To: to},
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reporting.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		c.AbortWithStatusJSON(status, gin.H{"error": "summary failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) MissedCallBreakdown(c *gin.Context) {
	if h.Reporting == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	businessID, err := auth.BusinessID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "business_id required"})
		return
	}

	from, to, err := parseRange(c, 30*24*time.Hour)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.Reporting.MissedCallBreakdown(c.Request.Context(), reporting.MissedCallBreakdownRequest{
		BusinessID: businessID,
		Range:      reporting.TimeRange{From: from, To: to},
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reporting.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		c.AbortWithStatusJSON(status, gin.H{"error": "breakdown failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// parseRange reads optional from/to RFC3339 query params, defaulting to the
// trailing window ending now.
func parseRange(c *gin.Context, window time.Duration) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from, to := now.Add(-window), now

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("from must be RFC3339")
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("to must be RFC3339")
		}
		to = t
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, errors.New("to must be after from")
	}
	return from, to, nil
}

// Convenience middleware bundles.

func RequireBusinessAndAnyRole(roles ...string) []gin.HandlerFunc {
	return []gin.HandlerFunc{rbac.RequireBusiness(), rbac.RequireAnyRole(roles...)}
}
