package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arnavshah/rota-api-go/internal/config"
	"github.com/arnavshah/rota-api-go/internal/logger"
	"github.com/arnavshah/rota-api-go/pkg/auth"
	"github.com/arnavshah/rota-api-go/pkg/calendar"
	"github.com/arnavshah/rota-api-go/pkg/database"
	"github.com/arnavshah/rota-api-go/pkg/metrics"
	"github.com/arnavshah/rota-api-go/pkg/models"
	"github.com/arnavshah/rota-api-go/pkg/roster"
	"github.com/arnavshah/rota-api-go/pkg/scheduler"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Auth     *auth.Authenticator
	Metrics  *metrics.Recorder
	Log      logger.Logger
	Defaults config.ScheduleConfig
}

// runRequest is a parsed scheduling request
type runRequest struct {
	people   []models.Person
	window   models.Window
	holidays []models.HolidayRule
	weekday  models.ISOWeekday

	// delimiter of an uploaded roster, reused for CSV output
	delimiter rune
}

// statusFor maps run errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, calendar.ErrInvalidWindow),
		errors.Is(err, calendar.ErrInvalidWeekday),
		errors.Is(err, calendar.ErrInvalidHoliday),
		errors.Is(err, roster.ErrMalformedRoster):
		return http.StatusBadRequest
	case errors.Is(err, calendar.ErrNoEligibleSlots),
		errors.Is(err, calendar.ErrInsufficientSlots),
		errors.Is(err, scheduler.ErrInfeasibleMatrix),
		errors.Is(err, scheduler.ErrRaggedMatrix):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": metrics.Outcome(err)})
}

// parseCommon resolves window, weekday and holidays, falling back to the
// configured defaults for weekday and holidays.
func (h *Handler) parseCommon(start, end, weekday string, holidays []string) (runRequest, error) {
	var req runRequest
	s, err := models.ParseDate(strings.TrimSpace(start))
	if err != nil {
		return req, fmt.Errorf("%w: start %q is not YYYY-MM-DD", calendar.ErrInvalidWindow, start)
	}
	e, err := models.ParseDate(strings.TrimSpace(end))
	if err != nil {
		return req, fmt.Errorf("%w: end %q is not YYYY-MM-DD", calendar.ErrInvalidWindow, end)
	}
	req.window = models.Window{Start: s, End: e}

	if weekday == "" {
		weekday = h.Defaults.Weekday
	}
	if req.weekday, err = calendar.ParseWeekday(weekday); err != nil {
		return req, err
	}

	if holidays == nil {
		holidays = h.Defaults.Holidays
	}
	if req.holidays, err = calendar.ParseHolidays(holidays); err != nil {
		return req, err
	}
	return req, nil
}

// plan runs the scheduler and records metrics
func (h *Handler) plan(req runRequest) (*scheduler.Plan, error) {
	started := time.Now()
	plan, err := scheduler.NewScheduler(req.people, req.window, req.holidays, req.weekday).Plan()
	if h.Metrics != nil {
		h.Metrics.ObserveRun(plan, err, time.Since(started))
	}
	if err != nil {
		return nil, err
	}
	h.Log.Debugw("schedule planned", map[string]any{
		"people":      len(req.people),
		"slots":       len(plan.Slots),
		"occurrences": len(plan.Occurrences),
		"total_cost":  plan.Solution.Total,
	})
	return plan, nil
}

func toResponse(plan *scheduler.Plan) models.ScheduleResponse {
	slots := make([]string, len(plan.Slots))
	for i, s := range plan.Slots {
		slots[i] = s.Format(models.DateLayout)
	}
	return models.ScheduleResponse{
		Schedule:    plan.Schedule,
		Slots:       slots,
		Replication: plan.Replication,
		Occurrences: len(plan.Occurrences),
		TotalCost:   plan.Solution.Total,
		Stats:       plan.Stats,
	}
}

func parsePeople(in []models.PersonInput) ([]models.Person, error) {
	people := make([]models.Person, 0, len(in))
	for i, p := range in {
		d, err := models.ParseDate(strings.TrimSpace(p.AnchorDate))
		if err != nil {
			return nil, fmt.Errorf("%w: person %d (%s): anchor date %q is not YYYY-MM-DD",
				roster.ErrMalformedRoster, i, p.Name, p.AnchorDate)
		}
		people = append(people, models.Person{Name: p.Name, AnchorDate: d})
	}
	return people, nil
}

// ScheduleJSON handles the JSON-based scheduling request
func (h *Handler) ScheduleJSON(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.parseCommon(input.Start, input.End, input.Weekday, input.Holidays)
	if err != nil {
		h.fail(c, err)
		return
	}
	if req.people, err = parsePeople(input.People); err != nil {
		h.fail(c, err)
		return
	}

	plan, err := h.plan(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.RecordUsage(c, len(req.people), len(plan.Slots))
	c.JSON(http.StatusOK, toResponse(plan))
}

// parseForm reads the multipart roster upload and its form fields
func (h *Handler) parseForm(c *gin.Context) (runRequest, error) {
	var holidays []string
	if raw, ok := c.GetPostForm("holidays"); ok {
		holidays = strings.Split(raw, ",")
	}
	req, err := h.parseCommon(c.PostForm("start"), c.PostForm("end"), c.PostForm("weekday"), holidays)
	if err != nil {
		return req, err
	}

	fh, err := c.FormFile("roster_file")
	if err != nil {
		return req, fmt.Errorf("%w: roster_file is required", roster.ErrMalformedRoster)
	}
	f, err := fh.Open()
	if err != nil {
		return req, fmt.Errorf("open roster_file: %w", err)
	}
	defer f.Close()

	opts := roster.ReaderOptions{
		Delimiter:    h.Defaults.DelimiterRune(),
		Encoding:     c.DefaultPostForm("encoding", h.Defaults.Encoding),
		HasHeader:    h.Defaults.HasHeader,
		SeasonYear:   roster.SeasonYearOf(req.window.Start, time.Month(h.Defaults.CutoverMonth)),
		CutoverMonth: time.Month(h.Defaults.CutoverMonth),
	}
	if v := c.PostForm("keep_year"); v != "" {
		opts.KeepYear, _ = strconv.ParseBool(v)
	}
	if d := []rune(c.PostForm("delimiter")); len(d) == 1 {
		opts.Delimiter = d[0]
	}
	if v := c.PostForm("has_header"); v != "" {
		opts.HasHeader, _ = strconv.ParseBool(v)
	}
	if v := c.PostForm("season_year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: season_year %q", roster.ErrMalformedRoster, v)
		}
		opts.SeasonYear = y
	}

	req.delimiter = opts.Delimiter
	req.people, err = roster.NewReader(opts).Read(f)
	return req, err
}

// ScheduleCSV handles roster uploads and returns the schedule as CSV
func (h *Handler) ScheduleCSV(c *gin.Context) {
	req, err := h.parseForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	plan, err := h.plan(req)
	if err != nil {
		h.fail(c, err)
		return
	}

	var out bytes.Buffer
	if err := roster.WriteCSV(&out, plan.Schedule, req.delimiter); err != nil {
		h.fail(c, err)
		return
	}
	h.RecordUsage(c, len(req.people), len(plan.Slots))
	c.JSON(http.StatusOK, gin.H{"csv": out.String(), "total_cost": plan.Solution.Total})
}

// ScheduleICS handles roster uploads and returns an iCalendar file
func (h *Handler) ScheduleICS(c *gin.Context) {
	req, err := h.parseForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	plan, err := h.plan(req)
	if err != nil {
		h.fail(c, err)
		return
	}

	var out bytes.Buffer
	if err := roster.WriteICS(&out, plan.Schedule, roster.ICSOptions{SummaryFormat: c.PostForm("summary")}); err != nil {
		h.fail(c, err)
		return
	}
	h.RecordUsage(c, len(req.people), len(plan.Slots))
	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", out.Bytes())
}

// APIKeyMiddleware verifies the API key for scheduler routes using HMAC and
// enforces the key's daily request limit
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		// Fetch or create API key record to track usage
		var apiKey database.APIKey
		if err := h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:        key,
			Name:       userID,
			KeyPreview: auth.Preview(key),
			RateLimit:  10000,
		}).Error; err != nil {
			h.Log.Errorf("api key lookup: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load API key"})
			return
		}

		var usage database.APIUsage
		today := time.Now().Format(models.DateLayout)
		err = h.DB.Where("key_id = ? AND date = ?", apiKey.ID, today).First(&usage).Error
		if err == nil && apiKey.RateLimit > 0 && usage.RequestCount >= apiKey.RateLimit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Daily rate limit reached"})
			return
		}

		now := time.Now()
		h.DB.Model(&apiKey).Update("last_used", &now)

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}
