package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/logging"
	"github.com/abelbrown/tourfeed/internal/pager"
	"github.com/abelbrown/tourfeed/internal/question"
	"github.com/abelbrown/tourfeed/internal/remote"
	"github.com/abelbrown/tourfeed/internal/tour"
	"github.com/abelbrown/tourfeed/internal/trait"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the feed API.
type Handler struct {
	posts    feed.Source
	profiles trait.Source
	tours    tour.Source
	cfg      pager.Config
	timeout  time.Duration

	questions question.Source // nil leaves the questionnaire routes unavailable
	language  string
}

// NewHandler creates a new API handler. Each request reads the sources
// afresh; the handler keeps no view state between requests.
func NewHandler(posts feed.Source, profiles trait.Source, tours tour.Source, cfg pager.Config, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := pager.New[feed.Record](nil, feed.RecordAccessors, cfg)
	return &Handler{
		posts:    posts,
		profiles: profiles,
		tours:    tours,
		cfg:      p.Config(),
		timeout:  timeout,
	}
}

// WithQuestions serves the questionnaire from src. language is used when a
// request does not name one.
func (h *Handler) WithQuestions(src question.Source, language string) *Handler {
	h.questions = src
	h.language = language
	return h
}

// FeedResponse is the body of GET /api/feed.
type FeedResponse struct {
	MBTI      string        `json:"mbti"`
	Region    string        `json:"region,omitempty"`
	Sort      pager.SortKey `json:"sort"`
	SortLabel string        `json:"sort_label"`
	Items     []feed.Record `json:"items"`
	Total     int           `json:"total"`
	Limit     int           `json:"limit"`
	NextLimit int           `json:"next_limit,omitempty"`
}

// TourResponse is the body of GET /api/tours/:id.
type TourResponse struct {
	Program         tour.Program      `json:"program"`
	Days            []tour.DayGroup   `json:"days"`
	TotalDistanceKm float64           `json:"total_distance_km"`
	DistanceLabel   string            `json:"distance_label"`
	PriceLabel      string            `json:"price_label"`
	Refunds         []tour.RefundRule `json:"refunds"`
}

// QuoteResponse is the body of GET /api/tours/:id/quote.
type QuoteResponse struct {
	tour.Quote
	TotalLabel string `json:"total_label"`
}

// RecommendRequest is the body of POST /api/recommend.
type RecommendRequest struct {
	Answers []string `json:"answers" binding:"required"`
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// HealthCheck handles the health check endpoint.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   logging.Version,
		"sources": gin.H{
			"posts":    h.posts.Name(),
			"profiles": h.profiles.Name(),
			"tours":    h.tours.Name(),
		},
	})
}

// ListProfiles returns every trait profile.
func (h *Handler) ListProfiles(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	profiles, err := h.profiles.Load(ctx)
	if err != nil {
		h.fail(c, "profiles", err)
		return
	}
	if profiles == nil {
		profiles = []trait.Profile{}
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "count": len(profiles)})
}

// GetFeed runs the filter, sort and prefix pipeline for one request.
//
// Without mbti the feed is empty, as it is before a profile is picked in
// the app. limit defaults to the initial page size.
func (h *Handler) GetFeed(c *gin.Context) {
	sortKey, err := pager.ParseSortKey(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := h.cfg.InitialPageSize
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
	}

	resp := FeedResponse{
		MBTI:      c.Query("mbti"),
		Sort:      sortKey,
		SortLabel: sortKey.Label(),
		Items:     []feed.Record{},
		Limit:     limit,
	}
	if resp.MBTI == "" {
		c.JSON(http.StatusOK, resp)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	profiles, err := h.profiles.Load(ctx)
	if err != nil {
		h.fail(c, "profiles", err)
		return
	}
	profile, ok := trait.Find(profiles, resp.MBTI)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown mbti " + strconv.Quote(resp.MBTI)})
		return
	}
	resp.MBTI = profile.MBTI

	records, err := h.posts.Load(ctx)
	if err != nil {
		h.fail(c, "posts", err)
		return
	}

	filter := pager.NoFilter
	if region := c.Query("region"); region != "" {
		resp.Region = feed.NormalizeKey(region)
		filter = pager.Only(resp.Region)
	}

	sorted := pager.ApplySort(pager.ApplyFilter(records, filter, feed.RecordAccessors), sortKey, feed.RecordAccessors)
	resp.Items = pager.VisibleSlice(sorted, limit)
	resp.Total = len(sorted)
	if limit < len(sorted) {
		resp.NextLimit = limit + h.cfg.PageIncrement
	}

	c.JSON(http.StatusOK, resp)
}

// GetTour returns one program with its derived views.
func (h *Handler) GetTour(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tour id"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	p, err := h.tours.Get(ctx, id)
	if err != nil {
		h.fail(c, "tour", err)
		return
	}

	km := tour.TotalDistanceKm(p.Schedules)
	c.JSON(http.StatusOK, TourResponse{
		Program:         p,
		Days:            tour.GroupByDay(p.Schedules),
		TotalDistanceKm: km,
		DistanceLabel:   tour.FormatDistance(km) + "km",
		PriceLabel:      tour.FormatPrice(p.GuidePrice),
		Refunds:         tour.RefundTable(),
	})
}

// GetQuote prices a booking of tour :id for people on date.
//
// people defaults to one and date (YYYY-MM-DD) to today.
func (h *Handler) GetQuote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tour id"})
		return
	}
	people := 1
	if raw := c.Query("people"); raw != "" {
		people, err = strconv.Atoi(raw)
		if err != nil || people < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "people must be a positive integer"})
			return
		}
	}
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		date, err = time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	p, err := h.tours.Get(ctx, id)
	if err != nil {
		h.fail(c, "tour", err)
		return
	}

	b := tour.NewBooking(date)
	b.People = people
	b.Apply()
	q := b.Quote(p)
	c.JSON(http.StatusOK, QuoteResponse{Quote: q, TotalLabel: q.TotalLabel()})
}

// ListQuestions returns the questionnaire.
func (h *Handler) ListQuestions(c *gin.Context) {
	if h.questions == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "questionnaire not configured"})
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	qs, err := h.questions.Questions(ctx, c.DefaultQuery("language", h.language))
	if err != nil {
		h.fail(c, "questions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": qs, "count": len(qs)})
}

// Recommend scores a completed questionnaire.
func (h *Handler) Recommend(c *gin.Context) {
	if h.questions == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "questionnaire not configured"})
		return
	}
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	res, err := h.questions.Recommend(ctx, c.DefaultQuery("language", h.language), req.Answers)
	if err != nil {
		h.fail(c, "recommend", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// fail maps a source error to a status code and logs it.
func (h *Handler) fail(c *gin.Context, what string, err error) {
	status := http.StatusInternalServerError
	var se *remote.StatusError
	switch {
	case errors.Is(err, tour.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, question.ErrNoOption), errors.Is(err, question.ErrAnswerCount):
		status = http.StatusBadRequest
	case errors.Is(err, remote.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.As(err, &se):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		logging.Error("Request failed", "path", c.FullPath(), "source", what, "error", err)
	} else {
		logging.Debug("Request rejected", "path", c.FullPath(), "source", what, "status", status, "error", err)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
