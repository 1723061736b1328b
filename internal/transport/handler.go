package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/card-inspector-go/internal/cardmeta"
	"github.com/anime-shed/card-inspector-go/internal/config"
	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
	"github.com/anime-shed/card-inspector-go/internal/factory"
	"github.com/anime-shed/card-inspector-go/internal/logger"
	"github.com/anime-shed/card-inspector-go/internal/narrative"
	"github.com/anime-shed/card-inspector-go/internal/observer"
	"github.com/anime-shed/card-inspector-go/internal/repository"
	"github.com/anime-shed/card-inspector-go/internal/service"
	"github.com/anime-shed/card-inspector-go/pkg/models"
	"github.com/anime-shed/card-inspector-go/pkg/validation"
)

// Response headers describing how a result was produced
const (
	HeaderAnalysisState      = "X-Analysis-State"
	HeaderCardID             = "X-Card-ID"
	HeaderCategorySuggestion = "X-Category-Suggestion"
)

const maxListLimit = 1000

// AnalyzeURLRequest is the JSON body of POST /api/v1/cards/analyze-url
type AnalyzeURLRequest struct {
	URL      string  `json:"url" binding:"required"`
	Category string  `json:"category,omitempty"`
	Seed     *uint64 `json:"seed,omitempty"`
	Save     bool    `json:"save,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CategoryInfo describes one category for GET /api/v1/categories
type CategoryInfo struct {
	Name          models.Category `json:"name"`
	Title         string          `json:"title"`
	DefaultSeries string          `json:"defaultSeries"`
}

// Dependencies are the collaborators the HTTP layer needs
type Dependencies struct {
	Service service.CardAnalysisService
	Sources factory.SourceFactory
	Metrics *observer.MetricsObserver
	Config  *config.Config
}

type handler struct {
	deps Dependencies
}

func NewHandler(deps Dependencies) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(deps.Config.Server.MaxRequestBodySize),
		errorHandler(),
	)

	h := &handler{deps: deps}

	// Configure routes
	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	v1.POST("/cards/analyze", h.analyzeUpload)
	v1.POST("/cards/analyze-url", h.analyzeURL)
	v1.GET("/cards/:id", h.getCard)
	v1.GET("/cards", h.listCards)
	v1.GET("/categories", h.listCategories)
	v1.GET("/metrics", h.metrics)

	return r
}

func (h *handler) analyzeUpload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.deps.Config.Server.RequestTimeout.Std())
	defer cancel()

	logRequest(c, "Processing card upload")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "image too large", err)
			return
		}
		respondError(c, http.StatusBadRequest, "missing image file", apperrors.NewValidationError("form field 'image' is required", err))
		return
	}

	seed, err := validation.ParseSeed(c.PostForm("seed"))
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "invalid seed", err)
		return
	}
	save, err := parseOptionalBool(c.PostForm("save"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid save flag", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "cannot open uploaded image", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "cannot read uploaded image", err)
		return
	}

	category := c.PostForm("category")
	analysis := h.deps.Service.AnalyzeBytes(ctx, data, fileHeader.Filename, category, service.Options{Seed: seed, Save: save})
	h.respondAnalysis(c, analysis, category)
}

func (h *handler) analyzeURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.deps.Config.Server.RequestTimeout.Std())
	defer cancel()

	logRequest(c, "Processing card URL analysis")

	var req AnalyzeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	if factory.ResolveType(req.URL) != factory.HTTPStorage {
		respondError(c, http.StatusBadRequest, "invalid image URL", apperrors.NewValidationError("URL scheme not allowed", nil))
		return
	}
	src, err := h.deps.Sources.CreateSource(req.URL)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"url": req.URL,
			"ip":  c.ClientIP(),
		}).Error("Invalid image URL")
		respondError(c, apperrors.GetStatusCode(err), "invalid image URL", err)
		return
	}

	analysis := h.deps.Service.AnalyzeCardImage(ctx, src, req.Category, service.Options{Seed: req.Seed, Save: req.Save})
	h.respondAnalysis(c, analysis, req.Category)
}

// respondAnalysis always answers 200: unreadable images become Fallback results
func (h *handler) respondAnalysis(c *gin.Context, analysis *service.Analysis, rawCategory string) {
	c.Header(HeaderAnalysisState, analysis.State.String())
	if analysis.ID != "" {
		c.Header(HeaderCardID, analysis.ID)
	}
	if suggestion, ok := SuggestCategory(rawCategory); ok {
		c.Header(HeaderCategorySuggestion, string(suggestion))
	}
	c.JSON(http.StatusOK, analysis.Result)
}

func (h *handler) getCard(c *gin.Context) {
	card, err := h.deps.Service.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "cannot load card", err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *handler) listCards(c *gin.Context) {
	limit, err := validation.ParseLimit(c.Query("limit"), repository.DefaultListLimit, maxListLimit)
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "invalid limit", err)
		return
	}
	cards, err := h.deps.Service.ListCards(c.Request.Context(), limit)
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "cannot list cards", err)
		return
	}
	if cards == nil {
		cards = []*repository.StoredCard{}
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards, "count": len(cards)})
}

func (h *handler) listCategories(c *gin.Context) {
	categories := make([]CategoryInfo, 0, len(models.AllCategories()))
	for _, cat := range models.AllCategories() {
		categories = append(categories, CategoryInfo{
			Name:          cat,
			Title:         narrative.CollectionTitle(cat),
			DefaultSeries: cardmeta.DefaultSeries(cat),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"default":    h.deps.Config.DefaultCategory(),
	})
}

func (h *handler) metrics(c *gin.Context) {
	if h.deps.Metrics == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, h.deps.Metrics.GetMetrics())
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func logRequest(c *gin.Context, msg string) {
	logger.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"ip":         c.ClientIP(),
	}).Info(msg)
}

func parseOptionalBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError("expected a boolean", err).WithDetails(raw)
	}
	return v, nil
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
