// Package server exposes the recommendation pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"movierec/internal/gateway"
	"movierec/internal/history"
	"movierec/internal/logger"
	"movierec/internal/model"
	"movierec/internal/profile"
	"movierec/internal/recommend"
	"movierec/internal/selector"
	"movierec/internal/task"
)

// historyLookbackDays is how far back served recommendations are excluded
// from new results.
const historyLookbackDays = 7

// Server is the HTTP API server.
type Server struct {
	router       *gin.Engine
	provider     profile.Provider
	pipeline     *recommend.Pipeline
	historyStore history.Store
	tasks        *task.Manager
}

// NewServer creates the HTTP server and wires its routes.
func NewServer(p profile.Provider, pipeline *recommend.Pipeline, hs history.Store) *Server {
	s := &Server{
		router:       gin.Default(),
		provider:     p,
		pipeline:     pipeline,
		historyStore: hs,
		tasks:        task.NewManager(),
	}
	s.router.Use(s.corsMiddleware())
	s.setupRoutes()
	return s
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	v1.Use(s.authMiddleware())

	v1.GET("/recommendations", s.handleRecommendations)
	v1.POST("/recommendations", s.handleRecommendations)
	v1.POST("/recommendations/async", s.handleRecommendationsAsync)
	v1.GET("/tasks/:id", s.handleGetTask)
}

// authMiddleware resolves the bearer token to a user via the profile store.
// Token issuance and verification beyond this lookup belong to the upstream
// identity collaborator.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		u, err := s.provider.GetUserByToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user", u)
		c.Next()
	}
}

// recommendationParams is the request surface, accepted as query parameters
// on GET and as a JSON body on POST.
type recommendationParams struct {
	MediaType   string             `json:"mediaType" form:"mediaType"`
	Exclude     string             `json:"exclude" form:"exclude"`
	Limit       int                `json:"limit" form:"limit"`
	Preferences *model.UserProfile `json:"preferences" form:"-"`
}

func (s *Server) parseParams(c *gin.Context) (*recommendationParams, error) {
	var params recommendationParams
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&params); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		return &params, nil
	}

	params.MediaType = c.Query("mediaType")
	params.Exclude = c.Query("exclude")
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %w", err)
		}
		params.Limit = limit
	}
	if prefs := c.Query("preferences"); prefs != "" {
		var p model.UserProfile
		if err := json.Unmarshal([]byte(prefs), &p); err != nil {
			return nil, fmt.Errorf("invalid preferences: %w", err)
		}
		params.Preferences = &p
	}
	return &params, nil
}

// buildRequest validates the params and resolves the profile: inline
// preferences win, the profile store is the fallback.
func (s *Server) buildRequest(c *gin.Context, params *recommendationParams) (*recommend.Request, string, error) {
	uVal, exists := c.Get("user")
	if !exists {
		return nil, "", fmt.Errorf("user not authenticated")
	}
	u := uVal.(*model.User)

	mediaType := model.MediaType(params.MediaType)
	switch mediaType {
	case model.MediaMovie, model.MediaTV, model.MediaBoth:
	case "":
		mediaType = model.MediaBoth
	default:
		return nil, "", fmt.Errorf("unsupported mediaType %q", params.MediaType)
	}

	source := "inline_preferences"
	prof := params.Preferences
	if prof == nil {
		stored, err := s.provider.GetProfile(u.ID)
		if err != nil {
			return nil, "", fmt.Errorf("no preferences supplied and no stored profile: %w", err)
		}
		prof = stored
		source = "profile_store"
	}

	exclude := make(map[int]struct{})
	for _, part := range strings.Split(params.Exclude, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, "", fmt.Errorf("invalid exclude id %q", part)
		}
		exclude[id] = struct{}{}
	}

	// Recently served items are excluded too, so repeat requests surface
	// fresh content.
	if recent, err := s.historyStore.RecentMediaIDs(u.ID, historyLookbackDays); err != nil {
		logger.Error("failed to load history for %s: %v", u.ID, err)
	} else {
		for _, id := range recent {
			exclude[id] = struct{}{}
		}
	}

	limit := params.Limit
	if limit <= 0 || limit > selector.MaxLimit {
		limit = selector.MaxLimit
	}

	return &recommend.Request{
		MediaType:  mediaType,
		Profile:    prof,
		ExcludeIDs: exclude,
		Limit:      limit,
	}, source, nil
}

// responseItem is the wire shape of one recommended item.
type responseItem struct {
	MediaID              int     `json:"mediaId"`
	Title                string  `json:"title"`
	Overview             string  `json:"overview"`
	PosterPath           string  `json:"posterPath"`
	BackdropPath         string  `json:"backdropPath"`
	VoteAverage          float64 `json:"voteAverage"`
	ReleaseDate          string  `json:"releaseDate"`
	Popularity           float64 `json:"popularity"`
	MediaType            string  `json:"mediaType"`
	Genres               string  `json:"genres"`
	Score                float64 `json:"score"`
	RecommendationReason string  `json:"recommendationReason"`
	ProcessingTime       int64   `json:"processingTime"`
}

func toResponseItems(result *model.RecommendationResult) []responseItem {
	items := make([]responseItem, 0, len(result.Items))
	for _, sc := range result.Items {
		ids := sc.GenreIDs
		if len(sc.Genres) > 0 {
			ids = make([]model.GenreID, 0, len(sc.Genres))
			for _, g := range sc.Genres {
				ids = append(ids, g.ID)
			}
		}
		parts := make([]string, 0, len(ids))
		for _, id := range ids {
			parts = append(parts, strconv.Itoa(id))
		}

		items = append(items, responseItem{
			MediaID:              sc.ID,
			Title:                sc.Title,
			Overview:             sc.Overview,
			PosterPath:           sc.PosterPath,
			BackdropPath:         sc.BackdropPath,
			VoteAverage:          sc.VoteAverage,
			ReleaseDate:          sc.ReleaseDate,
			Popularity:           sc.Popularity,
			MediaType:            string(sc.MediaType),
			Genres:               strings.Join(parts, "|"),
			Score:                sc.Score,
			RecommendationReason: sc.Reason,
			ProcessingTime:       result.ProcessingTimeMs,
		})
	}
	return items
}

// handleRecommendations serves GET and POST /api/v1/recommendations.
func (s *Server) handleRecommendations(c *gin.Context) {
	params, err := s.parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, source, err := s.buildRequest(c, params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.pipeline.Recommend(c.Request.Context(), *req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": fmt.Sprintf("recommendation failed: %v", err)})
		return
	}

	u := c.MustGet("user").(*model.User)
	s.saveHistoryAsync(u.ID, result.Items)

	c.JSON(http.StatusOK, gin.H{
		"items":           toResponseItems(result),
		"source":          source,
		"userPreferences": req.Profile,
	})
}

// handleRecommendationsAsync kicks off a background pipeline run and returns
// a task id for polling.
func (s *Server) handleRecommendationsAsync(c *gin.Context) {
	params, err := s.parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, _, err := s.buildRequest(c, params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u := c.MustGet("user").(*model.User)
	t := s.tasks.NewTask()

	go func() {
		_ = s.tasks.UpdateStatus(t.ID, task.StatusProcessing)

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		result, err := s.pipeline.Recommend(ctx, *req)
		if err != nil {
			_ = s.tasks.SetError(t.ID, err)
			return
		}
		if err := s.tasks.SetResult(t.ID, result); err != nil {
			logger.Error("failed to store task result: %v", err)
			return
		}
		s.saveHistoryAsync(u.ID, result.Items)
	}()

	c.JSON(http.StatusAccepted, gin.H{"taskId": t.ID, "status": t.Status})
}

// handleGetTask serves GET /api/v1/tasks/:id.
func (s *Server) handleGetTask(c *gin.Context) {
	t, err := s.tasks.GetTask(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) saveHistoryAsync(userID string, items []model.ScoredCandidate) {
	if len(items) == 0 {
		return
	}
	go func() {
		if err := s.historyStore.Save(userID, items); err != nil {
			logger.Error("failed to save history async: %v", err)
		}
	}()
}

// statusForError maps pipeline errors to HTTP statuses; only catalog
// unavailability is terminal.
func statusForError(err error) int {
	if errors.Is(err, gateway.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
