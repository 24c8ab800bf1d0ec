package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/models"
	"github.com/baigrayyan/music-recommender/internal/services"
	"github.com/baigrayyan/music-recommender/internal/web"
)

type RecommendationHandler struct {
	contentService services.ContentBasedService
	defaultLimit   int
	maxLimit       int
}

func NewRecommendationHandler(content services.ContentBasedService, defaultLimit, maxLimit int) *RecommendationHandler {
	return &RecommendationHandler{
		contentService: content,
		defaultLimit:   defaultLimit,
		maxLimit:       maxLimit,
	}
}

// parseLimit falls back to def for missing or invalid values and caps at max.
func parseLimit(raw string, def, max int) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

func (h *RecommendationHandler) page(query string, limit int, submitted bool, rows []models.RecommendationRow) gin.H {
	return gin.H{
		"Query":              query,
		"Limit":              limit,
		"MaxRecommendations": h.maxLimit,
		"Submitted":          submitted,
		"Recommendations":    rows,
	}
}

// Index renders the empty search page.
func (h *RecommendationHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexTemplate, h.page("", h.defaultLimit, false, nil))
}

// RecommendForm handles the HTML form. Failures are rendered as a single
// "Error" row so the page keeps one result shape.
func (h *RecommendationHandler) RecommendForm(c *gin.Context) {
	songName := c.PostForm("song_name")
	limit := parseLimit(c.PostForm("num_recommendations"), h.defaultLimit, h.maxLimit)

	var rows []models.RecommendationRow
	result, err := h.contentService.GetRecommendations(songName, limit)
	if err != nil {
		rows = []models.RecommendationRow{errorRow(err)}
	} else {
		rows = make([]models.RecommendationRow, 0, len(result.Recommendations))
		for _, rec := range result.Recommendations {
			rows = append(rows, models.RecommendationRow{
				Name:    rec.Name,
				Year:    strconv.Itoa(rec.Year),
				Artists: rec.Artists,
			})
		}
	}

	c.HTML(http.StatusOK, web.IndexTemplate, h.page(songName, limit, true, rows))
}

func errorRow(err error) models.RecommendationRow {
	message := services.MsgUnexpectedError
	var nf *services.NotFoundError
	if errors.As(err, &nf) {
		message = nf.Message
	} else {
		logger.Error().Err(err).Msg("[RecommendForm] unexpected error")
	}
	return models.RecommendationRow{Name: "Error", Year: "", Artists: message, IsError: true}
}

// GetRecommendations is the JSON form of the lookup.
// GET /api/recommendations?song=<title>&limit=<n>
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	songName := c.Query("song")
	if songName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Query parameter 'song' is required",
		})
		return
	}
	limit := parseLimit(c.Query("limit"), h.defaultLimit, h.maxLimit)

	result, err := h.contentService.GetRecommendations(songName, limit)
	if err != nil {
		var nf *services.NotFoundError
		if errors.As(err, &nf) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": nf.Message,
			})
			return
		}
		logger.Error().Err(err).Str("song", songName).Msg("[GetRecommendations] unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": services.MsgUnexpectedError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Recommendations fetched",
		"data": gin.H{
			"song":            result.Song,
			"cluster":         result.Cluster,
			"recommendations": result.Recommendations,
			"count":           len(result.Recommendations),
			"metadata": gin.H{
				"max_recommendations": limit,
			},
		},
	})
}
