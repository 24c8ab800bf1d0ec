package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/services"
)

const defaultListLimit = 20

type SongHandler struct {
	contentService services.ContentBasedService
	maxLimit       int
}

func NewSongHandler(content services.ContentBasedService, maxLimit int) *SongHandler {
	return &SongHandler{contentService: content, maxLimit: maxLimit}
}

// SearchSongs helps users find the exact title to ask for.
func (h *SongHandler) SearchSongs(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Search query is required",
		})
		return
	}
	limit := parseLimit(c.Query("limit"), defaultListLimit, h.maxLimit)

	songs, err := h.contentService.SearchSongs(query, limit)
	if err != nil {
		logger.Error().Err(err).Msg("[SearchSongs] failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to search songs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Search completed",
		"data":    songs,
	})
}

func (h *SongHandler) GetClusterSongs(c *gin.Context) {
	cluster, err := strconv.Atoi(c.Param("cluster"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Cluster must be an integer",
		})
		return
	}
	limit := parseLimit(c.Query("limit"), defaultListLimit, h.maxLimit)

	songs, err := h.contentService.GetClusterSongs(cluster, limit)
	if err != nil {
		logger.Error().Err(err).Int("cluster", cluster).Msg("[GetClusterSongs] failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch cluster songs",
		})
		return
	}
	if len(songs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Cluster not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Cluster songs fetched",
		"data": gin.H{
			"cluster": cluster,
			"songs":   songs,
			"count":   len(songs),
		},
	})
}

func (h *SongHandler) GetDatasetInfo(c *gin.Context) {
	info, err := h.contentService.DatasetInfo()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Dataset not loaded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   info,
	})
}
