package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/middleware"
	"github.com/baigrayyan/music-recommender/internal/services"
)

type AdminHandler struct {
	authService    services.AuthService
	datasetService services.DatasetService
}

func NewAdminHandler(auth services.AuthService, ds services.DatasetService) *AdminHandler {
	return &AdminHandler{authService: auth, datasetService: ds}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
		})
		return
	}

	token, expiresAt, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdminDisabled):
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Admin login is disabled",
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			logger.Warn().Str("username", req.Username).Str("ip", c.ClientIP()).Msg("[Login] invalid credentials")
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid credentials",
			})
		default:
			logger.Error().Err(err).Msg("[Login] failed to issue token")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to generate token",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Login successful",
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
		},
	})
}

func (h *AdminHandler) ReloadDataset(c *gin.Context) {
	info, err := h.datasetService.Reload(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to reload dataset, previous dataset is still served",
			"error":   err.Error(),
		})
		return
	}

	logger.Info().Str("admin", c.GetString(middleware.ContextAdminKey)).Int("songs", info.Songs).Msg("dataset reloaded")
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Dataset reloaded",
		"data":    info,
	})
}

func (h *AdminHandler) ImportDataset(c *gin.Context) {
	n, err := h.datasetService.Import(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrDatabaseUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":  "error",
			"message": "Failed to import dataset",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Dataset imported",
		"data": gin.H{
			"songs": n,
		},
	})
}
