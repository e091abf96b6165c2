package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DanielMusau/WatchWave/db"
	m "github.com/DanielMusau/WatchWave/models"
)

type addToWatchlistRequest struct {
	Title      string `json:"title" binding:"required"`
	ExternalID int    `json:"external_id" binding:"required"`
	PosterPath string `json:"poster_path" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=movie series"`
	Overview   string `json:"overview"`
}

type updateWatchlistRequest struct {
	Watched *bool `json:"watched" binding:"required"`
}

func (api *API) handleAddToWatchlist(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req addToWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Metrics.CountBadRequest("add_to_watchlist")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	picture := m.NewMotionPicture(req.Title, req.ExternalID, req.PosterPath, req.Type, req.Overview)
	entry, err := api.DB.AddToWatchlist(account.ID, picture)
	if errors.Is(err, db.ErrDuplicateExternalID) {
		api.Metrics.CountBadRequest("add_to_watchlist")
		c.JSON(http.StatusConflict, gin.H{"error": "Motion picture already exists."})
		return
	}
	if err != nil {
		api.logger.WithError(err).Error("Error adding to watchlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	api.Metrics.CountWatchlistAdd()
	api.Metrics.CountSuccess("add_to_watchlist")
	c.JSON(http.StatusCreated, entry)
}

func (api *API) handleUpdateWatchlist(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Metrics.CountBadRequest("update_watchlist")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid watchlist id"})
		return
	}

	var req updateWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Metrics.CountBadRequest("update_watchlist")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	entry, err := api.DB.UpdateWatchlist(account.ID, uint(entryID), *req.Watched)
	if errors.Is(err, db.ErrNotFound) {
		api.Metrics.CountBadRequest("update_watchlist")
		c.JSON(http.StatusNotFound, gin.H{"error": "Watchlist entry not found"})
		return
	}
	if err != nil {
		api.logger.WithError(err).Error("Error updating watchlist entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	api.Metrics.CountSuccess("update_watchlist")
	c.JSON(http.StatusOK, entry)
}

func (api *API) handleGetWatchlist(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Opcional: filtrar por watched status
	var watched *bool
	if watchedFilter := c.Query("watched"); watchedFilter != "" {
		watchedBool, err := strconv.ParseBool(watchedFilter)
		if err != nil {
			api.Metrics.CountBadRequest("get_watchlist")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid watched filter value"})
			return
		}
		watched = &watchedBool
	}

	pictures, err := api.DB.GetWatchlist(account.ID, watched)
	if err != nil {
		api.logger.WithError(err).Error("Error getting watchlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if pictures == nil {
		pictures = []m.MotionPicture{}
	}

	api.Metrics.CountSuccess("get_watchlist")
	c.JSON(http.StatusOK, pictures)
}

func (api *API) handleRemoveFromWatchlist(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pictureID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Metrics.CountBadRequest("remove_from_watchlist")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid motion picture id"})
		return
	}

	err = api.DB.RemoveFromWatchlist(account.ID, uint(pictureID))
	if errors.Is(err, db.ErrNotFound) {
		api.Metrics.CountBadRequest("remove_from_watchlist")
		c.JSON(http.StatusNotFound, gin.H{"error": "Watchlist entry not found"})
		return
	}
	if err != nil {
		api.logger.WithError(err).Error("Error removing from watchlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	api.Metrics.CountSuccess("remove_from_watchlist")
	c.JSON(http.StatusOK, gin.H{"message": "Movie removed from watchlist"})
}
