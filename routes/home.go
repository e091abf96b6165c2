package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielMusau/WatchWave/catalog"
)

// The home endpoints are pass-throughs to the external catalog: the
// upstream status and body are relayed verbatim, a non-2xx upstream
// answer included. Only transport failures get a status of their own.

func (api *API) handleLatestMovies(c *gin.Context) {
	api.relayCatalog(c, "latest_movies", func(ctx context.Context) (catalog.Result, error) {
		return api.Catalog.LatestMovies(ctx)
	})
}

func (api *API) handleLatestSeries(c *gin.Context) {
	api.relayCatalog(c, "latest_series", func(ctx context.Context) (catalog.Result, error) {
		return api.Catalog.LatestSeries(ctx)
	})
}

func (api *API) handleSearch(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		api.Metrics.CountBadRequest("search")
		c.JSON(http.StatusBadRequest, gin.H{"error": "The 'query' parameter is needed"})
		return
	}
	api.relayCatalog(c, "search", func(ctx context.Context) (catalog.Result, error) {
		return api.Catalog.Search(ctx, query)
	})
}

func (api *API) relayCatalog(c *gin.Context, operation string, fetch func(context.Context) (catalog.Result, error)) {
	result, err := fetch(c.Request.Context())
	if err != nil {
		api.logger.WithError(err).Error("Catalog request failed")
		api.Metrics.CountBadRequest(operation)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to reach catalog"})
		return
	}

	if result.Status >= 200 && result.Status < 300 {
		api.Metrics.CountSuccess(operation)
	} else {
		api.Metrics.CountBadRequest(operation)
	}
	c.Data(result.Status, "application/json", result.Body)
}
