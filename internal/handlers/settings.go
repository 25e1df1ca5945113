package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lammastore/internal/catalog"
	"lammastore/internal/models"
)

// GET /settings — remote values laid over the defaults, one top-level key
// at a time. The merge lives here, not in the catalog service.
func GetSettings(catalogSvc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /settings"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		raw := catalogSvc.FetchSettings(ctx)
		merged := models.MergeSettings(catalog.DefaultSettings(), raw)
		c.JSON(http.StatusOK, merged)
	}
}

// PUT /admin/api/settings — replaces the settings document wholesale.
func UpdateSettings(catalogSvc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/settings"
		defer handlePanic(c, route)

		var settings models.Settings
		if err := c.ShouldBindJSON(&settings); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := catalogSvc.SaveSettings(ctx, settings); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "settings could not be saved")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "settings saved"})
	}
}
