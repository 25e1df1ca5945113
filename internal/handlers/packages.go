package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lammastore/internal/catalog"
	"lammastore/internal/models"
)

/*
GET /packages
- optional ?category= filter
- remote failures fall back to the default dataset, so this never errors
*/
func GetPackages(catalogSvc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /packages"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		packages := catalogSvc.FetchPackages(ctx)

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filtered := make([]models.Package, 0, len(packages))
			for _, pkg := range packages {
				if pkg.Category == category {
					filtered = append(filtered, pkg)
				}
			}
			packages = filtered
		}

		log.Printf("[%s] returning %d packages", route, len(packages))
		c.JSON(http.StatusOK, packages)
	}
}

// GET /categories — the storefront sections are static client data, not a
// remote collection.
func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.DefaultCategories())
	}
}
