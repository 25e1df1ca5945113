package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lammastore/internal/catalog"
	"lammastore/internal/models"
	"lammastore/internal/store"
)

/*
PUT /admin/api/packages
- body is the full desired catalog
- the service diffs it against the remote set and commits one atomic batch
*/
func ReconcilePackages(catalogSvc *catalog.Service, st store.DocumentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/packages"
		defer handlePanic(c, route)

		if err := ensureStore(c.Request.Context(), st); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var desired []models.Package
		if err := c.ShouldBindJSON(&desired); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		seen := make(map[string]struct{}, len(desired))
		for _, pkg := range desired {
			id := pkg.ID.String()
			if id == "" {
				respondWithError(c, http.StatusBadRequest, route, "every package needs an id")
				return
			}
			if _, dup := seen[id]; dup {
				respondWithError(c, http.StatusBadRequest, route, "duplicate package id: "+id)
				return
			}
			seen[id] = struct{}{}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if err := catalogSvc.ReconcilePackages(ctx, desired); err != nil {
			log.Printf("[%s] reconcile failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "catalog could not be saved")
			return
		}

		log.Printf("[%s] catalog reconciled to %d packages", route, len(desired))
		c.JSON(http.StatusOK, gin.H{"message": "catalog saved", "count": len(desired)})
	}
}
