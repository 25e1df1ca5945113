package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lammastore/internal/analytics"
	"lammastore/internal/cache"
)

// One counted visit per session per day, aligned with the daily counter.
const visitDedupTTL = 24 * time.Hour

/*
POST /visits
- dedups on the session cookie before touching the counter
- best effort end to end: the response carries a recorded flag, never an
  error status
*/
func RecordVisit(analyticsSvc *analytics.Service, dedup cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /visits"
		defer handlePanic(c, route)

		session := sessionID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		first, err := dedup.SetNX(ctx, "visit:"+session, visitDedupTTL)
		if err != nil {
			// dedup being down must not cost the count
			log.Printf("[%s] dedup unavailable: %v", route, err)
			first = true
		}

		recorded := false
		if first {
			recorded = analyticsSvc.RecordVisit(ctx)
		}

		c.JSON(http.StatusOK, gin.H{"recorded": recorded})
	}
}

// GET /admin/api/stats
func GetStats(analyticsSvc *analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/stats"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		stats, err := analyticsSvc.Stats(ctx)
		if err != nil {
			log.Printf("[%s] stats failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "stats could not be fetched")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
