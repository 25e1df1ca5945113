package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lammastore/internal/models"
	"lammastore/internal/orders"
	"lammastore/internal/store"
)

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(orderSvc *orders.Service, st store.DocumentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureStore(c.Request.Context(), st); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		payload, proof, closeProof, err := parseOrderRequest(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		defer closeProof()

		if len(payload.Items) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "at least one item is required")
			return
		}

		draft := orders.Draft{
			Items:         payload.Items,
			Total:         models.CartTotal(payload.Items),
			Customer:      payload.Customer,
			PaymentMethod: payload.PaymentMethod,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		orderID, err := orderSvc.Create(ctx, draft, proof)
		if err != nil {
			log.Printf("[%s] create failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "order could not be created")
			return
		}

		log.Printf("[%s] order created: %s", route, orderID)
		c.JSON(http.StatusCreated, gin.H{
			"orderId": orderID,
			"message": "order created",
		})
	}
}

/* =========================
   GET ORDERS (ADMIN)
========================= */

/*
GET /admin/api/orders
- newest first
- pagination only when page + limit are both present
- failures surface: an error is never reported as an empty list
*/
func GetOrders(orderSvc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := orderSvc.List(ctx)
		if err != nil {
			log.Printf("[%s] list failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "orders could not be fetched")
			return
		}

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr == "" || limitStr == "" {
			c.JSON(http.StatusOK, list)
			return
		}

		page, limit, err := parsePaginationParams(pageStr, limitStr)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		total := len(list)
		start, end := pageWindow(page, limit, total)

		c.JSON(http.StatusOK, gin.H{
			"data": list[start:end],
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

/* =========================
   UPDATE STATUS / DELETE (ADMIN)
========================= */

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func UpdateOrderStatus(orderSvc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "status is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := orderSvc.UpdateStatus(ctx, c.Param("id"), req.Status)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "status updated"})
	}
}

func DeleteOrder(orderSvc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := orderSvc.Delete(ctx, c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
