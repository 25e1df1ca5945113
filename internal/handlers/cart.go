package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lammastore/internal/cart"
	"lammastore/internal/catalog"
	"lammastore/internal/models"
)

type cartView struct {
	Items []models.CartItem `json:"items"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
	State string            `json:"state"`
}

func viewOf(machine *cart.Checkout) cartView {
	return cartView{
		Items: machine.Items(),
		Count: machine.Count(),
		Total: machine.Total(),
		State: machine.State().String(),
	}
}

func resolveCart(c *gin.Context, carts *cart.Manager, route string) (*cart.Checkout, bool) {
	machine, err := carts.ForSession(sessionID(c))
	if err != nil {
		log.Printf("[%s] cart unavailable: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "cart unavailable")
		return nil, false
	}
	return machine, true
}

// GET /cart
func GetCart(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		machine, ok := resolveCart(c, carts, route)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, viewOf(machine))
	}
}

type addCartItemRequest struct {
	PackageID     models.FlexID `json:"packageId" binding:"required"`
	OrderMessage  string        `json:"orderMessage"`
	CustomDetails string        `json:"customDetails"`
	CustomPrice   string        `json:"customPrice"`
}

/*
POST /cart/items
- snapshots the package into a line item and persists the cart
- custom packages are rejected without a description and a positive price
*/
func AddCartItem(carts *cart.Manager, catalogSvc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var selected *models.Package
		for _, pkg := range catalogSvc.FetchPackages(ctx) {
			if pkg.ID == req.PackageID {
				selected = &pkg
				break
			}
		}
		if selected == nil {
			respondWithError(c, http.StatusNotFound, route, "package not found")
			return
		}

		machine, ok := resolveCart(c, carts, route)
		if !ok {
			return
		}

		item, err := machine.AddPackage(*selected, cart.AddInput{
			OrderMessage:  req.OrderMessage,
			CustomDetails: req.CustomDetails,
			CustomPrice:   req.CustomPrice,
		})

		var invalid *cart.ValidationError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Message})
			return
		}
		if err != nil {
			log.Printf("[%s] add failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "cart could not be saved")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"item": item, "cart": viewOf(machine)})
	}
}

// DELETE /cart/items/:cartId — removing an id the cart does not hold is a
// no-op, not an error.
func RemoveCartItem(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:cartId"
		defer handlePanic(c, route)

		cartID, err := strconv.ParseInt(c.Param("cartId"), 10, 64)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid cartId")
			return
		}

		machine, ok := resolveCart(c, carts, route)
		if !ok {
			return
		}

		if err := machine.Remove(cartID); err != nil {
			log.Printf("[%s] remove failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "cart could not be saved")
			return
		}
		c.JSON(http.StatusOK, viewOf(machine))
	}
}

/*
POST /cart/checkout
- submits the session cart through the order service
- success clears the cart; failure leaves it intact for retry
*/
func CheckoutCart(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/checkout"
		defer handlePanic(c, route)

		payload, proof, closeProof, err := parseCheckoutRequest(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		defer closeProof()

		machine, ok := resolveCart(c, carts, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		orderID, err := machine.Submit(ctx, payload.Customer, payload.PaymentMethod, proof)

		var invalid *cart.ValidationError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Message})
			return
		}
		if err != nil {
			log.Printf("[%s] submit failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "order could not be created")
			return
		}

		log.Printf("[%s] order created: %s", route, orderID)
		c.JSON(http.StatusCreated, gin.H{
			"orderId": orderID,
			"message": "order created",
			"cart":    viewOf(machine),
		})
	}
}
