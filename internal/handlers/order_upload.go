package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"lammastore/internal/models"
	"lammastore/internal/orders"
)

/*
=======================
  INPUT STRUCTS
=======================
*/

type orderPayload struct {
	Items         []models.CartItem    `json:"items"`
	Customer      models.OrderCustomer `json:"customer"`
	PaymentMethod string               `json:"paymentMethod"`
}

type checkoutPayload struct {
	Customer      models.OrderCustomer `json:"customer"`
	PaymentMethod string               `json:"paymentMethod"`
}

/*
=======================
  PARSERS
=======================
*/

// parseOrderRequest accepts either a plain JSON body or a multipart form
// carrying a "payload" JSON field plus an optional "proof" image. The
// returned closer releases the opened upload, if any.
func parseOrderRequest(c *gin.Context) (orderPayload, *orders.Attachment, func(), error) {
	noop := func() {}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var payload orderPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			return orderPayload{}, nil, noop, err
		}
		return payload, nil, noop, nil
	}

	raw, err := parseMultipartPayload(c)
	if err != nil {
		return orderPayload{}, nil, noop, err
	}

	var payload orderPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return orderPayload{}, nil, noop, fmt.Errorf("invalid payload json: %w", err)
	}

	proof, closer, err := openProof(c)
	if err != nil {
		return orderPayload{}, nil, noop, err
	}
	return payload, proof, closer, nil
}

// parseCheckoutRequest is the same shape without items: the cart machine
// already holds them.
func parseCheckoutRequest(c *gin.Context) (checkoutPayload, *orders.Attachment, func(), error) {
	noop := func() {}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var payload checkoutPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			return checkoutPayload{}, nil, noop, err
		}
		return payload, nil, noop, nil
	}

	raw, err := parseMultipartPayload(c)
	if err != nil {
		return checkoutPayload{}, nil, noop, err
	}

	var payload checkoutPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return checkoutPayload{}, nil, noop, fmt.Errorf("invalid payload json: %w", err)
	}

	proof, closer, err := openProof(c)
	if err != nil {
		return checkoutPayload{}, nil, noop, err
	}
	return payload, proof, closer, nil
}

func parseMultipartPayload(c *gin.Context) ([]byte, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return nil, err
	}

	raw, ok := c.GetPostForm("payload")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("payload field is required")
	}
	return []byte(raw), nil
}

/*
=======================
  PROOF IMAGE
=======================
*/

const maxProofSize = 5 << 20

var allowedProofExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

func openProof(c *gin.Context) (*orders.Attachment, func(), error) {
	noop := func() {}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		// tolerate gin version differences in the missing-file error
		if errors.Is(err, http.ErrMissingFile) || strings.Contains(err.Error(), "no such file") {
			return nil, noop, nil
		}
		return nil, noop, err
	}

	if err := validateProof(fileHeader); err != nil {
		return nil, noop, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, noop, err
	}

	attachment := &orders.Attachment{Name: fileHeader.Filename, Reader: file}
	return attachment, func() { file.Close() }, nil
}

func validateProof(file *multipart.FileHeader) error {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return fmt.Errorf("proof file extension is required")
	}
	if _, ok := allowedProofExtensions[extension]; !ok {
		return fmt.Errorf("unsupported image type: %s", extension)
	}
	if file.Size > maxProofSize {
		return fmt.Errorf("proof file too large (max 5MB)")
	}
	return nil
}
