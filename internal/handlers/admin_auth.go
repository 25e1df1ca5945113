package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"lammastore/internal/models"
	"lammastore/internal/store"
)

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const adminsCollection = "admins"

// POST /admin/login — admin documents are keyed by email.
func AdminLogin(st store.DocumentStore, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/login"
		defer handlePanic(c, route)

		var req AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			respondWithError(c, http.StatusBadRequest, route, "email and password are required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		doc, err := st.GetOne(ctx, adminsCollection, email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		admin, err := decodeAdmin(email, doc)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		claims := jwt.MapClaims{
			"sub":  email,
			"role": "admin",
			"exp":  time.Now().Add(accessTTL).Unix(),
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(jwtSecret))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": signed})
	}
}

// decodeAdmin rebuilds the account from its document; the store hands back
// the document body without its key, so the email is restored from the
// lookup.
func decodeAdmin(email string, doc bson.M) (models.Admin, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return models.Admin{}, err
	}

	var admin models.Admin
	if err := bson.Unmarshal(data, &admin); err != nil {
		return models.Admin{}, err
	}
	admin.Email = email
	if admin.PasswordHash == "" {
		return models.Admin{}, fmt.Errorf("admin %s has no password hash", email)
	}
	return admin, nil
}
