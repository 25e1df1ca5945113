package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"lammastore/internal/middleware"
	"lammastore/internal/store"
)

const testJWTSecret = "test-secret"

func adminRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if err := mem.Set(context.Background(), adminsCollection, "admin@lamma.sy", bson.M{"passwordHash": string(hash)}); err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.POST("/admin/login", AdminLogin(mem, testJWTSecret, time.Hour))

	guarded := r.Group("/admin/api", middleware.AdminAuth(testJWTSecret))
	guarded.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, mem
}

func login(t *testing.T, router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body := `{"email": "` + email + `", "password": "` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminLoginIssuesToken(t *testing.T) {
	router, _ := adminRouter(t)

	w := login(t, router, "admin@lamma.sy", "correct horse")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Token == "" {
		t.Fatal("login must return a token")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	guarded := httptest.NewRecorder()
	router.ServeHTTP(guarded, req)
	if guarded.Code != http.StatusOK {
		t.Fatalf("valid token must pass the guard, got %d", guarded.Code)
	}
}

func TestAdminLoginNormalizesEmail(t *testing.T) {
	router, _ := adminRouter(t)

	w := login(t, router, "  Admin@Lamma.SY ", "correct horse")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	router, _ := adminRouter(t)

	w := login(t, router, "admin@lamma.sy", "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminLoginUnknownEmail(t *testing.T) {
	router, _ := adminRouter(t)

	w := login(t, router, "nobody@lamma.sy", "correct horse")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminGuardRejectsMissingAndMalformedTokens(t *testing.T) {
	router, _ := adminRouter(t)

	cases := map[string]string{
		"missing":     "",
		"not bearer":  "Basic abc",
		"bad token":   "Bearer not.a.jwt",
		"wrong parts": "Bearer",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/api/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
	}
}
