package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lammastore/internal/catalog"
	"lammastore/internal/models"
	"lammastore/internal/store"
)

func packagesRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	svc := catalog.NewService(mem)
	r := gin.New()
	r.GET("/packages", GetPackages(svc))
	r.GET("/categories", GetCategories())
	r.PUT("/admin/api/packages", ReconcilePackages(svc, mem))
	return r, mem
}

func listPackages(t *testing.T, router *gin.Engine, target string) []models.Package {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var packages []models.Package
	if err := json.Unmarshal(w.Body.Bytes(), &packages); err != nil {
		t.Fatalf("decode packages: %v", err)
	}
	return packages
}

func TestGetPackagesServesDefaultsOnEmptyStore(t *testing.T) {
	router, _ := packagesRouter(t)

	packages := listPackages(t, router, "/packages")
	if len(packages) != len(catalog.DefaultPackages()) {
		t.Fatalf("expected the default dataset, got %d packages", len(packages))
	}
}

func TestGetPackagesCategoryFilter(t *testing.T) {
	router, _ := packagesRouter(t)

	packages := listPackages(t, router, "/packages?category=food")
	if len(packages) == 0 {
		t.Fatal("default dataset must contain food packages")
	}
	for _, pkg := range packages {
		if pkg.Category != models.CategoryFood {
			t.Fatalf("filter leaked a %s package", pkg.Category)
		}
	}
}

func TestGetCategoriesIsStatic(t *testing.T) {
	router, _ := packagesRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var categories []models.Category
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 storefront sections, got %d", len(categories))
	}
}

func TestReconcileEndpointReplacesCatalog(t *testing.T) {
	router, _ := packagesRouter(t)

	body := `[
		{"id": "1", "title": "وجبة", "category": "food", "price": 25},
		{"id": 2, "title": "هدية", "category": "gifts", "price": 30}
	]`
	req := httptest.NewRequest(http.MethodPut, "/admin/api/packages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	packages := listPackages(t, router, "/packages")
	if len(packages) != 2 {
		t.Fatalf("expected the reconciled catalog, got %d packages", len(packages))
	}
	for _, pkg := range packages {
		if pkg.ID != "1" && pkg.ID != "2" {
			t.Fatalf("unexpected package id %s", pkg.ID)
		}
	}
}

func TestReconcileEndpointRejectsDuplicateIDs(t *testing.T) {
	router, _ := packagesRouter(t)

	body := `[
		{"id": "1", "title": "a", "category": "food", "price": 25},
		{"id": "1", "title": "b", "category": "food", "price": 30}
	]`
	req := httptest.NewRequest(http.MethodPut, "/admin/api/packages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestReconcileEndpointRejectsMissingID(t *testing.T) {
	router, _ := packagesRouter(t)

	body := `[{"title": "a", "category": "food", "price": 25}]`
	req := httptest.NewRequest(http.MethodPut, "/admin/api/packages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
