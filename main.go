package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"lammastore/internal/analytics"
	"lammastore/internal/cache"
	"lammastore/internal/cart"
	"lammastore/internal/catalog"
	"lammastore/internal/config"
	"lammastore/internal/database"
	"lammastore/internal/handlers"
	"lammastore/internal/middleware"
	"lammastore/internal/orders"
	"lammastore/internal/store"
)

func main() {
	config.Load()

	var documents store.DocumentStore
	if config.AppEnv.MongoURI == "" {
		log.Println("MONGO_URI not set, running on the in-memory store")
		documents = store.NewMemory()
	} else {
		client, err := database.Connect(config.AppEnv.MongoURI)
		if err != nil {
			log.Fatal(err)
		}

		db := client.Database(config.AppEnv.DBName)
		log.Println("MongoDB connected to:", db.Name())

		if err := database.EnsureOrderIndexes(db); err != nil {
			log.Printf("order index warning: %v", err)
		}
		if err := database.EnsurePackageIndexes(db); err != nil {
			log.Printf("package index warning: %v", err)
		}

		documents = store.NewMongo(db)
	}

	var dedup cache.Cache
	if config.AppEnv.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, visit dedup is process-local")
		dedup = cache.NewMemory()
	} else {
		rds := cache.NewRedis(config.AppEnv.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rds.Ping(ctx); err != nil {
			log.Fatal("redis unreachable: ", err)
		}
		cancel()
		dedup = rds
	}

	objects := store.NewDisk(config.AppEnv.PublicDir, config.AppEnv.PublicBaseURL)

	catalogSvc := catalog.NewService(documents)
	orderSvc := orders.NewService(documents, objects)
	analyticsSvc := analytics.NewService(documents)
	carts := cart.NewManager(filepath.Join(config.AppEnv.DataDir, "carts"), orderSvc)

	r := gin.Default()
	r.Static(config.AppEnv.PublicBaseURL, config.AppEnv.PublicDir)

	r.GET("/packages", handlers.GetPackages(catalogSvc))
	r.GET("/categories", handlers.GetCategories())
	r.GET("/settings", handlers.GetSettings(catalogSvc))
	r.POST("/orders", handlers.CreateOrder(orderSvc, documents))
	r.POST("/visits", handlers.RecordVisit(analyticsSvc, dedup))

	r.GET("/cart", handlers.GetCart(carts))
	r.POST("/cart/items", handlers.AddCartItem(carts, catalogSvc))
	r.DELETE("/cart/items/:cartId", handlers.RemoveCartItem(carts))
	r.POST("/cart/checkout", handlers.CheckoutCart(carts))

	r.POST("/admin/login", handlers.AdminLogin(documents, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.PUT("/packages", handlers.ReconcilePackages(catalogSvc, documents))
		admin.PUT("/settings", handlers.UpdateSettings(catalogSvc))

		admin.GET("/orders", handlers.GetOrders(orderSvc))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(orderSvc))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(orderSvc))

		admin.GET("/stats", handlers.GetStats(analyticsSvc))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
