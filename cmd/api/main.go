package main

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/tienda-api/docs"
	"github.com/MikeMC777/tienda-api/internal/config"
	"github.com/MikeMC777/tienda-api/internal/httpx"
	"github.com/MikeMC777/tienda-api/internal/order"
	"github.com/MikeMC777/tienda-api/internal/product"
)

// @title Tienda API
// @version 1.0
// @description Product catalog and order placement backend.
// @BasePath /
func main() {
	cfg := config.Load()

	policy, err := order.ParsePolicy(cfg.StockPolicy)
	if err != nil {
		log.Fatalf("[config] %v", err)
	}
	retries, err := strconv.Atoi(cfg.PlacementRetries)
	if err != nil {
		log.Fatalf("[config] PLACEMENT_RETRIES=%q is not a number", cfg.PlacementRetries)
	}

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	products := product.NewPGRepo(pool)
	orders := order.NewPGStore(pool)
	placement := order.NewService(orders, products, order.Options{Policy: policy, MaxRetries: retries})

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerProductRoutes(r, products)
	registerOrderRoutes(r, placement)

	log.Printf("tienda-api listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}

func registerProductRoutes(r *gin.Engine, repo product.Repository) {
	r.POST("/product", createProductHandler(repo))
	r.GET("/products", listProductsHandler(repo))
	r.GET("/products/:id", getProductHandler(repo))
	r.PUT("/products/:id", updateProductHandler(repo))
	r.DELETE("/products/:id", deleteProductHandler(repo))
}

func registerOrderRoutes(r *gin.Engine, svc *order.Service) {
	r.POST("/order", createOrderHandler(svc))
	r.GET("/orders/:id", getOrderHandler(svc))
}
