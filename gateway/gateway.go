// Package gateway is the HTTP API of the market: catalog browsing, carts,
// checkout and the static documents agents read to discover the API.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/example/market/pkg/cart"
	"github.com/example/market/pkg/catalog"
	"github.com/example/market/pkg/checkout"
	"github.com/example/market/pkg/config"
	"github.com/example/market/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditLogReader lists the audit entries of one order, newest first.
type AuditLogReader interface {
	GetOrderHistory(ctx context.Context, instance, orderID string, limit int64) ([]*repository.AuditLog, error)
}

// Deps are the services the gateway serves. AuditLogs may be nil.
type Deps struct {
	Catalog   *catalog.Catalog
	Carts     *cart.Store
	Checkout  *checkout.Service
	AuditLogs AuditLogReader
}

type Gateway struct {
	config    *config.Config
	logger    *zap.Logger
	router    *gin.Engine
	catalog   *catalog.Catalog
	carts     *cart.Store
	checkout  *checkout.Service
	auditLogs AuditLogReader
	plugin    []byte
	openAPI   []byte
}

func NewGateway(cfg *config.Config, logger *zap.Logger, deps Deps) *Gateway {
	logger = logger.Named("gateway")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(logger))
	router.Use(corsMiddleware())

	return &Gateway{
		config:    cfg,
		logger:    logger,
		router:    router,
		catalog:   deps.Catalog,
		carts:     deps.Carts,
		checkout:  deps.Checkout,
		auditLogs: deps.AuditLogs,
		plugin:    renderAsset(pluginManifest, cfg.Server.PublicURL),
		openAPI:   renderAsset(openAPIDocument, cfg.Server.PublicURL),
	}
}

func (g *Gateway) SetupRoutes() {
	g.router.GET("/", g.health)
	g.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.router.GET("/.well-known/ai-plugin.json", g.serveDocument(g.plugin))
	g.router.GET("/v2-openapi.json", g.serveDocument(g.openAPI))
	for path, text := range legalTexts {
		g.router.GET(path, func(c *gin.Context) {
			c.String(http.StatusOK, text)
		})
	}

	g.router.GET("/v1/products", g.listRawProducts)

	// The API is served unprefixed and under its public /v2 prefix.
	for _, prefix := range []string{"", "/v2"} {
		api := g.router.Group(prefix)
		{
			api.GET("/products", g.listProducts)
			api.GET("/products/:id", g.getProduct)
			api.GET("/categories", g.listCategories)

			api.POST("/cart", g.createCart)
			api.GET("/cart/:cartId", g.getCart)
			api.POST("/cart/:cartId/items", g.addItem)

			api.GET("/delivery_slots", g.listDeliverySlots)
			api.POST("/checkout", g.checkoutCart)
			api.GET("/orders/:id", g.getOrder)
			api.GET("/orders/:id/history", g.getOrderHistory)
		}
	}

	g.router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	g.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
	})
}

// Handler exposes the router, mainly for tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Server returns an http.Server bound to the configured address.
func (g *Gateway) Server() *http.Server {
	return &http.Server{
		Addr:              g.config.Server.Addr(),
		Handler:           g.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (g *Gateway) serveDocument(doc []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
	}
}
