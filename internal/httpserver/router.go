package httpserver

import (
	"log"
	"time"

	"shoestore/internal/cart"
	"shoestore/internal/phone"
	"shoestore/internal/service/catalog"
	"shoestore/internal/service/order"
	"shoestore/internal/service/session"
	"shoestore/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the collaborators the handlers need.
type Deps struct {
	Sessions *session.Service
	Catalog  *catalog.Service
	Orders   *order.Service
	Verifier phone.Verifier
	Carts    *cart.Registry
	Images   *storage.Local
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{
		logger: logger,
		deps:   deps,
		flows:  newFlowRegistry(),
	}

	if deps.Images != nil {
		router.Static("/images", deps.Images.Dir())
	}

	api := router.Group("/api")
	api.Use(sessionMiddleware(deps.Sessions))

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.POST("/session", h.signIn)

	authed := api.Group("")
	authed.Use(requireSession())
	{
		authed.GET("/session", h.getSession)
		authed.DELETE("/session", h.signOut)
		authed.GET("/orders", h.listOrders)

		authed.GET("/cart", h.getCart)
		authed.POST("/cart/items", h.addCartItem)
		authed.PATCH("/cart/items/:index", h.updateCartItem)
		authed.DELETE("/cart/items/:index", h.removeCartItem)

		authed.POST("/checkout", h.startCheckout)
		authed.GET("/checkout", h.getCheckout)
		authed.DELETE("/checkout", h.cancelCheckout)
		authed.POST("/checkout/shipping", h.submitShipping)
		authed.POST("/checkout/phone/send", h.sendPhoneCode)
		authed.POST("/checkout/phone/verify", h.verifyPhoneCode)
		authed.POST("/checkout/phone/back", h.phoneBack)
		authed.POST("/checkout/confirm", h.confirmOrder)
		authed.POST("/checkout/complete", h.completeCheckout)
	}

	admin := api.Group("/admin")
	admin.Use(requireSession(), requireAdmin())
	{
		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.DELETE("/products/:id", h.deleteProduct)
		admin.PATCH("/orders/:id/status", h.updateOrderStatus)
		admin.POST("/images", h.uploadImage)
	}

	return router, nil
}
