package api

import (
	"errors"                         // Error matching
	"net/http"                       // HTTP status codes
	"storefront/internal/cache"      // Catalog cache
	"storefront/internal/domain"     // Domain errors
	"storefront/internal/middleware" // Session middleware
	"storefront/internal/store"      // Store facade
	"strconv"                        // String conversion
	"time"                           // Token lifetime

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
	"github.com/sirupsen/logrus"  // Logging library
)

// Deps are the collaborators every handler is built from
type Deps struct {
	Store     *store.Store  // Store facade
	Cache     *cache.Cache  // Catalog cache, may be nil
	JWTSecret string        // JWT secret key
	TokenTTL  time.Duration // Session token lifetime
	Origins   []string      // CORS origins, "*" or empty allows any
}

// NewRouter wires every route onto a gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(d.Origins))
	up := newUpgrader(d.Origins) // Same origin policy as CORS

	// Auth routes
	r.POST("/user", RegisterHandler(d.Store))                          // Registration endpoint
	r.POST("/session", LoginHandler(d.Store, d.JWTSecret, d.TokenTTL)) // Login endpoint

	// Public catalog routes
	r.GET("/categories", ListCategoriesHandler(d.Store, d.Cache))
	r.GET("/products", ListProductsHandler(d.Store))
	r.GET("/products/:id", GetProductHandler(d.Store, d.Cache))
	r.GET("/products/:id/reviews", ListReviewsHandler(d.Store))
	r.GET("/live/products", LiveProductsHandler(d.Store, up))

	// Customer routes (protected by JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(d.JWTSecret))
	auth.POST("/products/:id/reviews", CreateReviewHandler(d.Store))
	auth.GET("/cart", GetCartHandler(d.Store))
	auth.POST("/cart", AddToCartHandler(d.Store))
	auth.PUT("/cart/:product_id", UpdateCartHandler(d.Store))
	auth.DELETE("/cart/:product_id", RemoveFromCartHandler(d.Store))
	auth.DELETE("/cart", ClearCartHandler(d.Store))
	auth.GET("/wishlist", ListWishlistHandler(d.Store))
	auth.POST("/wishlist", AddToWishlistHandler(d.Store))
	auth.DELETE("/wishlist/:product_id", RemoveFromWishlistHandler(d.Store))
	auth.POST("/wishlist/:product_id/move", MoveWishlistHandler(d.Store))
	auth.GET("/addresses", ListAddressesHandler(d.Store))
	auth.POST("/addresses", CreateAddressHandler(d.Store))
	auth.PUT("/addresses/:id/default", SetDefaultAddressHandler(d.Store))
	auth.DELETE("/addresses/:id", DeleteAddressHandler(d.Store))
	auth.POST("/orders", PlaceOrderHandler(d.Store))
	auth.GET("/orders", ListOrdersHandler(d.Store))
	auth.GET("/orders/stats", OrderStatsHandler(d.Store))
	auth.GET("/orders/:id", GetOrderHandler(d.Store))
	auth.POST("/orders/:id/cancel", CancelOrderHandler(d.Store))
	auth.GET("/live/cart", LiveCartHandler(d.Store, up))
	auth.GET("/live/orders", LiveOrdersHandler(d.Store, up))
	auth.GET("/live/wishlist", LiveWishlistHandler(d.Store, up))
	auth.GET("/live/addresses", LiveAddressesHandler(d.Store, up))

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(d.JWTSecret), middleware.AdminOnlyMiddleware(d.Store))
	admin.POST("/categories", CreateCategoryHandler(d.Store))
	admin.POST("/products", CreateProductHandler(d.Store))
	admin.GET("/products/export", ExportProductsHandler(d.Store))
	admin.PUT("/products/:id", UpdateProductHandler(d.Store))
	admin.DELETE("/products/:id", DeactivateProductHandler(d.Store))
	admin.GET("/orders", AdminListOrdersHandler(d.Store))
	admin.PUT("/orders/:id/status", UpdateOrderStatusHandler(d.Store))
	admin.DELETE("/orders/:id", AdminDeleteOrderHandler(d.Store))
	admin.GET("/stats", AdminStatsHandler(d.Store))
	admin.GET("/users", ListUsersHandler(d.Store))
	admin.PUT("/users/:id/status", SetUserStatusHandler(d.Store))
	admin.DELETE("/users/:id", PurgeUserHandler(d.Store))
	return r
}

// corsMiddleware allows browser clients from the configured origins
func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if allowsAnyOrigin(origins) {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	return cors.New(config)
}

// allowsAnyOrigin reports whether origins is empty or the lone wildcard
func allowsAnyOrigin(origins []string) bool {
	return len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
}

// idParam parses a positive numeric path parameter
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// currentUser returns the session user id or aborts with 401
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

// writeError maps the store's typed failures onto HTTP statuses
func writeError(c *gin.Context, err error, action string) {
	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		unique     *domain.UniquenessViolation
		reference  *domain.ReferentialIntegrityError
		transition *domain.InvalidTransitionError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": validation.Field})
	case errors.As(err, &unique), errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &reference):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": reference.Field})
	case errors.Is(err, store.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		// Log the error with context
		logrus.WithFields(logrus.Fields{
			"action": action,       // Failed operation
			"path":   c.FullPath(), // Route
			"error":  err.Error(),  // Error message
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": action + " failed"})
	}
}
