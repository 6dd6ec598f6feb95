package api

import (
	"time" // CORS preflight cache

	"finflow/internal/middleware" // Custom middleware
	"finflow/internal/service"    // Signup and login flow

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
	"gorm.io/gorm"                // GORM ORM library
)

// RouterConfig carries everything the HTTP surface is built from
type RouterConfig struct {
	BasePath     string                 // Prefix for every route, may be empty
	CORSOrigins  []string               // Allowed origins, "*" allows any
	DB           *gorm.DB               // Used by the database check endpoint
	Auth         *service.AuthService   // Signup and login
	Tokens       middleware.TokenParser // Verifies bearer tokens
	Transactions TransactionStore       // Ownership-scoped transaction queries
	Cache        ListCache              // Optional listing cache
}

// NewRouter builds the gin engine with all routes and middleware
func NewRouter(rc RouterConfig) *gin.Engine {
	r := gin.New() // Gin router instance
	r.Use(middleware.Recovery(), middleware.RequestLogger(), corsMiddleware(rc.CORSOrigins))

	base := r.Group(rc.BasePath)

	// Health routes
	base.GET("/health", HealthHandler())       // Liveness endpoint
	base.GET("/db-test", DBTestHandler(rc.DB)) // Database round trip

	// Auth routes
	authGroup := base.Group("/auth")
	authGroup.POST("/signup", SignupHandler(rc.Auth)) // Registration endpoint
	authGroup.POST("/login", LoginHandler(rc.Auth))   // Login endpoint

	// Transaction routes (protected by JWT)
	txGroup := base.Group("/transactions")
	txGroup.Use(middleware.JWTAuthMiddleware(rc.Tokens))
	txGroup.POST("", CreateTransactionHandler(rc.Transactions, rc.Cache))       // Create transaction
	txGroup.GET("", ListTransactionsHandler(rc.Transactions, rc.Cache))         // List transactions
	txGroup.GET("/:id", GetTransactionHandler(rc.Transactions))                 // Get one transaction
	txGroup.PUT("/:id", UpdateTransactionHandler(rc.Transactions, rc.Cache))    // Update transaction
	txGroup.DELETE("/:id", DeleteTransactionHandler(rc.Transactions, rc.Cache)) // Delete transaction

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
