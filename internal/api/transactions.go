package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // Generation in cache keys
	"time"     // Cache TTL

	"finflow/internal/domain"     // Importing domain models
	"finflow/internal/middleware" // Authenticated identity
	"finflow/internal/repository" // Transaction queries
	"finflow/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// TransactionStore is what the transaction handlers need from the repository
type TransactionStore interface {
	Create(ctx context.Context, userID string, in repository.TransactionInput) (*domain.Transaction, error)
	List(ctx context.Context, userID string, filter repository.TransactionFilter) ([]domain.Transaction, error)
	Get(ctx context.Context, id, userID string) (*domain.Transaction, error)
	Update(ctx context.Context, id, userID string, in repository.TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id, userID string) error
}

// ListCache caches listings per user. A nil Client disables it.
//
// Keys carry a per-user generation that every write bumps. A listing read
// before a write can still be stored after it, but only under the old
// generation, which no later request looks up.
type ListCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// listCachePrefix is the key prefix shared by every cached listing of a user
func listCachePrefix(userID string) string {
	return "txlist:user:" + userID + ":"
}

// listGenerationKey holds the user's listing generation. It sits outside
// listCachePrefix so prefix cleanup never resets it.
func listGenerationKey(userID string) string {
	return "txlist:gen:" + userID
}

// key returns the cache key for filter under the user's current generation
func (lc ListCache) key(ctx context.Context, userID string, filter repository.TransactionFilter) (string, error) {
	gen, err := utils.GetGeneration(ctx, lc.Client, listGenerationKey(userID))
	if err != nil {
		return "", err
	}
	return listCachePrefix(userID) + "g" + strconv.FormatInt(gen, 10) + ":" + filter.Key(), nil
}

// invalidate moves the user to a new generation and drops the old listings
func (lc ListCache) invalidate(ctx context.Context, userID string) {
	if lc.Client == nil {
		return
	}
	if _, err := utils.BumpGeneration(ctx, lc.Client, listGenerationKey(userID)); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Failed to bump transaction cache generation")
	}
	if err := utils.DeleteCacheByPrefix(ctx, lc.Client, listCachePrefix(userID)); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Failed to invalidate transaction cache")
	}
}

// transactionListResponse is the body of GET /transactions
type transactionListResponse struct {
	Count        int                  `json:"count"`        // Number of transactions
	Transactions []domain.Transaction `json:"transactions"` // Transactions, newest date first
	Cached       bool                 `json:"cached"`       // Served from cache
}

// identity returns the caller or aborts with 401 when the middleware did not run
func identity(c *gin.Context) (middleware.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return id, ok
}

// CreateTransactionHandler adds a transaction for the authenticated user
func CreateTransactionHandler(repo TransactionStore, cache ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := identity(c)
		if !ok {
			return
		}
		var req repository.TransactionInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		tx, err := repo.Create(c.Request.Context(), user.UserID, req)
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.UserID, "action": "create_transaction"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        user.UserID,
			"transaction_id": tx.ID,
			"type":           tx.Type,
		}).Info("Transaction created")
		cache.invalidate(c.Request.Context(), user.UserID)
		c.JSON(http.StatusCreated, gin.H{"message": "Transaction created", "transaction": tx})
	}
}

// parseFilter reads the optional list filters from the query string
func parseFilter(c *gin.Context) (repository.TransactionFilter, error) {
	filter := repository.TransactionFilter{CategoryID: c.Query("category_id")}
	if s := c.Query("start_date"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return filter, domain.InvalidInput("start_date must be YYYY-MM-DD")
		}
		filter.StartDate = &d
	}
	if s := c.Query("end_date"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return filter, domain.InvalidInput("end_date must be YYYY-MM-DD")
		}
		filter.EndDate = &d
	}
	return filter, nil
}

// ListTransactionsHandler returns the authenticated user's transactions, optionally filtered
func ListTransactionsHandler(repo TransactionStore, cache ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := identity(c)
		if !ok {
			return
		}
		filter, err := parseFilter(c)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		ctx := c.Request.Context()
		var cacheKey string // Read before the query, see ListCache
		if cache.Client != nil {
			if key, err := cache.key(ctx, user.UserID, filter); err == nil {
				cacheKey = key
				var cached transactionListResponse
				found, err := utils.GetCache(ctx, cache.Client, cacheKey, &cached)
				if err == nil && found {
					cached.Cached = true // Indicate response is from cache
					c.JSON(http.StatusOK, cached)
					return
				}
			}
		}
		txs, err := repo.List(ctx, user.UserID, filter)
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.UserID, "action": "list_transactions"})
			return
		}
		resp := transactionListResponse{Count: len(txs), Transactions: txs}
		if cacheKey != "" {
			// Cache the response for future requests
			_ = utils.SetCache(ctx, cache.Client, cacheKey, resp, cache.TTL)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetTransactionHandler returns one transaction owned by the authenticated user
func GetTransactionHandler(repo TransactionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := identity(c)
		if !ok {
			return
		}
		tx, err := repo.Get(c.Request.Context(), c.Param("id"), user.UserID)
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.UserID, "transaction_id": c.Param("id")})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": tx})
	}
}

// UpdateTransactionHandler edits a transaction owned by the authenticated user
func UpdateTransactionHandler(repo TransactionStore, cache ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := identity(c)
		if !ok {
			return
		}
		var req repository.TransactionInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		id := c.Param("id")
		tx, err := repo.Update(c.Request.Context(), id, user.UserID, req)
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.UserID, "transaction_id": id})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        user.UserID,
			"transaction_id": id,
		}).Info("Transaction updated")
		cache.invalidate(c.Request.Context(), user.UserID)
		c.JSON(http.StatusOK, gin.H{"message": "Transaction updated", "transaction": tx})
	}
}

// DeleteTransactionHandler removes a transaction owned by the authenticated user
func DeleteTransactionHandler(repo TransactionStore, cache ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := identity(c)
		if !ok {
			return
		}
		id := c.Param("id")
		if err := repo.Delete(c.Request.Context(), id, user.UserID); err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.UserID, "transaction_id": id})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        user.UserID,
			"transaction_id": id,
		}).Info("Transaction deleted")
		cache.invalidate(c.Request.Context(), user.UserID)
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
	}
}
