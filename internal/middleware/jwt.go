package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"finflow/internal/domain" // Error kinds
	"finflow/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Context keys for the authenticated identity
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

const bearerPrefix = "Bearer "

// Identity is the verified caller of a request
type Identity struct {
	UserID string
	Email  string
}

// TokenParser verifies identity tokens
type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

// Authenticate turns an Authorization header value into an Identity.
// It has no side effects and never touches the store.
func Authenticate(header string, tokens TokenParser) (Identity, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return Identity{}, domain.Unauthenticated("No token provided", nil)
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)) // Extract the token string
	if tokenStr == "" {
		return Identity{}, domain.Unauthenticated("No token provided", nil)
	}
	claims, err := tokens.Parse(tokenStr) // Parse the JWT token
	if err != nil {
		return Identity{}, domain.Unauthenticated("Invalid or expired token", err)
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// JWTAuthMiddleware validates JWT tokens and extracts user information
func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := Authenticate(c.GetHeader("Authorization"), tokens)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(),
				"error": err.Error(), // Underlying reason, never the token itself
			}).Debug("Rejected unauthenticated request")
			// Generic message to the client
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": appMessage(err)})
			return
		}
		c.Set(ContextUserID, identity.UserID) // Store userID in context
		c.Set(ContextEmail, identity.Email)   // Store email in context
		c.Next()                              // Proceed to the next handler
	}
}

// CurrentIdentity returns the identity stored by JWTAuthMiddleware
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		return Identity{}, false
	}
	return Identity{UserID: userID, Email: c.GetString(ContextEmail)}, true
}

func appMessage(err error) string {
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Unauthorized"
}
