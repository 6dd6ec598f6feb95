package api

import (
	"net/http" // HTTP status codes

	"finflow/internal/domain"  // Importing domain models
	"finflow/internal/service" // Signup and login flow

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Request struct for signup
type SignupRequest struct {
	Email     string `json:"email"`      // Required
	Password  string `json:"password"`   // Required
	FirstName string `json:"first_name"` // Optional
	LastName  string `json:"last_name"`  // Optional
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email"`    // Required
	Password string `json:"password"` // Required
}

// Response struct for authentication
type AuthResponse struct {
	Message string       `json:"message"` // Human readable outcome
	User    *domain.User `json:"user"`    // Authenticated user, without password hash
	Token   string       `json:"token"`   // JWT token
}

// SignupHandler registers a user and returns it with a token
func SignupHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		result, err := auth.Signup(c.Request.Context(), service.SignupInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			respondError(c, err, logrus.Fields{"action": "signup"})
			return
		}
		c.JSON(http.StatusCreated, AuthResponse{
			Message: "User created successfully",
			User:    result.User,
			Token:   result.Token,
		})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		result, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err, logrus.Fields{"action": "login"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{
			Message: "Login successful",
			User:    result.User,
			Token:   result.Token,
		})
	}
}
