package api

import (
	"net/http" // HTTP status codes

	"finflow/internal/db" // Database helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// HealthHandler reports that the process is serving
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Server is running!"})
	}
}

// DBTestHandler performs a round trip to the database
func DBTestHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now, err := db.Now(c.Request.Context(), gdb)
		if err != nil {
			logrus.WithError(err).Error("Database connection check failed")
			body := gin.H{"error": "Database connection failed"}
			if gin.Mode() != gin.ReleaseMode {
				body["details"] = err.Error()
			}
			c.JSON(http.StatusInternalServerError, body)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Database connected!", "timestamp": now})
	}
}
