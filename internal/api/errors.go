package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"finflow/internal/domain" // Error kinds

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

const msgInternalServer = "Internal Server Error"

// statusFor maps an error kind to its HTTP status code
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials, domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. Internal errors are logged
// with their cause, and the cause is echoed as "details" outside release mode.
func respondError(c *gin.Context, err error, fields logrus.Fields) {
	status := statusFor(domain.KindOf(err))
	message := msgInternalServer
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	body := gin.H{"error": message}
	if status == http.StatusInternalServerError {
		logrus.WithFields(fields).WithError(err).Error(message)
		if gin.Mode() != gin.ReleaseMode {
			body["details"] = err.Error()
		}
	}
	c.JSON(status, body)
}
