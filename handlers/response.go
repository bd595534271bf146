package handlers

import (
	"net/http"

	"github.com/hey-kuldeep/expense-xtrac/apperr"
	"github.com/hey-kuldeep/expense-xtrac/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInternalServer = "Internal Server Error"

// Envelope is the body of every API response. List and update results go in
// Value, everything else in Data.
type Envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Value   any    `json:"value,omitempty"`
}

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Error: false, Message: message, Data: data})
}

func respondValue(c *gin.Context, status int, message string, value any) {
	c.JSON(status, Envelope{Error: false, Message: message, Value: value})
}

func respondMessage(c *gin.Context, status int, isError bool, message string) {
	c.JSON(status, Envelope{Error: isError, Message: message})
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	logger.Get().Warn("error binding request",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	respondMessage(c, http.StatusBadRequest, true, err.Error())
}

// respondError maps an error kind onto a status code. Internal errors are
// logged in full and reported to the client without detail.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)

	fields := []zap.Field{
		zap.String("kind", kind.String()),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Get().Error("request failed", fields...)
	} else {
		logger.Get().Info("request rejected", fields...)
	}

	respondMessage(c, status, true, apperr.MessageOf(err, msgInternalServer))
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Invalid:
		return http.StatusBadRequest
	case apperr.DuplicateUser:
		return http.StatusForbidden
	case apperr.UserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
