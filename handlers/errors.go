package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizzer/quizzer-api/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// respondStoreError maps a repository failure to 504 when the request
// deadline ran out and 500 otherwise.
func respondStoreError(c *gin.Context, op string, err error) {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		logger.Warnf("%s: %v", op, err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
		return
	}
	logger.Errorf("%s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
