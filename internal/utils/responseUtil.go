package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func ProcessGenericBadRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
}

// ProcessBadRequest reports a user-facing validation message.
func ProcessBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func ProcessGenericInternalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while refining the prompt"})
}

// ProcessCSRFFailure aborts a state-changing request that lacks a valid CSRF token.
func ProcessCSRFFailure(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
