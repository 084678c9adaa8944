package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kindnest/kindnest-api/pkg/apperror"
)

// OK writes a 200 response wrapped in the success envelope.
func OK(c *gin.Context, payload gin.H) {
	write(c, http.StatusOK, payload)
}

// Created writes a 201 response wrapped in the success envelope.
func Created(c *gin.Context, payload gin.H) {
	write(c, http.StatusCreated, payload)
}

func write(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes the standardized error envelope. Internal errors are logged
// and their details are not echoed back to the client.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		log.Printf("[internal error]: %v", err)
		message = "an unexpected error occurred"
	}

	c.JSON(code, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}

// AbortError writes the error envelope and stops the handler chain.
// Used by middleware.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
