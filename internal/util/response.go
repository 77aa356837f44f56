package util

import (
	"github.com/gin-gonic/gin"
)

// Response is the payload merged into the success envelope.
type Response map[string]interface{}

// Success writes {"success": true, ...data} with the given status.
func Success(c *gin.Context, status int, data Response) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes {"success": false, "message": msg} with the given status.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": msg,
	})
}
