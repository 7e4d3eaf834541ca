package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends the standard success envelope
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends the standard error envelope
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}

// JSONErrorWithData sends the error envelope along with a payload the client can still render,
// such as the last known highest bid after a failed refresh
func JSONErrorWithData(c *gin.Context, status int, err error, message string, data any) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
		"data":    data,
	})
}
