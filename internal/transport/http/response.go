package httptransport

import "github.com/gin-gonic/gin"

// The API grew three envelope shapes and clients depend on each of
// them: a bare error object, a success/error/code triple, and the
// medical variant that names its code field error_code.

// RespondPlainError returns the minimal error envelope.
func RespondPlainError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"error": message})
}

// RespondCodedError returns the success/error/code envelope.
func RespondCodedError(c *gin.Context, httpStatus int, message, code string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// RespondCodedSuccess returns the full success envelope with data.
func RespondCodedSuccess(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, gin.H{
		"success": true,
		"data":    data,
		"error":   nil,
		"code":    "SUCCESS",
	})
}

// RespondDataSuccess returns the success envelope without a code.
func RespondDataSuccess(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, gin.H{
		"success": true,
		"data":    data,
	})
}

// RespondTaggedError returns the error_code envelope.
func RespondTaggedError(c *gin.Context, httpStatus int, message, code string) {
	c.JSON(httpStatus, gin.H{
		"success":    false,
		"error":      message,
		"error_code": code,
	})
}
