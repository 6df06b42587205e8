package utils

import (
	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Error aborts the chain. err is only echoed back for client errors.
func Error(c *gin.Context, status int, message string, err error) {
	resp := gin.H{"success": false, "message": message}
	if err != nil && status < 500 {
		resp["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}

func Paged(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(200, gin.H{
		"success": true,
		"data":    data,
		"meta": gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}
