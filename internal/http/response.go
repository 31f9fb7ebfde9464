package http

import "github.com/gin-gonic/gin"

// Every response carries a success flag; failures carry a message and,
// when useful, structured data to continue the flow.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: true, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

func respondErrorData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: false, Message: message, Data: data})
}
