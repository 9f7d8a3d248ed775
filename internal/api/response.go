package api

import "github.com/gin-gonic/gin"

// Response is the uniform envelope every endpoint returns.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// New builds a Response.
func New(statusCode int, message string, data any) Response {
	return Response{StatusCode: statusCode, Message: message, Data: data}
}

// Write sends the envelope with a matching HTTP status.
func Write(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, New(statusCode, message, data))
}

// Abort sends the envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, New(statusCode, message, nil))
}
