// Package api defines the JSON envelope shared by every HTTP endpoint.
package api

import "github.com/gin-gonic/gin"

// Machine-readable failure codes carried in Response.Code.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeUnauthenticated    = "unauthenticated"
	CodeTokenInvalid       = "token_invalid"
	CodeTokenExpired       = "token_expired"
	CodeUserNotFound       = "user_not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeInternal           = "internal_error"
)

// Response is the envelope: {success, message, data} on success, {success, message, code} on failure.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{Success: false, Message: message, Code: code})
}

// AbortFail writes a failure envelope and stops the handler chain.
func AbortFail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message, Code: code})
}
