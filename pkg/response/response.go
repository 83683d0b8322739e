package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/citydesk/announce-api/pkg/errors"
)

// errorBody wraps a failure for the wire; success payloads are sent as-is.
type errorBody struct {
	Error *appErrors.Error `json:"error"`
}

// JSON sends a success response with the payload as the response body.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, errorBody{Error: appErr})
}
