package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the success envelope of the admin and health surface.
type APIResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// APIError is the REST error envelope. Code mirrors the HTTP status.
type APIError struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Code: http.StatusOK, Message: "success", Data: data})
}

func Error(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, APIError{Code: status, Error: err.Error()})
}

func BadRequest(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, err)
}

func NotFound(c *gin.Context, err error) {
	Error(c, http.StatusNotFound, err)
}

func Internal(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, err)
}
