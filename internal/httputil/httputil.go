// Package httputil содержит общие ответы HTTP-сервера статуса.
package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse — тело ответа об ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondError отвечает JSON-ошибкой и прерывает цепочку обработчиков,
// поэтому middleware может вызывать его без return после.
func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// RespondOK отвечает 200 с JSON-телом.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
