// en pkg/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"` // código estable, ej. "EMPTY_CART"
	Message string `json:"message"`
}

// SendSuccess envía una respuesta exitosa con un payload de datos.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"data": data,
	})
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": ErrorResponse{
			Message: message,
		},
	})
}

// SendBusinessError mapea un error de negocio (con código estable) a un 4xx.
// Si el error no es un BusinessError cae a un 500 genérico.
func SendBusinessError(c *gin.Context, err error) {
	var bizErr *sharedDomain.BusinessError
	if errors.As(err, &bizErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": ErrorResponse{
				Code:    bizErr.Code,
				Message: bizErr.Message,
			},
		})
		return
	}
	SendInternalServerError(c, err.Error())
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}
