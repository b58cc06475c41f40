package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response é o mapa de dados do envelope de sucesso.
type Response map[string]interface{}

// Códigos de erro da aplicação.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeServerErr    = 50001
	CodeOmieFetch    = 50201 // falha ao buscar dados de referência na Omie
	CodeBatchAbort   = 50202 // lote abortado antes de qualquer envio
	CodePartial      = 20701 // lote enviado com falhas parciais
)

// Success writes the uniform success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the uniform error envelope.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}
