package middleware

import (
	"net/http"

	"github.com/Kaytxt/xd/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware grava uma linha de auditoria para toda operação de
// escrita feita por um usuário autenticado (cliente ou admin).
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}

		var actorID *uint
		isAdmin := false
		if cliente, ok := CurrentCliente(c); ok {
			actorID = &cliente.ID
		} else if v, ok := c.Get(CtxAdminID); ok {
			if id, ok := v.(uint); ok {
				actorID = &id
				isAdmin = true
			}
		}
		if actorID == nil {
			return
		}

		entry := models.AuditLog{
			ActorID:   actorID,
			IsAdmin:   isAdmin,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		_ = db.Create(&entry).Error
	}
}
