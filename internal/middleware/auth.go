package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Kaytxt/xd/internal/models"
	"github.com/Kaytxt/xd/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// chaves no contexto gin
const (
	CtxCliente = "currentCliente"
	CtxAdminID = "currentAdminID"
)

func extractToken(c *gin.Context) string {
	// Header: Authorization: Bearer xxx
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	// query ?token=xxx (downloads de planilha não conseguem mandar header)
	return c.Query("token")
}

// AuthMiddleware valida o JWT de cliente e coloca o Cliente ativo no
// contexto. Tokens de admin são recusados aqui: rotas de admin têm
// middleware próprio.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Token não fornecido")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Token inválido")
			c.Abort()
			return
		}

		if claims.IsAdmin {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Acesso negado. Use rota de admin.")
			c.Abort()
			return
		}

		var cliente models.Cliente
		if err := db.Where("email = ? AND ativo = ?", claims.Email, true).
			First(&cliente).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Cliente não encontrado")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao buscar cliente")
			}
			c.Abort()
			return
		}

		c.Set(CtxCliente, &cliente)
		c.Next()
	}
}

// AdminAuthMiddleware valida o JWT de admin.
func AdminAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Token não fornecido")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Token inválido")
			c.Abort()
			return
		}

		if !claims.IsAdmin {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Acesso negado. Apenas administradores.")
			c.Abort()
			return
		}

		c.Set(CtxAdminID, claims.UserID)
		c.Next()
	}
}

// CurrentCliente devolve o cliente autenticado colocado pelo AuthMiddleware.
func CurrentCliente(c *gin.Context) (*models.Cliente, bool) {
	v, ok := c.Get(CtxCliente)
	if !ok {
		return nil, false
	}
	cliente, ok := v.(*models.Cliente)
	if !ok || cliente == nil {
		return nil, false
	}
	return cliente, true
}
