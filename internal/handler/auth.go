package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/Kaytxt/xd/internal/models"
	"github.com/Kaytxt/xd/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler atende login de cliente e de admin.
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:        db,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login autentica um cliente: senha na tabela usuarios, tenant ativo na
// tabela clientes (ligados por e-mail).
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	var usuario models.Usuario
	if err := h.DB.Where("email = ?", req.Email).First(&usuario).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Usuário não encontrado")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao tentar fazer login.")
		}
		return
	}

	if !util.CheckPassword(req.Password, usuario.SenhaHash) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Senha incorreta")
		return
	}

	var cliente models.Cliente
	if err := h.DB.Where("email = ? AND ativo = ?", req.Email, true).
		First(&cliente).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Cliente não encontrado ou inativo")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao tentar fazer login.")
		}
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, usuario.ID, usuario.Email, false, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao gerar token")
		return
	}

	util.Success(c, util.Response{
		"access_token": token,
		"user": gin.H{
			"id":    usuario.ID,
			"email": usuario.Email,
		},
		"cliente": gin.H{
			"id":    cliente.ID,
			"nome":  cliente.Nome,
			"email": cliente.Email,
		},
		"isCliente": true,
	})
}

// AdminLogin autentica um administrador ativo.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	var admin models.Admin
	if err := h.DB.Where("email = ? AND ativo = ?", req.Email, true).
		First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Acesso negado. Credenciais de admin inválidas.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao tentar fazer login como administrador.")
		}
		return
	}

	if !util.CheckPassword(req.Password, admin.SenhaHash) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Senha incorreta")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, admin.ID, admin.Email, true, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao gerar token")
		return
	}

	util.Success(c, util.Response{
		"access_token": token,
		"user": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
			"nome":  admin.Nome,
		},
		"isAdmin": true,
	})
}
