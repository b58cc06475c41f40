package handler

import (
	"net/http"
	"strings"

	"github.com/Kaytxt/xd/internal/middleware"
	"github.com/Kaytxt/xd/internal/models"
	"github.com/Kaytxt/xd/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ClienteHandler atende consultas de tenant e a criação de contas
// (antiga rota de setup, agora restrita a admins).
type ClienteHandler struct {
	DB         *gorm.DB
	EncryptKey string
	BcryptCost int
}

func NewClienteHandler(db *gorm.DB, encryptKey string, bcryptCost int) *ClienteHandler {
	return &ClienteHandler{DB: db, EncryptKey: encryptKey, BcryptCost: bcryptCost}
}

// Info devolve o cliente autenticado.
func (h *ClienteHandler) Info(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}
	util.Success(c, util.Response{
		"cliente": gin.H{
			"id":    cliente.ID,
			"nome":  cliente.Nome,
			"email": cliente.Email,
		},
	})
}

// ListClients lista os clientes ativos (admin).
func (h *ClienteHandler) ListClients(c *gin.Context) {
	var clientes []models.Cliente
	if err := h.DB.Where("ativo = ?", true).Order("nome").Find(&clientes).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro interno do servidor")
		return
	}

	out := make([]gin.H, 0, len(clientes))
	for _, cl := range clientes {
		out = append(out, gin.H{"id": cl.ID, "nome": cl.Nome, "email": cl.Email})
	}
	util.Success(c, util.Response{"clients": out})
}

type createAccountReq struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	Nome          string `json:"nome" binding:"required"`
	IsAdmin       bool   `json:"isAdmin"`
	OmieAppKey    string `json:"omie_app_key"`
	OmieAppSecret string `json:"omie_app_secret"`
}

// CreateAccount cria um admin, ou um par usuário+cliente com as credenciais
// Omie do tenant. O app secret é encriptado antes de persistir.
func (h *ClienteHandler) CreateAccount(c *gin.Context) {
	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao criar usuário")
		return
	}

	if req.IsAdmin {
		admin := models.Admin{
			Nome:      req.Nome,
			Email:     req.Email,
			SenhaHash: hash,
			Ativo:     true,
		}
		if err := h.DB.Create(&admin).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao criar admin")
			return
		}
		util.Success(c, util.Response{
			"message": "Admin criado com sucesso",
			"admin":   gin.H{"id": admin.ID, "email": admin.Email, "nome": admin.Nome},
		})
		return
	}

	secretEnc, err := util.EncryptSecret(h.EncryptKey, req.OmieAppSecret)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao criar cliente")
		return
	}

	// usuário e cliente nascem juntos, ligados pelo e-mail
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		usuario := models.Usuario{Email: req.Email, SenhaHash: hash}
		if err := tx.Create(&usuario).Error; err != nil {
			return err
		}
		cliente := models.Cliente{
			Nome:             req.Nome,
			Email:            req.Email,
			Ativo:            true,
			OmieAppKey:       req.OmieAppKey,
			OmieAppSecretEnc: secretEnc,
		}
		return tx.Create(&cliente).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao criar usuário")
		return
	}

	util.Success(c, util.Response{"message": "Usuário e cliente criados com sucesso"})
}
