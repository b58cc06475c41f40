package handler

import (
	"net/http"

	"github.com/Kaytxt/xd/internal/middleware"
	"github.com/Kaytxt/xd/internal/models"
	"github.com/Kaytxt/xd/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type changePasswordReq struct {
	SenhaAtual string `json:"senha_atual" binding:"required"`
	SenhaNova  string `json:"senha_nova" binding:"required,min=8"`
}

// ChangePassword troca a senha do usuário do cliente autenticado.
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		cliente, ok := middleware.CurrentCliente(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
			return
		}

		var usuario models.Usuario
		if err := db.Where("email = ?", cliente.Email).First(&usuario).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao buscar usuário")
			return
		}

		if !util.CheckPassword(req.SenhaAtual, usuario.SenhaHash) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Senha atual incorreta")
			return
		}

		hash, err := util.HashPassword(req.SenhaNova, bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao atualizar senha")
			return
		}

		usuario.SenhaHash = hash
		if err := db.Save(&usuario).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao atualizar senha")
			return
		}

		util.Success(c, util.Response{"message": "Senha atualizada com sucesso"})
	}
}
