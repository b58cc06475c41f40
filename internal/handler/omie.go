package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Kaytxt/xd/internal/middleware"
	"github.com/Kaytxt/xd/internal/models"
	"github.com/Kaytxt/xd/internal/omie"
	"github.com/Kaytxt/xd/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OmieHandler atende os dados de referência e a exportação de lotes.
type OmieHandler struct {
	DB         *gorm.DB
	Client     *omie.Client
	EncryptKey string
}

func NewOmieHandler(db *gorm.DB, client *omie.Client, encryptKey string) *OmieHandler {
	return &OmieHandler{DB: db, Client: client, EncryptKey: encryptKey}
}

// credentials monta o par app key/secret do cliente, decifrando o secret.
func (h *OmieHandler) credentials(cliente *models.Cliente) omie.Credentials {
	return omie.Credentials{
		AppKey:    cliente.OmieAppKey,
		AppSecret: util.DecryptSecret(h.EncryptKey, cliente.OmieAppSecretEnc),
	}
}

// clienteFromBody resolve o cliente alvo de uma rota admin pelo clienteId
// do corpo.
func (h *OmieHandler) clienteFromBody(c *gin.Context, clienteID uint) (*models.Cliente, bool) {
	if clienteID == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID do cliente não fornecido")
		return nil, false
	}
	var cliente models.Cliente
	if err := h.DB.First(&cliente, clienteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Cliente não encontrado")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro interno do servidor")
		}
		return nil, false
	}
	return &cliente, true
}

// fetchError mapeia uma falha de referência para a resposta HTTP. A falha
// nunca impede a consulta local de lançamentos, que não passa por aqui.
func fetchError(c *gin.Context, err error) {
	var fe *omie.FetchError
	if errors.As(err, &fe) {
		util.Error(c, http.StatusBadGateway, util.CodeOmieFetch, fe.Error())
		return
	}
	util.Error(c, http.StatusBadGateway, util.CodeOmieFetch, "Erro ao buscar dados da Omie")
}

// ---------- dados de referência ----------

func (h *OmieHandler) Fornecedores(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}
	h.fornecedores(c, cliente)
}

func (h *OmieHandler) fornecedores(c *gin.Context, cliente *models.Cliente) {
	raw, err := h.Client.ListarClientes(c.Request.Context(), h.credentials(cliente))
	if err != nil {
		fetchError(c, &omie.FetchError{Resource: "fornecedores", Err: err})
		return
	}
	util.Success(c, util.Response{"fornecedores": omie.FilterFornecedores(raw)})
}

func (h *OmieHandler) Categorias(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}
	h.categorias(c, cliente)
}

func (h *OmieHandler) categorias(c *gin.Context, cliente *models.Cliente) {
	raw, err := h.Client.ListarCategorias(c.Request.Context(), h.credentials(cliente))
	if err != nil {
		fetchError(c, &omie.FetchError{Resource: "categorias", Err: err})
		return
	}
	util.Success(c, util.Response{"categorias": omie.FilterCategorias(raw)})
}

func (h *OmieHandler) ContasCorrentes(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}
	h.contasCorrentes(c, cliente)
}

func (h *OmieHandler) contasCorrentes(c *gin.Context, cliente *models.Cliente) {
	raw, err := h.Client.ListarContasCorrentes(c.Request.Context(), h.credentials(cliente))
	if err != nil {
		fetchError(c, &omie.FetchError{Resource: "contas-correntes", Err: err})
		return
	}
	util.Success(c, util.Response{"contas_correntes": omie.FilterContasCredito(raw)})
}

type adminRefReq struct {
	ClienteID uint `json:"clienteId" binding:"required"`
}

func (h *OmieHandler) AdminFornecedores(c *gin.Context) {
	var req adminRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID do cliente não fornecido")
		return
	}
	cliente, ok := h.clienteFromBody(c, req.ClienteID)
	if !ok {
		return
	}
	h.fornecedores(c, cliente)
}

func (h *OmieHandler) AdminCategorias(c *gin.Context) {
	var req adminRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID do cliente não fornecido")
		return
	}
	cliente, ok := h.clienteFromBody(c, req.ClienteID)
	if !ok {
		return
	}
	h.categorias(c, cliente)
}

func (h *OmieHandler) AdminContasCorrentes(c *gin.Context) {
	var req adminRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID do cliente não fornecido")
		return
	}
	cliente, ok := h.clienteFromBody(c, req.ClienteID)
	if !ok {
		return
	}
	h.contasCorrentes(c, cliente)
}

// ---------- exportação de lote ----------

type exportReq struct {
	Conta     string `json:"conta" binding:"required"`
	Mes       int    `json:"mes" binding:"required,min=1,max=12"`
	Ano       int    `json:"ano" binding:"required"`
	ClienteID uint   `json:"clienteId"` // só nas rotas admin
}

// ExportBatch exporta o grupo de uma conta corrente do cliente autenticado.
func (h *OmieHandler) ExportBatch(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}
	h.exportBatch(c, cliente)
}

// AdminExportBatch exporta o grupo de uma conta de qualquer cliente.
func (h *OmieHandler) AdminExportBatch(c *gin.Context) {
	var req exportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}
	cliente, ok := h.clienteFromBody(c, req.ClienteID)
	if !ok {
		return
	}
	h.runExport(c, cliente, req)
}

func (h *OmieHandler) exportBatch(c *gin.Context, cliente *models.Cliente) {
	var req exportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}
	h.runExport(c, cliente, req)
}

func (h *OmieHandler) runExport(c *gin.Context, cliente *models.Cliente, req exportReq) {
	lancamentos, err := listLancamentos(h.DB, cliente.ID,
		strconv.Itoa(req.Mes), strconv.Itoa(req.Ano))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	grupo := groupByConta(lancamentos)[req.Conta]
	if len(grupo) == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeBatchAbort, "Nenhum lançamento válido para enviar")
		return
	}

	creds := h.credentials(cliente)
	refs, err := h.Client.LoadReferenceData(c.Request.Context(), creds)
	if err != nil {
		fetchError(c, err)
		return
	}

	result, err := h.Client.ExportBatch(c.Request.Context(), req.Conta, grupo, refs, creds)
	if err != nil {
		var notFound *omie.ContaNotFoundError
		switch {
		case errors.As(err, &notFound):
			util.Error(c, http.StatusNotFound, util.CodeBatchAbort, notFound.Error())
		case errors.Is(err, omie.ErrNadaAEnviar):
			util.Error(c, http.StatusBadRequest, util.CodeBatchAbort, err.Error())
		default:
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao processar lançamentos")
		}
		return
	}

	if result.Status == omie.StatusParcial {
		// 207: parte do lote entrou, parte falhou. Nunca confundir com
		// um aborto, que não envia nada.
		c.JSON(http.StatusMultiStatus, gin.H{
			"code": util.CodePartial,
			"message": fmt.Sprintf("%d lançamentos enviados com sucesso, %d com erro",
				len(result.Succeeded), len(result.Failed)),
			"data": result,
		})
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("%d lançamentos enviados com sucesso", len(result.Succeeded)),
		"data":    result,
	})
}
