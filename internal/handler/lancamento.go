package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Kaytxt/xd/internal/middleware"
	"github.com/Kaytxt/xd/internal/models"
	"github.com/Kaytxt/xd/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LancamentoHandler atende o CRUD de lançamentos, para clientes e admins.
type LancamentoHandler struct {
	DB *gorm.DB
}

func NewLancamentoHandler(db *gorm.DB) *LancamentoHandler {
	return &LancamentoHandler{DB: db}
}

// ---------- requisição/resposta ----------

type lancamentoReq struct {
	Fornecedor         string           `json:"fornecedor" binding:"required"`
	ContaDesmembrada   string           `json:"contaDesmembrada" binding:"omitempty,oneof=sim nao"`
	Categoria          string           `json:"categoria" binding:"required"`
	ContaCorrente      string           `json:"contaCorrente" binding:"required"`
	DataCompra         string           `json:"dataCompra" binding:"required"` // YYYY-MM-DD
	ValorCompra        decimal.Decimal  `json:"valorCompra"`
	QuantidadeParcelas *int             `json:"quantidadeParcelas"`
	ValorParcela       *decimal.Decimal `json:"valorParcela"`
	ParcelaAtual       *int             `json:"parcelaAtual"`
	DataVencimento     string           `json:"dataVencimento"` // vazio -> dataCompra
	TipoDocumento      string           `json:"tipoDocumento"`
	NumeroDocumento    string           `json:"numeroDocumento"`
	Observacao         string           `json:"observacao"`
}

type lancamentoResp struct {
	ID                 uint             `json:"id"`
	Fornecedor         string           `json:"fornecedor"`
	ContaDesmembrada   string           `json:"contaDesmembrada"`
	Categoria          string           `json:"categoria"`
	ContaCorrente      string           `json:"contaCorrente"`
	DataCompra         string           `json:"dataCompra"`
	ValorCompra        decimal.Decimal  `json:"valorCompra"`
	QuantidadeParcelas *int             `json:"quantidadeParcelas"`
	ValorParcela       *decimal.Decimal `json:"valorParcela"`
	ParcelaAtual       *int             `json:"parcelaAtual"`
	DataVencimento     string           `json:"dataVencimento"`
	TipoDocumento      string           `json:"tipoDocumento"`
	NumeroDocumento    string           `json:"numeroDocumento"`
	Observacao         string           `json:"observacao"`
}

func toLancamentoResp(l *models.Lancamento) lancamentoResp {
	return lancamentoResp{
		ID:                 l.ID,
		Fornecedor:         l.Fornecedor,
		ContaDesmembrada:   l.ContaDesmembrada,
		Categoria:          l.Categoria,
		ContaCorrente:      l.ContaCorrente,
		DataCompra:         l.DataCompra.Format("2006-01-02"),
		ValorCompra:        l.ValorCompra,
		QuantidadeParcelas: l.QuantidadeParcelas,
		ValorParcela:       l.ValorParcela,
		ParcelaAtual:       l.ParcelaAtual,
		DataVencimento:     l.DataVencimento.Format("2006-01-02"),
		TipoDocumento:      l.TipoDocumento,
		NumeroDocumento:    l.NumeroDocumento,
		Observacao:         l.Observacao,
	}
}

// valida e converte a requisição num Lancamento (sem ID nem ClienteID).
func (r *lancamentoReq) toModel() (models.Lancamento, error) {
	if err := util.ValidateValor(r.ValorCompra); err != nil {
		return models.Lancamento{}, fmt.Errorf("valorCompra: %w", err)
	}
	dataCompra, err := util.ParseDate(r.DataCompra)
	if err != nil {
		return models.Lancamento{}, fmt.Errorf("dataCompra: %w", err)
	}

	// sem vencimento informado, vence na data da compra
	dataVencimento := dataCompra
	if r.DataVencimento != "" {
		dataVencimento, err = util.ParseDate(r.DataVencimento)
		if err != nil {
			return models.Lancamento{}, fmt.Errorf("dataVencimento: %w", err)
		}
	}

	contaDesmembrada := r.ContaDesmembrada
	if contaDesmembrada == "" {
		contaDesmembrada = "nao"
	}

	return models.Lancamento{
		Fornecedor:         r.Fornecedor,
		ContaDesmembrada:   contaDesmembrada,
		Categoria:          r.Categoria,
		ContaCorrente:      r.ContaCorrente,
		DataCompra:         dataCompra,
		ValorCompra:        r.ValorCompra,
		QuantidadeParcelas: r.QuantidadeParcelas,
		ValorParcela:       r.ValorParcela,
		ParcelaAtual:       r.ParcelaAtual,
		DataVencimento:     dataVencimento,
		TipoDocumento:      r.TipoDocumento,
		NumeroDocumento:    r.NumeroDocumento,
		Observacao:         r.Observacao,
	}, nil
}

// ---------- janela de mês e agrupamento (compartilhados) ----------

// monthWindow devolve [primeiro dia, primeiro dia do mês seguinte) para a
// janela mes/ano. O mesmo cálculo serve cliente, admin e exportação.
func monthWindow(mesStr, anoStr string) (time.Time, time.Time, error) {
	mes, err := strconv.Atoi(mesStr)
	if err != nil || mes < 1 || mes > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("mês inválido %q", mesStr)
	}
	ano, err := strconv.Atoi(anoStr)
	if err != nil || ano < 2000 || ano > 2200 {
		return time.Time{}, time.Time{}, fmt.Errorf("ano inválido %q", anoStr)
	}
	start := time.Date(ano, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

// listLancamentos busca a janela mensal de um cliente, ordenada por data de
// compra. Todas as consultas passam por aqui, sempre escopadas por tenant.
func listLancamentos(db *gorm.DB, clienteID uint, mesStr, anoStr string) ([]models.Lancamento, error) {
	start, end, err := monthWindow(mesStr, anoStr)
	if err != nil {
		return nil, err
	}
	var lancamentos []models.Lancamento
	if err := db.Where("cliente_id = ? AND data_compra >= ? AND data_compra < ?",
		clienteID, start, end).
		Order("data_compra ASC, id ASC").
		Find(&lancamentos).Error; err != nil {
		return nil, err
	}
	return lancamentos, nil
}

// groupByConta agrupa os lançamentos pelo rótulo de conta corrente.
func groupByConta(lancamentos []models.Lancamento) map[string][]models.Lancamento {
	grouped := make(map[string][]models.Lancamento)
	for _, l := range lancamentos {
		grouped[l.ContaCorrente] = append(grouped[l.ContaCorrente], l)
	}
	return grouped
}

// ---------- rotas de cliente ----------

// Create grava um lançamento para o cliente autenticado.
func (h *LancamentoHandler) Create(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}

	var req lancamentoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}

	lancamento, err := req.toModel()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	lancamento.ClienteID = cliente.ID

	if err := h.DB.Create(&lancamento).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao salvar o lançamento.")
		return
	}

	util.Success(c, util.Response{
		"message": "Lançamento salvo com sucesso!",
		"data":    toLancamentoResp(&lancamento),
	})
}

// List devolve a janela mensal do cliente, com o agrupamento por conta.
func (h *LancamentoHandler) List(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}
	h.list(c, cliente.ID)
}

// AdminList devolve a janela mensal de qualquer cliente.
func (h *LancamentoHandler) AdminList(c *gin.Context) {
	clienteID, err := strconv.Atoi(c.Query("clienteId"))
	if err != nil || clienteID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros de mês, ano e clienteId são obrigatórios.")
		return
	}
	var cliente models.Cliente
	if err := h.DB.First(&cliente, clienteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Cliente não encontrado")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro interno do servidor.")
		}
		return
	}
	h.list(c, cliente.ID)
}

func (h *LancamentoHandler) list(c *gin.Context, clienteID uint) {
	mes, ano := c.Query("mes"), c.Query("ano")
	if mes == "" || ano == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros de mês e ano são obrigatórios.")
		return
	}

	lancamentos, err := listLancamentos(h.DB, clienteID, mes, ano)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	items := make([]lancamentoResp, 0, len(lancamentos))
	for i := range lancamentos {
		items = append(items, toLancamentoResp(&lancamentos[i]))
	}

	porConta := make(map[string][]lancamentoResp)
	for conta, group := range groupByConta(lancamentos) {
		for i := range group {
			porConta[conta] = append(porConta[conta], toLancamentoResp(&group[i]))
		}
	}

	util.Success(c, util.Response{
		"items":     items,
		"por_conta": porConta,
		"total":     len(items),
	})
}

// Update substitui todos os campos de um lançamento do próprio cliente.
// Lançamento de outro cliente é recusado e permanece intacto.
func (h *LancamentoHandler) Update(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}
	h.update(c, &cliente.ID)
}

// AdminUpdate substitui os campos de um lançamento de qualquer cliente.
func (h *LancamentoHandler) AdminUpdate(c *gin.Context) {
	h.update(c, nil)
}

func (h *LancamentoHandler) update(c *gin.Context, ownerID *uint) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID inválido")
		return
	}

	var req lancamentoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros inválidos")
		return
	}

	var existente models.Lancamento
	if err := h.DB.First(&existente, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Lançamento não encontrado.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro interno do servidor.")
		}
		return
	}
	if ownerID != nil && existente.ClienteID != *ownerID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Acesso negado a este lançamento.")
		return
	}

	novo, err := req.toModel()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	// ClienteID nunca muda num update
	novo.ID = existente.ID
	novo.ClienteID = existente.ClienteID
	novo.CreatedAt = existente.CreatedAt

	if err := h.DB.Save(&novo).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro interno do servidor.")
		return
	}

	util.Success(c, util.Response{
		"message": "Lançamento atualizado com sucesso!",
		"data":    toLancamentoResp(&novo),
	})
}

// Delete exclui um lançamento do próprio cliente.
func (h *LancamentoHandler) Delete(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID inválido")
		return
	}

	res := h.DB.Where("id = ? AND cliente_id = ?", id, cliente.ID).
		Delete(&models.Lancamento{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro interno do servidor.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Lançamento não encontrado.")
		return
	}

	util.Success(c, util.Response{"message": "Lançamento excluído com sucesso!"})
}

// AdminDelete exclui um lançamento de qualquer cliente.
func (h *LancamentoHandler) AdminDelete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID inválido")
		return
	}

	res := h.DB.Delete(&models.Lancamento{}, id)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro interno do servidor.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Lançamento não encontrado.")
		return
	}

	util.Success(c, util.Response{"message": "Lançamento excluído com sucesso!"})
}

type bulkDeleteReq struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// BulkDelete exclui vários lançamentos do próprio cliente. Se qualquer um
// dos ids pertencer a outro cliente, nada é excluído.
func (h *LancamentoHandler) BulkDelete(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}

	var req bulkDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "IDs não fornecidos.")
		return
	}

	var count int64
	if err := h.DB.Model(&models.Lancamento{}).
		Where("id IN ? AND cliente_id = ?", req.IDs, cliente.ID).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro interno do servidor.")
		return
	}
	if count != int64(len(req.IDs)) {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Acesso negado a um ou mais lançamentos.")
		return
	}

	res := h.DB.Where("id IN ? AND cliente_id = ?", req.IDs, cliente.ID).
		Delete(&models.Lancamento{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro interno do servidor.")
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("%d lançamento(s) excluído(s) com sucesso!", res.RowsAffected),
	})
}
