package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Kaytxt/xd/internal/middleware"
	"github.com/Kaytxt/xd/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// PlanilhaHandler gera a planilha XLSX de uma janela mensal de lançamentos.
type PlanilhaHandler struct {
	DB *gorm.DB
}

func NewPlanilhaHandler(db *gorm.DB) *PlanilhaHandler {
	return &PlanilhaHandler{DB: db}
}

// Export baixa a planilha do mês. Um grupo de linhas por conta corrente,
// na mesma ordem das consultas.
func (h *PlanilhaHandler) Export(c *gin.Context) {
	cliente, ok := middleware.CurrentCliente(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Não autenticado")
		return
	}

	mes, ano := c.Query("mes"), c.Query("ano")
	if mes == "" || ano == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Parâmetros de mês e ano são obrigatórios.")
		return
	}

	lancamentos, err := listLancamentos(h.DB, cliente.ID, mes, ano)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	f := excelize.NewFile()
	sheetName := "Lançamentos"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao criar planilha")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Conta", "Fornecedor", "Categoria", "Data Compra", "Vencimento", "Valor", "Parcela", "Documento", "Observação"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	row := 2
	for _, l := range lancamentos {
		parcela := ""
		if l.ParcelaAtual != nil && l.QuantidadeParcelas != nil {
			parcela = fmt.Sprintf("%d/%d", *l.ParcelaAtual, *l.QuantidadeParcelas)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), l.ContaCorrente)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), l.Fornecedor)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), l.Categoria)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), l.DataCompra.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), l.DataVencimento.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), l.ValorCompra.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), parcela)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), l.NumeroDocumento)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), l.Observacao)
		row++
	}

	f.SetColWidth(sheetName, "A", "C", 24)
	f.SetColWidth(sheetName, "D", "F", 14)
	f.SetColWidth(sheetName, "G", "H", 12)
	f.SetColWidth(sheetName, "I", "I", 36)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"lancamentos_%s_%s_%s.xlsx\"",
		ano, mes, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erro ao gerar planilha")
	}
}
