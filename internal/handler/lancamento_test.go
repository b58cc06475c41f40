package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kaytxt/xd/internal/database"
	"github.com/Kaytxt/xd/internal/middleware"
	"github.com/Kaytxt/xd/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedCliente(t *testing.T, db *gorm.DB, nome string) *models.Cliente {
	t.Helper()
	cliente := &models.Cliente{Nome: nome, Email: nome + "@example.com", Ativo: true}
	require.NoError(t, db.Create(cliente).Error)
	return cliente
}

func seedLancamento(t *testing.T, db *gorm.DB, clienteID uint, conta, dataCompra string) *models.Lancamento {
	t.Helper()
	dia, err := time.Parse("2006-01-02", dataCompra)
	require.NoError(t, err)
	l := &models.Lancamento{
		ClienteID:        clienteID,
		Fornecedor:       "ACME",
		ContaDesmembrada: "nao",
		Categoria:        "Rent",
		ContaCorrente:    conta,
		DataCompra:       dia,
		DataVencimento:   dia,
		ValorCompra:      decimal.NewFromInt(100),
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

// asCliente injeta o cliente no contexto como faria o AuthMiddleware.
func asCliente(cliente *models.Cliente) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxCliente, cliente)
		c.Next()
	}
}

func lancamentoRouter(db *gorm.DB, cliente *models.Cliente) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLancamentoHandler(db)

	r := gin.New()
	api := r.Group("/api", asCliente(cliente))
	api.POST("/lancamentos", h.Create)
	api.GET("/lancamentos", h.List)
	api.PUT("/lancamentos/:id", h.Update)
	api.DELETE("/lancamentos/:id", h.Delete)
	api.DELETE("/lancamentos", h.BulkDelete)

	admin := r.Group("/api/admin")
	admin.GET("/lancamentos", h.AdminList)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCreate_VencimentoHerdaDataCompra(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	r := lancamentoRouter(db, cliente)

	w := doJSON(t, r, http.MethodPost, "/api/lancamentos", gin.H{
		"fornecedor":    "ACME",
		"categoria":     "Rent",
		"contaCorrente": "Cartão de CRÉDITO",
		"dataCompra":    "2025-03-07",
		"valorCompra":   "150.75",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Data lancamentoResp `json:"data"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, "2025-03-07", data.Data.DataVencimento)
	assert.Equal(t, "nao", data.Data.ContaDesmembrada)

	var salvo models.Lancamento
	require.NoError(t, db.First(&salvo, data.Data.ID).Error)
	assert.Equal(t, cliente.ID, salvo.ClienteID)
	assert.Equal(t, salvo.DataCompra, salvo.DataVencimento)
}

func TestCreate_VencimentoExplicitoPreservado(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	r := lancamentoRouter(db, cliente)

	w := doJSON(t, r, http.MethodPost, "/api/lancamentos", gin.H{
		"fornecedor":     "ACME",
		"categoria":      "Rent",
		"contaCorrente":  "Cartão de CRÉDITO",
		"dataCompra":     "2025-03-07",
		"dataVencimento": "2025-04-10",
		"valorCompra":    "150.75",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Data lancamentoResp `json:"data"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, "2025-04-10", data.Data.DataVencimento)
}

func TestCreate_ValorInvalido(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	r := lancamentoRouter(db, cliente)

	for _, valor := range []string{"0", "-10", "10000000"} {
		w := doJSON(t, r, http.MethodPost, "/api/lancamentos", gin.H{
			"fornecedor":    "ACME",
			"categoria":     "Rent",
			"contaCorrente": "Cartão de CRÉDITO",
			"dataCompra":    "2025-03-07",
			"valorCompra":   valor,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "valor %s", valor)
	}
}

func TestList_JanelaMensal(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	outro := seedCliente(t, db, "beta")

	// dentro da janela de março/2025, incluindo as bordas
	seedLancamento(t, db, cliente.ID, "Conta A", "2025-03-01")
	seedLancamento(t, db, cliente.ID, "Conta B", "2025-03-31")
	// fora da janela
	seedLancamento(t, db, cliente.ID, "Conta A", "2025-02-28")
	seedLancamento(t, db, cliente.ID, "Conta A", "2025-04-01")
	// de outro cliente
	seedLancamento(t, db, outro.ID, "Conta A", "2025-03-15")

	r := lancamentoRouter(db, cliente)
	w := doJSON(t, r, http.MethodGet, "/api/lancamentos?mes=3&ano=2025", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Items    []lancamentoResp            `json:"items"`
		PorConta map[string][]lancamentoResp `json:"por_conta"`
		Total    int                         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))

	require.Equal(t, 2, data.Total)
	assert.Equal(t, "2025-03-01", data.Items[0].DataCompra)
	assert.Equal(t, "2025-03-31", data.Items[1].DataCompra)
	assert.Len(t, data.PorConta["Conta A"], 1)
	assert.Len(t, data.PorConta["Conta B"], 1)
}

func TestUpdate_OutroClienteRecusado(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	outro := seedCliente(t, db, "beta")
	alheio := seedLancamento(t, db, outro.ID, "Conta A", "2025-03-10")

	r := lancamentoRouter(db, cliente)
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/lancamentos/%d", alheio.ID), gin.H{
		"fornecedor":    "Invasor",
		"categoria":     "Rent",
		"contaCorrente": "Conta A",
		"dataCompra":    "2025-03-10",
		"valorCompra":   "1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// o registro do outro cliente fica intacto
	var depois models.Lancamento
	require.NoError(t, db.First(&depois, alheio.ID).Error)
	assert.Equal(t, "ACME", depois.Fornecedor)
	assert.Equal(t, outro.ID, depois.ClienteID)
}

func TestDelete_EscopadoPorCliente(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	outro := seedCliente(t, db, "beta")
	alheio := seedLancamento(t, db, outro.ID, "Conta A", "2025-03-10")

	r := lancamentoRouter(db, cliente)
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/lancamentos/%d", alheio.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Lancamento{}).Where("id = ?", alheio.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBulkDelete_TudoOuNada(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	outro := seedCliente(t, db, "beta")
	meu := seedLancamento(t, db, cliente.ID, "Conta A", "2025-03-10")
	alheio := seedLancamento(t, db, outro.ID, "Conta A", "2025-03-10")

	r := lancamentoRouter(db, cliente)
	w := doJSON(t, r, http.MethodDelete, "/api/lancamentos", gin.H{
		"ids": []uint{meu.ID, alheio.ID},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// nada foi excluído, nem o lançamento do próprio cliente
	var count int64
	require.NoError(t, db.Model(&models.Lancamento{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	w = doJSON(t, r, http.MethodDelete, "/api/lancamentos", gin.H{
		"ids": []uint{meu.ID},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.Model(&models.Lancamento{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAdminList_EscopadoPorClienteID(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	outro := seedCliente(t, db, "beta")
	seedLancamento(t, db, cliente.ID, "Conta A", "2025-03-10")
	seedLancamento(t, db, outro.ID, "Conta A", "2025-03-12")

	r := lancamentoRouter(db, cliente)
	w := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/admin/lancamentos?mes=3&ano=2025&clienteId=%d", outro.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Items []lancamentoResp `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	require.Equal(t, 1, data.Total)
	assert.Equal(t, "2025-03-12", data.Items[0].DataCompra)

	w = doJSON(t, r, http.MethodGet, "/api/admin/lancamentos?mes=3&ano=2025&clienteId=999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
