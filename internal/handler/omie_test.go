package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Kaytxt/xd/internal/config"
	"github.com/Kaytxt/xd/internal/models"
	"github.com/Kaytxt/xd/internal/omie"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// omieStub simula a API da Omie: listas de referência fixas e o endpoint de
// inclusão, que rejeita os códigos de integração em rejeitar.
type omieStub struct {
	envios       int64
	rejeitar     map[string]string
	falharListas bool
}

func (s *omieStub) server(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.falharListas && r.URL.Path != "/financas/contapagar/" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(gin.H{"faultstring": "Chave de acesso inválida", "faultcode": "SOAP-ENV:Client-102"})
			return
		}
		switch r.URL.Path {
		case "/geral/clientes/":
			json.NewEncoder(w).Encode(gin.H{
				"pagina": 1, "total_de_paginas": 1,
				"clientes_cadastro": []gin.H{
					{"codigo_cliente_omie": 100, "razao_social": "ACME", "tags": []gin.H{{"tag": "Fornecedor"}}},
				},
			})
		case "/geral/categorias/":
			json.NewEncoder(w).Encode(gin.H{
				"pagina": 1, "total_de_paginas": 1,
				"categoria_cadastro": []gin.H{{"codigo": "2.01", "descricao": "Rent"}},
			})
		case "/geral/contacorrente/":
			json.NewEncoder(w).Encode(gin.H{
				"ListarContasCorrentes": []gin.H{{"nCodCC": 55, "descricao": "Cartão de CRÉDITO"}},
			})
		case "/financas/contapagar/":
			atomic.AddInt64(&s.envios, 1)
			var env struct {
				Param []struct {
					CodigoLancamentoIntegracao string `json:"codigo_lancamento_integracao"`
				} `json:"param"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
			require.Len(t, env.Param, 1)
			codigo := env.Param[0].CodigoLancamentoIntegracao
			if msg, ok := s.rejeitar[codigo]; ok {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(gin.H{"faultstring": msg})
				return
			}
			json.NewEncoder(w).Encode(gin.H{
				"codigo_lancamento_integracao": codigo,
				"codigo_status":                "0",
				"descricao_status":             "Lançamento incluído com sucesso!",
			})
		default:
			t.Errorf("rota inesperada %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func omieRouter(db *gorm.DB, cliente *models.Cliente, baseURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	client := omie.NewClient(config.OmieConfig{BaseURL: baseURL, TimeoutSeconds: 5, PageSize: 500})
	h := NewOmieHandler(db, client, "test-key")

	r := gin.New()
	api := r.Group("/api", asCliente(cliente))
	api.POST("/omie/lancamentos-lote", h.ExportBatch)
	return r
}

func TestExportBatchEndpoint_Sucesso(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	seedLancamento(t, db, cliente.ID, "Cartão de CRÉDITO", "2025-03-07")

	stub := &omieStub{}
	srv := stub.server(t)
	defer srv.Close()

	r := omieRouter(db, cliente, srv.URL)
	w := doJSON(t, r, http.MethodPost, "/api/omie/lancamentos-lote", gin.H{
		"conta": "Cartão de CRÉDITO", "mes": 3, "ano": 2025,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, stub.envios)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Message string            `json:"message"`
			Data    *omie.BatchResult `json:"data"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, omie.StatusCompleto, body.Data.Data.Status)
	assert.Contains(t, body.Data.Message, "1 lançamentos enviados")
}

func TestExportBatchEndpoint_Parcial207(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	seedLancamento(t, db, cliente.ID, "Cartão de CRÉDITO", "2025-03-07")
	b := seedLancamento(t, db, cliente.ID, "Cartão de CRÉDITO", "2025-03-08")

	stub := &omieStub{rejeitar: map[string]string{
		fmt.Sprintf("LCTO_%d", b.ID): "Fornecedor bloqueado",
	}}
	srv := stub.server(t)
	defer srv.Close()

	r := omieRouter(db, cliente, srv.URL)
	w := doJSON(t, r, http.MethodPost, "/api/omie/lancamentos-lote", gin.H{
		"conta": "Cartão de CRÉDITO", "mes": 3, "ano": 2025,
	})
	require.Equal(t, http.StatusMultiStatus, w.Code, w.Body.String())

	var body struct {
		Code    int               `json:"code"`
		Message string            `json:"message"`
		Data    *omie.BatchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 20701, body.Code)
	assert.Contains(t, body.Message, "1 lançamentos enviados com sucesso, 1 com erro")
	assert.Equal(t, omie.StatusParcial, body.Data.Status)
	assert.EqualValues(t, 2, stub.envios)
}

func TestExportBatchEndpoint_ContaInexistente404(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	seedLancamento(t, db, cliente.ID, "Conta Fantasma", "2025-03-07")

	stub := &omieStub{}
	srv := stub.server(t)
	defer srv.Close()

	r := omieRouter(db, cliente, srv.URL)
	w := doJSON(t, r, http.MethodPost, "/api/omie/lancamentos-lote", gin.H{
		"conta": "Conta Fantasma", "mes": 3, "ano": 2025,
	})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	// aborto fatal não dispara nenhum envio
	assert.EqualValues(t, 0, stub.envios)
}

func TestExportBatchEndpoint_GrupoVazio400(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")

	stub := &omieStub{}
	srv := stub.server(t)
	defer srv.Close()

	r := omieRouter(db, cliente, srv.URL)
	w := doJSON(t, r, http.MethodPost, "/api/omie/lancamentos-lote", gin.H{
		"conta": "Cartão de CRÉDITO", "mes": 3, "ano": 2025,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 0, stub.envios)
}

func TestExportBatchEndpoint_FalhaDeReferencia502(t *testing.T) {
	db := testDB(t)
	cliente := seedCliente(t, db, "alfa")
	seedLancamento(t, db, cliente.ID, "Cartão de CRÉDITO", "2025-03-07")

	stub := &omieStub{falharListas: true}
	srv := stub.server(t)
	defer srv.Close()

	r := omieRouter(db, cliente, srv.URL)
	w := doJSON(t, r, http.MethodPost, "/api/omie/lancamentos-lote", gin.H{
		"conta": "Cartão de CRÉDITO", "mes": 3, "ano": 2025,
	})
	assert.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
	assert.EqualValues(t, 0, stub.envios)
}
