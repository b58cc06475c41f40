// Package omie fala com a API da Omie (app.omie.com.br) e implementa o
// pipeline de exportação de lançamentos: carga dos dados de referência,
// casamento por texto exato e envio do lote de contas a pagar.
package omie

import "github.com/shopspring/decimal"

// Credentials é o par app key/secret de um cliente (tenant).
type Credentials struct {
	AppKey    string
	AppSecret string
}

// Tag é uma etiqueta de cadastro da Omie.
type Tag struct {
	Tag string `json:"tag"`
}

// Fornecedor é um registro de ListarClientes. Só entra no conjunto de
// trabalho quem carrega a tag "Fornecedor".
type Fornecedor struct {
	Codigo      int64  `json:"codigo_cliente_omie"`
	RazaoSocial string `json:"razao_social"`
	Tags        []Tag  `json:"tags"`
}

// Categoria é um registro de ListarCategorias.
type Categoria struct {
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao"`
}

// ContaCorrente é um registro de ListarContasCorrentes.
type ContaCorrente struct {
	Codigo    int64  `json:"nCodCC"`
	Descricao string `json:"descricao"`
}

// ReferenceData é o retrato em memória das três listas já filtradas. Vive
// apenas durante um fluxo de exportação; nunca é persistido.
type ReferenceData struct {
	Fornecedores    []Fornecedor
	Categorias      []Categoria
	ContasCorrentes []ContaCorrente
}

// ContaPagar é o registro enviado em IncluirContaPagar, um por lançamento.
type ContaPagar struct {
	CodigoLancamentoIntegracao string          `json:"codigo_lancamento_integracao"`
	CodigoClienteFornecedor    int64           `json:"codigo_cliente_fornecedor"`
	IDContaCorrente            int64           `json:"id_conta_corrente"`
	DataVencimento             string          `json:"data_vencimento"` // DD/MM/YYYY
	DataEmissao                string          `json:"data_emissao"`    // DD/MM/YYYY
	ValorDocumento             decimal.Decimal `json:"valor_documento"`
	CodigoCategoria            string          `json:"codigo_categoria"`
	Observacao                 string          `json:"observacao"`
	NumeroDocumento            string          `json:"numero_documento"`
}

// ---------- envelopes de requisição/resposta ----------

type requestEnvelope struct {
	Call      string        `json:"call"`
	AppKey    string        `json:"app_key"`
	AppSecret string        `json:"app_secret"`
	Param     []interface{} `json:"param"`
}

type listarClientesParam struct {
	Pagina             int    `json:"pagina"`
	RegistrosPorPagina int    `json:"registros_por_pagina"`
	ApenasImportadoAPI string `json:"apenas_importado_api"`
}

type listarClientesResponse struct {
	Pagina           int          `json:"pagina"`
	TotalDePaginas   int          `json:"total_de_paginas"`
	ClientesCadastro []Fornecedor `json:"clientes_cadastro"`
}

type listarCategoriasParam struct {
	Pagina             int `json:"pagina"`
	RegistrosPorPagina int `json:"registros_por_pagina"`
}

type listarCategoriasResponse struct {
	Pagina            int         `json:"pagina"`
	TotalDePaginas    int         `json:"total_de_paginas"`
	CategoriaCadastro []Categoria `json:"categoria_cadastro"`
}

type listarContasParam struct {
	Pagina             int    `json:"pagina"`
	RegistrosPorPagina int    `json:"registros_por_pagina"`
	FiltrarApenasAtivo string `json:"filtrar_apenas_ativo"`
}

type listarContasResponse struct {
	ListarContasCorrentes []ContaCorrente `json:"ListarContasCorrentes"`
}

// incluirContaPagarResponse é o recibo devolvido pela Omie para um envio.
type incluirContaPagarResponse struct {
	CodigoLancamentoOmie       int64  `json:"codigo_lancamento_omie"`
	CodigoLancamentoIntegracao string `json:"codigo_lancamento_integracao"`
	CodigoStatus               string `json:"codigo_status"`
	DescricaoStatus            string `json:"descricao_status"`
}

// faultResponse é o corpo de erro aplicacional da Omie.
type faultResponse struct {
	Faultstring string `json:"faultstring"`
	Faultcode   string `json:"faultcode"`
}
