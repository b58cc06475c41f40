package omie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Kaytxt/xd/internal/config"

	"github.com/rs/zerolog/log"
)

// Client chama a API da Omie. Todas as chamadas são POST JSON com o
// discriminador "call" e as credenciais do cliente no corpo.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	pageSize int
}

// NewClient cria o cliente a partir da configuração.
func NewClient(cfg config.OmieConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: timeout},
		timeout:  timeout,
		pageSize: pageSize,
	}
}

// call envia um POST para endpoint (ex.: "geral/clientes/") e decodifica a
// resposta em out. Faults aplicacionais da Omie viram *FaultError.
func (c *Client) call(ctx context.Context, endpoint, callName string, creds Credentials, param interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	env := requestEnvelope{
		Call:      callName,
		AppKey:    creds.AppKey,
		AppSecret: creds.AppSecret,
		Param:     []interface{}{param},
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", callName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request %s: %w", callName, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", callName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", callName, err)
	}

	// a Omie devolve faults como JSON com faultstring, em geral com
	// status 500
	var fault faultResponse
	if err := json.Unmarshal(data, &fault); err == nil && fault.Faultstring != "" {
		log.Debug().Str("call", callName).Str("faultcode", fault.Faultcode).Msg("omie fault")
		return &FaultError{Code: fault.Faultcode, Detail: fault.Faultstring}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", callName, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", callName, err)
	}
	return nil
}

// ListarClientes percorre todas as páginas do cadastro de clientes da Omie.
// O filtro por tag "Fornecedor" é aplicado do lado de cá, em reference.go.
func (c *Client) ListarClientes(ctx context.Context, creds Credentials) ([]Fornecedor, error) {
	var all []Fornecedor
	for pagina := 1; ; pagina++ {
		var resp listarClientesResponse
		param := listarClientesParam{
			Pagina:             pagina,
			RegistrosPorPagina: c.pageSize,
			ApenasImportadoAPI: "N",
		}
		if err := c.call(ctx, "geral/clientes/", "ListarClientes", creds, param, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.ClientesCadastro...)
		if pagina >= resp.TotalDePaginas {
			break
		}
	}
	return all, nil
}

// ListarCategorias percorre todas as páginas do cadastro de categorias.
func (c *Client) ListarCategorias(ctx context.Context, creds Credentials) ([]Categoria, error) {
	var all []Categoria
	for pagina := 1; ; pagina++ {
		var resp listarCategoriasResponse
		param := listarCategoriasParam{
			Pagina:             pagina,
			RegistrosPorPagina: c.pageSize,
		}
		if err := c.call(ctx, "geral/categorias/", "ListarCategorias", creds, param, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.CategoriaCadastro...)
		if pagina >= resp.TotalDePaginas {
			break
		}
	}
	return all, nil
}

// ListarContasCorrentes busca as contas correntes ativas.
func (c *Client) ListarContasCorrentes(ctx context.Context, creds Credentials) ([]ContaCorrente, error) {
	var resp listarContasResponse
	param := listarContasParam{
		Pagina:             1,
		RegistrosPorPagina: c.pageSize,
		FiltrarApenasAtivo: "S",
	}
	if err := c.call(ctx, "geral/contacorrente/", "ListarContasCorrentes", creds, param, &resp); err != nil {
		return nil, err
	}
	return resp.ListarContasCorrentes, nil
}

// IncluirContaPagar envia um único lançamento como conta a pagar.
func (c *Client) IncluirContaPagar(ctx context.Context, creds Credentials, cp ContaPagar) (string, error) {
	var resp incluirContaPagarResponse
	if err := c.call(ctx, "financas/contapagar/", "IncluirContaPagar", creds, cp, &resp); err != nil {
		return "", err
	}
	return resp.DescricaoStatus, nil
}
