package omie

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

const tagFornecedor = "Fornecedor"

// LoadReferenceData busca fornecedores, categorias e contas correntes da
// Omie com as credenciais do cliente e devolve as três listas já filtradas.
// As três chamadas não dependem uma da outra e saem em paralelo; qualquer
// falha derruba a carga inteira com um *FetchError.
func (c *Client) LoadReferenceData(ctx context.Context, creds Credentials) (*ReferenceData, error) {
	var (
		fornecedores []Fornecedor
		categorias   []Categoria
		contas       []ContaCorrente
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := c.ListarClientes(gctx, creds)
		if err != nil {
			return &FetchError{Resource: "fornecedores", Err: err}
		}
		fornecedores = FilterFornecedores(raw)
		return nil
	})
	g.Go(func() error {
		raw, err := c.ListarCategorias(gctx, creds)
		if err != nil {
			return &FetchError{Resource: "categorias", Err: err}
		}
		categorias = FilterCategorias(raw)
		return nil
	})
	g.Go(func() error {
		raw, err := c.ListarContasCorrentes(gctx, creds)
		if err != nil {
			return &FetchError{Resource: "contas-correntes", Err: err}
		}
		contas = FilterContasCredito(raw)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReferenceData{
		Fornecedores:    fornecedores,
		Categorias:      categorias,
		ContasCorrentes: contas,
	}, nil
}

// FilterFornecedores mantém apenas cadastros com a tag literal "Fornecedor".
func FilterFornecedores(in []Fornecedor) []Fornecedor {
	out := make([]Fornecedor, 0, len(in))
	for _, f := range in {
		for _, t := range f.Tags {
			if t.Tag == tagFornecedor {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// FilterCategorias descarta categorias cuja descrição contém "disponível"
// (sem distinção de caixa), marcador de categoria inutilizável na Omie.
func FilterCategorias(in []Categoria) []Categoria {
	out := make([]Categoria, 0, len(in))
	for _, c := range in {
		if strings.Contains(strings.ToLower(c.Descricao), "disponível") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterContasCredito mantém apenas contas cuja descrição contém "CREDITO"
// ou "CRÉDITO" (sem distinção de caixa). Só contas de crédito são destino
// válido de exportação; o filtro é fixo, não configurável por cliente.
func FilterContasCredito(in []ContaCorrente) []ContaCorrente {
	out := make([]ContaCorrente, 0, len(in))
	for _, cc := range in {
		desc := strings.ToUpper(cc.Descricao)
		if strings.Contains(desc, "CREDITO") || strings.Contains(desc, "CRÉDITO") {
			out = append(out, cc)
		}
	}
	return out
}
