package omie

import (
	"fmt"

	"github.com/Kaytxt/xd/internal/models"
)

// MatchedEntry é um lançamento com fornecedor e categoria resolvidos contra
// os dados de referência.
type MatchedEntry struct {
	Lancamento models.Lancamento
	Fornecedor Fornecedor
	Categoria  Categoria
}

// MatchFailure é um lançamento que não casou, com o motivo legível. Não é
// fatal para o lote: o lançamento apenas fica de fora do envio.
type MatchFailure struct {
	LancamentoID uint   `json:"lancamento_id"`
	Fornecedor   string `json:"fornecedor"`
	Motivo       string `json:"motivo"`
}

// Match resolve o fornecedor e a categoria de um lançamento por igualdade
// exata de texto (sensível a caixa, sem fuzzy). É uma função pura de
// (lançamento, referência): sem rede, sem estado.
func Match(l models.Lancamento, refs *ReferenceData) (MatchedEntry, *MatchFailure) {
	forn, ok := findFornecedor(refs.Fornecedores, l.Fornecedor)
	if !ok {
		return MatchedEntry{}, &MatchFailure{
			LancamentoID: l.ID,
			Fornecedor:   l.Fornecedor,
			Motivo:       fmt.Sprintf("Fornecedor %q não encontrado", l.Fornecedor),
		}
	}

	cat, ok := findCategoria(refs.Categorias, l.Categoria)
	if !ok {
		return MatchedEntry{}, &MatchFailure{
			LancamentoID: l.ID,
			Fornecedor:   l.Fornecedor,
			Motivo:       fmt.Sprintf("Categoria %q não encontrada", l.Categoria),
		}
	}

	return MatchedEntry{Lancamento: l, Fornecedor: forn, Categoria: cat}, nil
}

func findFornecedor(in []Fornecedor, razaoSocial string) (Fornecedor, bool) {
	for _, f := range in {
		if f.RazaoSocial == razaoSocial {
			return f, true
		}
	}
	return Fornecedor{}, false
}

func findCategoria(in []Categoria, descricao string) (Categoria, bool) {
	for _, c := range in {
		if c.Descricao == descricao {
			return c, true
		}
	}
	return Categoria{}, false
}

// FindConta resolve a conta corrente de um grupo pela descrição exata.
func FindConta(in []ContaCorrente, descricao string) (ContaCorrente, bool) {
	for _, cc := range in {
		if cc.Descricao == descricao {
			return cc, true
		}
	}
	return ContaCorrente{}, false
}
