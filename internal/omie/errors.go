package omie

import (
	"errors"
	"fmt"
)

// ErrNadaAEnviar: depois do casamento não sobrou nenhum lançamento válido.
// Aborta o lote inteiro antes de qualquer envio.
var ErrNadaAEnviar = errors.New("nenhum lançamento válido para enviar")

// ContaNotFoundError: a conta do grupo não existe nas contas de crédito da
// Omie. Aborta o lote inteiro antes de qualquer envio.
type ContaNotFoundError struct {
	Conta string
}

func (e *ContaNotFoundError) Error() string {
	return fmt.Sprintf("conta %q não encontrada na Omie", e.Conta)
}

// FaultError é um erro aplicacional devolvido pela Omie (faultstring).
type FaultError struct {
	Code   string
	Detail string
}

func (e *FaultError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("omie fault %s: %s", e.Code, e.Detail)
	}
	return "omie fault: " + e.Detail
}

// FetchError embrulha qualquer falha ao carregar dados de referência
// (rede, timeout, payload inválido ou fault). A falha nunca bloqueia a
// consulta local de lançamentos.
type FetchError struct {
	Resource string // "fornecedores", "categorias", "contas-correntes"
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("falha ao buscar %s da Omie: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
