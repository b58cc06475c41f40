package omie

import (
	"context"
	"fmt"

	"github.com/Kaytxt/xd/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Batch status values.
const (
	StatusCompleto = "completo"
	StatusParcial  = "parcial"
)

// SubmissionResult é um lançamento aceito pela Omie.
type SubmissionResult struct {
	LancamentoID     uint   `json:"lancamento_id"`
	CodigoIntegracao string `json:"codigo_integracao"`
	DescricaoStatus  string `json:"descricao_status"`
}

// SubmissionError é um lançamento rejeitado pela Omie no envio, com a
// mensagem remota (faultstring) e não só um status genérico.
type SubmissionError struct {
	LancamentoID     uint   `json:"lancamento_id"`
	CodigoIntegracao string `json:"codigo_integracao"`
	Erro             string `json:"erro"`
}

// BatchResult agrega o desfecho de um lote. Succeeded e Failed preservam a
// ordem de entrada dos lançamentos.
type BatchResult struct {
	BatchID       string             `json:"batch_id"`
	Conta         string             `json:"conta"`
	Status        string             `json:"status"` // completo | parcial
	Succeeded     []SubmissionResult `json:"succeeded"`
	Failed        []SubmissionError  `json:"failed"`
	MatchFailures []MatchFailure     `json:"match_failures"`
}

// integrationCode é estável por lançamento, para que um reenvio do mesmo
// lançamento chegue à Omie com o mesmo código e possa ser deduplicado lá.
func integrationCode(id uint) string {
	return fmt.Sprintf("LCTO_%d", id)
}

// ExportBatch exporta o grupo de lançamentos de uma conta corrente como
// contas a pagar na Omie.
//
// A conta do grupo é resolvida primeiro; sem ela nada é enviado
// (*ContaNotFoundError). Lançamentos que não casam fornecedor ou categoria
// são recolhidos em MatchFailures e ficam fora do envio; se nenhum
// sobreviver, o lote aborta com ErrNadaAEnviar. Os sobreviventes são
// enviados um a um, em sequência; falha remota de um não interrompe os
// demais. Nenhum dado local é alterado pela exportação.
func (c *Client) ExportBatch(ctx context.Context, conta string, lancamentos []models.Lancamento, refs *ReferenceData, creds Credentials) (*BatchResult, error) {
	contaOmie, ok := FindConta(refs.ContasCorrentes, conta)
	if !ok {
		return nil, &ContaNotFoundError{Conta: conta}
	}

	result := &BatchResult{
		BatchID: uuid.NewString(),
		Conta:   conta,
	}

	var preparados []ContaPagar
	var ids []uint
	for _, l := range lancamentos {
		matched, failure := Match(l, refs)
		if failure != nil {
			result.MatchFailures = append(result.MatchFailures, *failure)
			continue
		}

		vencimento, err := FormatDataOmie(matched.Lancamento.DataVencimento.Format("2006-01-02"))
		if err != nil {
			result.MatchFailures = append(result.MatchFailures, MatchFailure{
				LancamentoID: l.ID,
				Fornecedor:   l.Fornecedor,
				Motivo:       err.Error(),
			})
			continue
		}
		emissao, _ := FormatDataOmie(matched.Lancamento.DataCompra.Format("2006-01-02"))

		preparados = append(preparados, ContaPagar{
			CodigoLancamentoIntegracao: integrationCode(l.ID),
			CodigoClienteFornecedor:    matched.Fornecedor.Codigo,
			IDContaCorrente:            contaOmie.Codigo,
			DataVencimento:             vencimento,
			DataEmissao:                emissao,
			ValorDocumento:             l.ValorCompra,
			CodigoCategoria:            matched.Categoria.Codigo,
			Observacao:                 l.Observacao,
			NumeroDocumento:            l.NumeroDocumento,
		})
		ids = append(ids, l.ID)
	}

	if len(preparados) == 0 {
		return nil, ErrNadaAEnviar
	}

	// envio sequencial, um lançamento por chamada: a ordem das listas
	// succeeded/failed acompanha a entrada e a Omie nunca recebe escritas
	// concorrentes de um mesmo lote
	for i, cp := range preparados {
		status, err := c.IncluirContaPagar(ctx, creds, cp)
		if err != nil {
			log.Warn().
				Str("batch_id", result.BatchID).
				Uint("lancamento_id", ids[i]).
				Err(err).
				Msg("envio de conta a pagar rejeitado")
			result.Failed = append(result.Failed, SubmissionError{
				LancamentoID:     ids[i],
				CodigoIntegracao: cp.CodigoLancamentoIntegracao,
				Erro:             err.Error(),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, SubmissionResult{
			LancamentoID:     ids[i],
			CodigoIntegracao: cp.CodigoLancamentoIntegracao,
			DescricaoStatus:  status,
		})
	}

	result.Status = StatusCompleto
	if len(result.Failed) > 0 {
		result.Status = StatusParcial
	}

	log.Info().
		Str("batch_id", result.BatchID).
		Str("conta", conta).
		Int("enviados", len(result.Succeeded)).
		Int("falhas_envio", len(result.Failed)).
		Int("falhas_casamento", len(result.MatchFailures)).
		Msg("lote exportado")

	return result, nil
}
