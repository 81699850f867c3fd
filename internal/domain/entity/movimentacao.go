package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipoMovimentacao enumera os movimentos suportados pelo ledger.
type TipoMovimentacao string

const (
	// TipoEntrada entrada de mercadoria (compra, devolução de cliente).
	TipoEntrada TipoMovimentacao = "ENTRADA"
	// TipoSaida saída avulsa (venda direta, perda).
	TipoSaida TipoMovimentacao = "SAIDA"
	// TipoTransferencia traslado entre depósitos (efeito duplo, atômico).
	TipoTransferencia TipoMovimentacao = "TRANSFERENCIA"
	// TipoAjuste correção manual, positiva ou negativa; exige referência.
	TipoAjuste TipoMovimentacao = "AJUSTE"
	// TipoReserva separa quantidade para atendimento futuro.
	TipoReserva TipoMovimentacao = "RESERVA"
	// TipoLiberacao desfaz uma reserva.
	TipoLiberacao TipoMovimentacao = "LIBERACAO"
	// TipoConsumo baixa quantidade reservada (faturamento/expedição).
	TipoConsumo TipoMovimentacao = "CONSUMO"
)

// Valido informa se o tipo é um dos sete enumerados.
func (t TipoMovimentacao) Valido() bool {
	switch t {
	case TipoEntrada, TipoSaida, TipoTransferencia, TipoAjuste,
		TipoReserva, TipoLiberacao, TipoConsumo:
		return true
	}
	return false
}

// Movimentacao é o fato imutável do ledger: nunca é atualizada nem removida;
// correções são feitas com um movimento compensatório (AJUSTE de sinal oposto).
//
// Quantidade é o valor efetivo com sinal: positivo em ENTRADA/RESERVA e no
// lado destino da TRANSFERENCIA; negativo em SAIDA/CONSUMO/LIBERACAO e no
// lado origem. AJUSTE carrega o sinal do próprio ajuste.
type Movimentacao struct {
	ID               string
	TransacaoID      string // agrupa os dois lados de uma TRANSFERENCIA
	EmpresaID        string
	ProdutoID        string
	DepositoID       string
	LoteID           string // vazio = sem lote
	DepositoContraID string // depósito oposto numa TRANSFERENCIA
	Tipo             TipoMovimentacao
	Quantidade       decimal.Decimal
	CustoUnitario    decimal.Decimal
	CustoTotal       decimal.Decimal
	Referencia       string
	Meta             map[string]string
	Data             time.Time
	CriadoPor        string
	CreatedAt        time.Time
}

// Coordenada devolve a coordenada da posição afetada por este movimento.
func (m *Movimentacao) Coordenada() Coordenada {
	return Coordenada{
		EmpresaID:  m.EmpresaID,
		ProdutoID:  m.ProdutoID,
		DepositoID: m.DepositoID,
		LoteID:     m.LoteID,
	}
}
