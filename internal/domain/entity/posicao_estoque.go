package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Coordenada identifica uma posição de estoque: empresa + produto + depósito
// + lote (vazio = produto não loteado). É a única chave de escrita do ledger.
type Coordenada struct {
	EmpresaID  string
	ProdutoID  string
	DepositoID string
	LoteID     string
}

// Chave devolve a representação canônica da coordenada, usada como chave de
// mapa e em mensagens de erro.
func (c Coordenada) Chave() string {
	return fmt.Sprintf("%s/%s/%s/%s", c.EmpresaID, c.ProdutoID, c.DepositoID, c.LoteID)
}

func (c Coordenada) String() string { return c.Chave() }

// Igual compara duas coordenadas campo a campo.
func (c Coordenada) Igual(outra Coordenada) bool { return c == outra }

// PosicaoEstoque é o agregado mutável do ledger, por coordenada.
// Invariantes: Quantidade >= 0 e 0 <= Reservada <= Quantidade, sempre.
// CustoMedio só tem significado quando Quantidade > 0.
//
// Versao é o token de escrita condicional: toda atualização persiste
// Versao+1 condicionada à versão lida (compare-and-swap). Versao 0 indica
// posição ainda não materializada (criação preguiçosa no primeiro movimento).
type PosicaoEstoque struct {
	Coordenada Coordenada
	Quantidade decimal.Decimal
	Reservada  decimal.Decimal
	CustoMedio decimal.Decimal
	Versao     int64
	UpdatedAt  time.Time
}

// NovaPosicaoZerada devolve a posição zero-inicializada de uma coordenada.
func NovaPosicaoZerada(coord Coordenada) *PosicaoEstoque {
	return &PosicaoEstoque{
		Coordenada: coord,
		Quantidade: decimal.Zero,
		Reservada:  decimal.Zero,
		CustoMedio: decimal.Zero,
		Versao:     0,
	}
}

// Disponivel devolve a quantidade livre para saída: Quantidade - Reservada.
func (p *PosicaoEstoque) Disponivel() decimal.Decimal {
	return p.Quantidade.Sub(p.Reservada)
}

// Consistente verifica as invariantes do agregado.
func (p *PosicaoEstoque) Consistente() bool {
	if p.Quantidade.IsNegative() || p.Reservada.IsNegative() {
		return false
	}
	return p.Reservada.LessThanOrEqual(p.Quantidade)
}
