package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/estoque"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
)

// RegistrarMovimentacaoRequest body do POST /api/estoque/movimentacoes.
type RegistrarMovimentacaoRequest struct {
	ProdutoID         string            `json:"produto_id"`
	DepositoID        string            `json:"deposito_id"`
	LoteID            string            `json:"lote_id,omitempty"`
	LoteCodigo        string            `json:"lote_codigo,omitempty"`
	LoteValidade      *time.Time        `json:"lote_validade,omitempty"`
	Tipo              string            `json:"tipo"`
	Quantidade        decimal.Decimal   `json:"quantidade"`
	CustoUnitario     *decimal.Decimal  `json:"custo_unitario,omitempty"`
	Referencia        string            `json:"referencia,omitempty"`
	Meta              map[string]string `json:"meta,omitempty"`
	DepositoDestinoID string            `json:"deposito_destino_id,omitempty"`
	LoteDestinoID     string            `json:"lote_destino_id,omitempty"`
}

// ParaInput adapta o request HTTP à intenção do processador, com o tenant e
// o usuário vindos do token (nunca do body).
func (r RegistrarMovimentacaoRequest) ParaInput(empresaID, usuarioID string) estoque.MovimentacaoInput {
	return estoque.MovimentacaoInput{
		EmpresaID:         empresaID,
		UsuarioID:         usuarioID,
		ProdutoID:         r.ProdutoID,
		DepositoID:        r.DepositoID,
		LoteID:            r.LoteID,
		LoteCodigo:        r.LoteCodigo,
		LoteValidade:      r.LoteValidade,
		Tipo:              entity.TipoMovimentacao(r.Tipo),
		Quantidade:        r.Quantidade,
		CustoUnitario:     r.CustoUnitario,
		Referencia:        r.Referencia,
		Meta:              r.Meta,
		DepositoDestinoID: r.DepositoDestinoID,
		LoteDestinoID:     r.LoteDestinoID,
	}
}

// PosicaoResponse posição de estoque serializada.
type PosicaoResponse struct {
	ProdutoID  string          `json:"produto_id"`
	DepositoID string          `json:"deposito_id"`
	LoteID     string          `json:"lote_id,omitempty"`
	Quantidade decimal.Decimal `json:"quantidade"`
	Reservada  decimal.Decimal `json:"reservada"`
	Disponivel decimal.Decimal `json:"disponivel"`
	CustoMedio decimal.Decimal `json:"custo_medio"`
	Versao     int64           `json:"versao"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MovimentacaoResponse movimento serializado.
type MovimentacaoResponse struct {
	ID               string            `json:"id"`
	TransacaoID      string            `json:"transacao_id"`
	ProdutoID        string            `json:"produto_id"`
	DepositoID       string            `json:"deposito_id"`
	LoteID           string            `json:"lote_id,omitempty"`
	DepositoContraID string            `json:"deposito_contra_id,omitempty"`
	Tipo             string            `json:"tipo"`
	Quantidade       decimal.Decimal   `json:"quantidade"`
	CustoUnitario    decimal.Decimal   `json:"custo_unitario"`
	CustoTotal       decimal.Decimal   `json:"custo_total"`
	Referencia       string            `json:"referencia,omitempty"`
	Meta             map[string]string `json:"meta,omitempty"`
	Data             time.Time         `json:"data"`
}

// ResultadoMovimentacaoResponse resposta do registro de movimento.
type ResultadoMovimentacaoResponse struct {
	Movimentacoes []MovimentacaoResponse `json:"movimentacoes"`
	Posicoes      []PosicaoResponse      `json:"posicoes"`
}

// GiroEstoqueResponse relatório de giro.
type GiroEstoqueResponse struct {
	ProdutoID     string          `json:"produto_id"`
	De            time.Time       `json:"de"`
	Ate           time.Time       `json:"ate"`
	TotalEntradas decimal.Decimal `json:"total_entradas"`
	TotalSaidas   decimal.Decimal `json:"total_saidas"`
	EstoqueMedio  decimal.Decimal `json:"estoque_medio"`
	Giro          decimal.Decimal `json:"giro"`
}

// DePosicao converte a entidade para resposta.
func DePosicao(p *entity.PosicaoEstoque) PosicaoResponse {
	return PosicaoResponse{
		ProdutoID:  p.Coordenada.ProdutoID,
		DepositoID: p.Coordenada.DepositoID,
		LoteID:     p.Coordenada.LoteID,
		Quantidade: p.Quantidade,
		Reservada:  p.Reservada,
		Disponivel: p.Disponivel(),
		CustoMedio: p.CustoMedio,
		Versao:     p.Versao,
		UpdatedAt:  p.UpdatedAt,
	}
}

// DeMovimentacao converte a entidade para resposta.
func DeMovimentacao(m *entity.Movimentacao) MovimentacaoResponse {
	return MovimentacaoResponse{
		ID:               m.ID,
		TransacaoID:      m.TransacaoID,
		ProdutoID:        m.ProdutoID,
		DepositoID:       m.DepositoID,
		LoteID:           m.LoteID,
		DepositoContraID: m.DepositoContraID,
		Tipo:             string(m.Tipo),
		Quantidade:       m.Quantidade,
		CustoUnitario:    m.CustoUnitario,
		CustoTotal:       m.CustoTotal,
		Referencia:       m.Referencia,
		Meta:             m.Meta,
		Data:             m.Data,
	}
}

// DeResultado converte o resultado do processador para resposta.
func DeResultado(r *estoque.ResultadoMovimentacao) ResultadoMovimentacaoResponse {
	out := ResultadoMovimentacaoResponse{
		Movimentacoes: make([]MovimentacaoResponse, 0, len(r.Movimentacoes)),
		Posicoes:      make([]PosicaoResponse, 0, len(r.Posicoes)),
	}
	for _, m := range r.Movimentacoes {
		out.Movimentacoes = append(out.Movimentacoes, DeMovimentacao(m))
	}
	for _, p := range r.Posicoes {
		out.Posicoes = append(out.Posicoes, DePosicao(p))
	}
	return out
}

// DeGiro converte o relatório de giro para resposta.
func DeGiro(g *estoque.GiroEstoque) GiroEstoqueResponse {
	return GiroEstoqueResponse{
		ProdutoID:     g.ProdutoID,
		De:            g.De,
		Ate:           g.Ate,
		TotalEntradas: g.TotalEntradas,
		TotalSaidas:   g.TotalSaidas,
		EstoqueMedio:  g.EstoqueMedio,
		Giro:          g.Giro,
	}
}
