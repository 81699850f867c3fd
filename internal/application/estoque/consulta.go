package estoque

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

// ConsultaEstoque é o read-side do ledger: posições e movimentos com filtros,
// sem nenhuma mutação. Consome o mesmo log que o processador apensa.
type ConsultaEstoque struct {
	posicoes      repository.PosicaoRepository
	movimentacoes repository.MovimentacaoRepository
}

// NewConsultaEstoque constrói o serviço de consulta.
func NewConsultaEstoque(posicoes repository.PosicaoRepository, movimentacoes repository.MovimentacaoRepository) *ConsultaEstoque {
	return &ConsultaEstoque{posicoes: posicoes, movimentacoes: movimentacoes}
}

// PosicaoPorCoordenada devolve a posição exata (zerada se nunca movimentada).
func (c *ConsultaEstoque) PosicaoPorCoordenada(ctx context.Context, coord entity.Coordenada) (*entity.PosicaoEstoque, error) {
	if coord.EmpresaID == "" || coord.ProdutoID == "" || coord.DepositoID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	return c.posicoes.Obter(ctx, coord)
}

// PosicoesPorProduto lista as posições de um produto em todos os depósitos.
func (c *ConsultaEstoque) PosicoesPorProduto(ctx context.Context, empresaID, produtoID string) ([]*entity.PosicaoEstoque, error) {
	if empresaID == "" || produtoID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	return c.posicoes.ListarPorProduto(ctx, empresaID, produtoID)
}

// Movimentacoes lista o histórico pelo filtro (produto, depósito, tipo,
// período), paginado.
func (c *ConsultaEstoque) Movimentacoes(ctx context.Context, filtro repository.FiltroMovimentacao) ([]*entity.Movimentacao, error) {
	if filtro.EmpresaID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	if filtro.Limit <= 0 {
		filtro.Limit = 50
	}
	return c.movimentacoes.Listar(ctx, filtro)
}

// GiroEstoque é o resultado do relatório de giro de um produto no período.
type GiroEstoque struct {
	ProdutoID     string
	De            time.Time
	Ate           time.Time
	TotalEntradas decimal.Decimal
	TotalSaidas   decimal.Decimal
	EstoqueMedio  decimal.Decimal
	// Giro = TotalSaidas / EstoqueMedio (zero quando não há estoque médio).
	Giro decimal.Decimal
}

// Giro reproduz cronologicamente os eventos de entrada/saída do produto no
// período, pareando-os para calcular estoque médio e índice de giro.
// Movimentos que não alteram quantidade (RESERVA/LIBERACAO) ficam de fora.
func (c *ConsultaEstoque) Giro(ctx context.Context, empresaID, produtoID string, de, ate time.Time) (*GiroEstoque, error) {
	if empresaID == "" || produtoID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	movs, err := c.movimentacoes.Listar(ctx, repository.FiltroMovimentacao{
		EmpresaID:   empresaID,
		ProdutoID:   produtoID,
		De:          &de,
		Ate:         &ate,
		Cronologica: true,
		Limit:       10000,
	})
	if err != nil {
		return nil, err
	}

	giro := &GiroEstoque{
		ProdutoID:     produtoID,
		De:            de,
		Ate:           ate,
		TotalEntradas: decimal.Zero,
		TotalSaidas:   decimal.Zero,
		EstoqueMedio:  decimal.Zero,
		Giro:          decimal.Zero,
	}

	saldo := decimal.Zero
	somaSaldos := decimal.Zero
	eventos := 0
	for _, m := range movs {
		switch m.Tipo {
		case entity.TipoReserva, entity.TipoLiberacao:
			continue // não mudam quantidade em mãos
		}
		saldo = saldo.Add(m.Quantidade)
		if m.Quantidade.IsPositive() {
			giro.TotalEntradas = giro.TotalEntradas.Add(m.Quantidade)
		} else {
			giro.TotalSaidas = giro.TotalSaidas.Add(m.Quantidade.Neg())
		}
		somaSaldos = somaSaldos.Add(saldo)
		eventos++
	}
	if eventos == 0 {
		return giro, nil
	}
	giro.EstoqueMedio = somaSaldos.Div(decimal.NewFromInt(int64(eventos)))
	if giro.EstoqueMedio.IsPositive() {
		giro.Giro = giro.TotalSaidas.Div(giro.EstoqueMedio)
	}
	return giro, nil
}
