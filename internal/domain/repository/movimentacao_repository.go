package repository

import (
	"context"
	"time"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
)

// FiltroMovimentacao filtros do read-side de movimentos. Campos vazios são
// ignorados.
type FiltroMovimentacao struct {
	EmpresaID  string
	ProdutoID  string
	DepositoID string
	LoteID     string
	Tipo       entity.TipoMovimentacao
	Referencia string
	De         *time.Time
	Ate        *time.Time
	// Cronologica ordena ascendente por data (replay); padrão é descendente.
	Cronologica bool
	Limit       int
	Offset      int
}

// MovimentacaoRepository define o porto de persistência do log de movimentos.
// O log é append-only: não há Update nem Delete.
type MovimentacaoRepository interface {
	Criar(ctx context.Context, m *entity.Movimentacao) error
	ObterPorID(ctx context.Context, empresaID, id string) (*entity.Movimentacao, error)
	Listar(ctx context.Context, filtro FiltroMovimentacao) ([]*entity.Movimentacao, error)
}
