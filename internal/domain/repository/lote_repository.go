package repository

import (
	"context"
	"time"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
)

// LoteRepository define o porto de persistência para lotes (batches).
type LoteRepository interface {
	Criar(ctx context.Context, lote *entity.Lote) error
	ObterPorID(ctx context.Context, id string) (*entity.Lote, error)
	ObterPorCodigo(ctx context.Context, produtoID, codigo string) (*entity.Lote, error)
	ListarPorProduto(ctx context.Context, produtoID string) ([]*entity.Lote, error)

	// DefinirValidade preenche a validade uma única vez; falha com
	// domain.ErrConflito se o lote já tem validade gravada.
	DefinirValidade(ctx context.Context, id string, validade time.Time) error

	// Desativar marca o lote como inativo (soft delete).
	Desativar(ctx context.Context, id string) error
}
