package repository

import (
	"context"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
)

// ProdutoRepository define o porto de persistência para produtos (DIP).
type ProdutoRepository interface {
	Criar(ctx context.Context, produto *entity.Produto) error
	ObterPorID(ctx context.Context, id string) (*entity.Produto, error)
	ObterPorSKU(ctx context.Context, empresaID, sku string) (*entity.Produto, error)
	Atualizar(ctx context.Context, produto *entity.Produto) error
	ListarPorEmpresa(ctx context.Context, empresaID string, limit, offset int) ([]*entity.Produto, error)
}
