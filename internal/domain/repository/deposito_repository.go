package repository

import (
	"context"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
)

// DepositoRepository define o porto de persistência para depósitos (DIP).
type DepositoRepository interface {
	Criar(ctx context.Context, deposito *entity.Deposito) error
	ObterPorID(ctx context.Context, id string) (*entity.Deposito, error)
	Atualizar(ctx context.Context, deposito *entity.Deposito) error
	ListarPorEmpresa(ctx context.Context, empresaID string, limit, offset int) ([]*entity.Deposito, error)
}
