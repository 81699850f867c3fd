package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/estoque"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

var _ estoque.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL. É a unidade
// atômica do ledger: posição + movimento comprometem juntos ou nenhum.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia uma transação, executa fn com repositórios atados a ela e faz
// Commit ou Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	posicoes repository.PosicaoRepository,
	movimentacoes repository.MovimentacaoRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	posicoes := NewPosicaoRepository(tx)
	movimentacoes := NewMovimentacaoRepository(tx)

	if err := fn(posicoes, movimentacoes); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
