package estoque

import (
	"context"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de banco, passando
// repositórios atados a essa transação. É a unidade atômica do ledger: a
// escrita condicional da posição e o append do movimento acontecem juntos
// ou não acontecem.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		posicoes repository.PosicaoRepository,
		movimentacoes repository.MovimentacaoRepository,
	) error) error
}
