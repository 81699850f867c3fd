package repository

import (
	"context"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
)

// PosicaoRepository define o porto do Position Store: leitura devolve o token
// de versão; a escrita só tem efeito se o token não mudou (compare-and-swap).
// Usado dentro de transações para parear posição + movimento atomicamente.
type PosicaoRepository interface {
	// Obter devolve a posição da coordenada. Se ainda não existe, devolve a
	// posição zero-inicializada com Versao 0 (criação preguiçosa).
	Obter(ctx context.Context, coord entity.Coordenada) (*entity.PosicaoEstoque, error)

	// UpsertCondicional grava a posição com Versao = versaoEsperada+1 somente
	// se a versão persistida ainda for versaoEsperada (0 = insere a linha).
	// Devolve false, sem erro, quando a condição falha; o chamador relê e
	// tenta de novo.
	UpsertCondicional(ctx context.Context, pos *entity.PosicaoEstoque, versaoEsperada int64) (bool, error)

	// ListarPorProduto lista as posições de um produto em todos os depósitos.
	ListarPorProduto(ctx context.Context, empresaID, produtoID string) ([]*entity.PosicaoEstoque, error)

	// ListarPorDeposito lista as posições de um depósito, paginado.
	ListarPorDeposito(ctx context.Context, empresaID, depositoID string, limit, offset int) ([]*entity.PosicaoEstoque, error)
}
