package estoque

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

// LoteRegistry resolve ou cria lotes por produto + código humano.
// Lotes são imutáveis após a criação; a validade pode ser preenchida uma
// única vez e a desativação é soft.
type LoteRegistry struct {
	lotes    repository.LoteRepository
	produtos repository.ProdutoRepository
}

// NewLoteRegistry constrói o registro de lotes.
func NewLoteRegistry(lotes repository.LoteRepository, produtos repository.ProdutoRepository) *LoteRegistry {
	return &LoteRegistry{lotes: lotes, produtos: produtos}
}

// ResolverOuCriar devolve o lote do produto com o código dado, criando-o se
// não existe. Criação concorrente do mesmo código é resolvida relendo após
// violação de unicidade.
func (r *LoteRegistry) ResolverOuCriar(ctx context.Context, produtoID, codigo string, validade *time.Time) (*entity.Lote, error) {
	if produtoID == "" || codigo == "" {
		return nil, domain.ErrEntradaInvalida
	}
	if lote, err := r.lotes.ObterPorCodigo(ctx, produtoID, codigo); err != nil {
		return nil, err
	} else if lote != nil {
		if !lote.Ativo {
			return nil, &domain.ReferenciaNaoEncontradaError{Entidade: "lote", ID: codigo}
		}
		return lote, nil
	}

	produto, err := r.produtos.ObterPorID(ctx, produtoID)
	if err != nil {
		return nil, err
	}
	if produto == nil {
		return nil, &domain.ReferenciaNaoEncontradaError{Entidade: "produto", ID: produtoID}
	}

	lote := &entity.Lote{
		ID:        uuid.New().String(),
		ProdutoID: produtoID,
		Codigo:    codigo,
		Validade:  validade,
		Ativo:     true,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.lotes.Criar(ctx, lote); err != nil {
		if errors.Is(err, domain.ErrDuplicado) {
			// outro chamador criou o mesmo código primeiro
			return r.lotes.ObterPorCodigo(ctx, produtoID, codigo)
		}
		return nil, err
	}
	return lote, nil
}

// ObterPorID devolve o lote ativo com o id dado.
func (r *LoteRegistry) ObterPorID(ctx context.Context, id string) (*entity.Lote, error) {
	lote, err := r.lotes.ObterPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lote == nil || !lote.Ativo {
		return nil, &domain.ReferenciaNaoEncontradaError{Entidade: "lote", ID: id}
	}
	return lote, nil
}

// ListarPorProduto lista os lotes de um produto (ativos e inativos).
func (r *LoteRegistry) ListarPorProduto(ctx context.Context, produtoID string) ([]*entity.Lote, error) {
	return r.lotes.ListarPorProduto(ctx, produtoID)
}

// DefinirValidade preenche a validade de um lote criado sem data. Só é
// permitido uma vez; alterar validade já gravada é ErrConflito.
func (r *LoteRegistry) DefinirValidade(ctx context.Context, id string, validade time.Time) error {
	lote, err := r.ObterPorID(ctx, id)
	if err != nil {
		return err
	}
	if lote.Validade != nil {
		return domain.ErrConflito
	}
	return r.lotes.DefinirValidade(ctx, id, validade)
}

// Desativar marca o lote como inativo; movimentos futuros que o referenciem
// passam a falhar com referência não encontrada.
func (r *LoteRegistry) Desativar(ctx context.Context, id string) error {
	if _, err := r.ObterPorID(ctx, id); err != nil {
		return err
	}
	return r.lotes.Desativar(ctx, id)
}
