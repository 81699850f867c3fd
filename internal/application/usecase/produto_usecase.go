package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/dto"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

// ProdutoUseCase casos de uso CRUD para produtos (o cadastro mínimo que o
// ledger precisa para conferir referências).
type ProdutoUseCase struct {
	repo repository.ProdutoRepository
}

// NewProdutoUseCase constrói o caso de uso.
func NewProdutoUseCase(repo repository.ProdutoRepository) *ProdutoUseCase {
	return &ProdutoUseCase{repo: repo}
}

// Criar cria um novo produto. SKU é único por empresa.
func (uc *ProdutoUseCase) Criar(ctx context.Context, empresaID string, in dto.CreateProdutoRequest) (*dto.ProdutoResponse, error) {
	if empresaID == "" || in.SKU == "" || in.Nome == "" {
		return nil, domain.ErrEntradaInvalida
	}
	existente, err := uc.repo.ObterPorSKU(ctx, empresaID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, domain.ErrDuplicado
	}
	agora := time.Now().UTC()
	produto := &entity.Produto{
		ID:        uuid.New().String(),
		EmpresaID: empresaID,
		SKU:       in.SKU,
		Nome:      in.Nome,
		Ativo:     true,
		CreatedAt: agora,
		UpdatedAt: agora,
	}
	if err := uc.repo.Criar(ctx, produto); err != nil {
		return nil, err
	}
	resp := dto.DeProduto(produto)
	return &resp, nil
}

// ObterPorID obtém um produto por id, dentro da empresa.
func (uc *ProdutoUseCase) ObterPorID(ctx context.Context, empresaID, id string) (*dto.ProdutoResponse, error) {
	produto, err := uc.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if produto == nil || produto.EmpresaID != empresaID {
		return nil, domain.ErrNaoEncontrado
	}
	resp := dto.DeProduto(produto)
	return &resp, nil
}

// Atualizar atualiza nome/ativo de um produto.
func (uc *ProdutoUseCase) Atualizar(ctx context.Context, empresaID, id string, in dto.UpdateProdutoRequest) (*dto.ProdutoResponse, error) {
	produto, err := uc.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if produto == nil || produto.EmpresaID != empresaID {
		return nil, domain.ErrNaoEncontrado
	}
	if in.Nome != nil {
		produto.Nome = *in.Nome
	}
	if in.Ativo != nil {
		produto.Ativo = *in.Ativo
	}
	produto.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Atualizar(ctx, produto); err != nil {
		return nil, err
	}
	resp := dto.DeProduto(produto)
	return &resp, nil
}

// Listar lista produtos da empresa com paginação.
func (uc *ProdutoUseCase) Listar(ctx context.Context, empresaID string, page dto.PageRequest) ([]dto.ProdutoResponse, error) {
	page.Normalizar()
	list, err := uc.repo.ListarPorEmpresa(ctx, empresaID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProdutoResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.DeProduto(p))
	}
	return items, nil
}
