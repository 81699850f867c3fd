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

// DepositoUseCase casos de uso CRUD para depósitos.
type DepositoUseCase struct {
	repo repository.DepositoRepository
}

// NewDepositoUseCase constrói o caso de uso.
func NewDepositoUseCase(repo repository.DepositoRepository) *DepositoUseCase {
	return &DepositoUseCase{repo: repo}
}

// Criar cria um novo depósito da empresa.
func (uc *DepositoUseCase) Criar(ctx context.Context, empresaID string, in dto.CreateDepositoRequest) (*dto.DepositoResponse, error) {
	if empresaID == "" || in.Codigo == "" || in.Nome == "" {
		return nil, domain.ErrEntradaInvalida
	}
	agora := time.Now().UTC()
	deposito := &entity.Deposito{
		ID:        uuid.New().String(),
		EmpresaID: empresaID,
		Codigo:    in.Codigo,
		Nome:      in.Nome,
		Endereco:  in.Endereco,
		CreatedAt: agora,
		UpdatedAt: agora,
	}
	if err := uc.repo.Criar(ctx, deposito); err != nil {
		return nil, err
	}
	resp := dto.DeDeposito(deposito)
	return &resp, nil
}

// ObterPorID obtém um depósito por id, dentro da empresa.
func (uc *DepositoUseCase) ObterPorID(ctx context.Context, empresaID, id string) (*dto.DepositoResponse, error) {
	deposito, err := uc.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deposito == nil || deposito.EmpresaID != empresaID {
		return nil, domain.ErrNaoEncontrado
	}
	resp := dto.DeDeposito(deposito)
	return &resp, nil
}

// Atualizar atualiza nome/endereço de um depósito.
func (uc *DepositoUseCase) Atualizar(ctx context.Context, empresaID, id string, in dto.UpdateDepositoRequest) (*dto.DepositoResponse, error) {
	deposito, err := uc.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deposito == nil || deposito.EmpresaID != empresaID {
		return nil, domain.ErrNaoEncontrado
	}
	if in.Nome != nil {
		deposito.Nome = *in.Nome
	}
	if in.Endereco != nil {
		deposito.Endereco = *in.Endereco
	}
	deposito.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Atualizar(ctx, deposito); err != nil {
		return nil, err
	}
	resp := dto.DeDeposito(deposito)
	return &resp, nil
}

// Listar lista depósitos da empresa com paginação.
func (uc *DepositoUseCase) Listar(ctx context.Context, empresaID string, page dto.PageRequest) ([]dto.DepositoResponse, error) {
	page.Normalizar()
	list, err := uc.repo.ListarPorEmpresa(ctx, empresaID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DepositoResponse, 0, len(list))
	for _, d := range list {
		items = append(items, dto.DeDeposito(d))
	}
	return items, nil
}
