package dto

import (
	"time"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
)

// CreateProdutoRequest body para criar produto.
type CreateProdutoRequest struct {
	SKU  string `json:"sku"`
	Nome string `json:"nome"`
}

// UpdateProdutoRequest body para atualizar produto (campos opcionais).
type UpdateProdutoRequest struct {
	Nome  *string `json:"nome,omitempty"`
	Ativo *bool   `json:"ativo,omitempty"`
}

// ProdutoResponse produto serializado.
type ProdutoResponse struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Nome      string    `json:"nome"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoteResponse lote serializado.
type LoteResponse struct {
	ID        string     `json:"id"`
	ProdutoID string     `json:"produto_id"`
	Codigo    string     `json:"codigo,omitempty"`
	Validade  *time.Time `json:"validade,omitempty"`
	Ativo     bool       `json:"ativo"`
	CreatedAt time.Time  `json:"created_at"`
}

// DeProduto converte a entidade para resposta.
func DeProduto(p *entity.Produto) ProdutoResponse {
	return ProdutoResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Nome:      p.Nome,
		Ativo:     p.Ativo,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// DeLote converte a entidade para resposta.
func DeLote(l *entity.Lote) LoteResponse {
	return LoteResponse{
		ID:        l.ID,
		ProdutoID: l.ProdutoID,
		Codigo:    l.Codigo,
		Validade:  l.Validade,
		Ativo:     l.Ativo,
		CreatedAt: l.CreatedAt,
	}
}
