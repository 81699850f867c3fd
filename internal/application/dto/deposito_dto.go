package dto

import (
	"time"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
)

// CreateDepositoRequest body para criar depósito.
type CreateDepositoRequest struct {
	Codigo   string `json:"codigo"`
	Nome     string `json:"nome"`
	Endereco string `json:"endereco,omitempty"`
}

// UpdateDepositoRequest body para atualizar depósito (campos opcionais).
type UpdateDepositoRequest struct {
	Nome     *string `json:"nome,omitempty"`
	Endereco *string `json:"endereco,omitempty"`
}

// DepositoResponse depósito serializado.
type DepositoResponse struct {
	ID        string    `json:"id"`
	Codigo    string    `json:"codigo"`
	Nome      string    `json:"nome"`
	Endereco  string    `json:"endereco,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeDeposito converte a entidade para resposta.
func DeDeposito(d *entity.Deposito) DepositoResponse {
	return DepositoResponse{
		ID:        d.ID,
		Codigo:    d.Codigo,
		Nome:      d.Nome,
		Endereco:  d.Endereco,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
