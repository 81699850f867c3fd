package entity

import "time"

// Produto é o alvo das referências do ledger. O cadastro completo (preço,
// categoria, fornecedor) vive fora deste módulo; aqui só o necessário para
// validar movimentos.
type Produto struct {
	ID        string
	EmpresaID string
	SKU       string
	Nome      string
	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
