package entity

import "time"

// Lote representa um batch de um produto. Imutável após a criação, com duas
// exceções: a validade pode ser preenchida uma única vez (quando chegou sem
// data) e o lote pode ser desativado (soft delete).
type Lote struct {
	ID        string
	ProdutoID string
	Codigo    string     // código humano opcional (ex.: L-2024-001)
	Validade  *time.Time // opcional
	Ativo     bool
	CreatedAt time.Time
}
