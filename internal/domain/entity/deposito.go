package entity

import "time"

// Deposito representa um armazém ou filial onde o estoque é guardado (multi-depósito).
// Criado por administradores; nunca removido enquanto houver posições que o referenciem.
type Deposito struct {
	ID        string
	EmpresaID string
	Codigo    string
	Nome      string
	Endereco  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
