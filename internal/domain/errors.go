package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erros de domínio (sem dependências de infraestrutura).
var (
	ErrNaoEncontrado         = errors.New("recurso não encontrado")
	ErrEntradaInvalida       = errors.New("entrada inválida")
	ErrDuplicado             = errors.New("recurso duplicado")
	ErrAcessoNegado          = errors.New("acesso negado")
	ErrConflito              = errors.New("conflito de concorrência")
	ErrEstoqueInsuficiente   = errors.New("estoque insuficiente")
	ErrReservaInsuficiente   = errors.New("quantidade reservada insuficiente")
	ErrTransferenciaInvalida = errors.New("transferência para a mesma posição")
)

// EstoqueInsuficienteError carrega o contexto exigido pelo chamador:
// coordenada, quantidade solicitada e quantidade disponível.
type EstoqueInsuficienteError struct {
	Coordenada string
	Solicitada decimal.Decimal
	Disponivel decimal.Decimal
}

func (e *EstoqueInsuficienteError) Error() string {
	return fmt.Sprintf("estoque insuficiente em %s: solicitado %s, disponível %s",
		e.Coordenada, e.Solicitada.String(), e.Disponivel.String())
}

// Unwrap permite errors.Is(err, ErrEstoqueInsuficiente).
func (e *EstoqueInsuficienteError) Unwrap() error { return ErrEstoqueInsuficiente }

// ReservaInsuficienteError indica LIBERACAO além do saldo reservado.
type ReservaInsuficienteError struct {
	Coordenada string
	Solicitada decimal.Decimal
	Reservada  decimal.Decimal
}

func (e *ReservaInsuficienteError) Error() string {
	return fmt.Sprintf("reserva insuficiente em %s: solicitado %s, reservado %s",
		e.Coordenada, e.Solicitada.String(), e.Reservada.String())
}

func (e *ReservaInsuficienteError) Unwrap() error { return ErrReservaInsuficiente }

// ConflitoVersaoError indica esgotamento das tentativas de escrita condicional
// sobre uma posição (contenção otimista).
type ConflitoVersaoError struct {
	Coordenada string
	Tentativas int
}

func (e *ConflitoVersaoError) Error() string {
	return fmt.Sprintf("conflito de versão em %s após %d tentativas", e.Coordenada, e.Tentativas)
}

func (e *ConflitoVersaoError) Unwrap() error { return ErrConflito }

// ReferenciaNaoEncontradaError indica produto, depósito ou lote desconhecido.
type ReferenciaNaoEncontradaError struct {
	Entidade string // "produto", "deposito", "lote"
	ID       string
}

func (e *ReferenciaNaoEncontradaError) Error() string {
	return fmt.Sprintf("%s não encontrado: %s", e.Entidade, e.ID)
}

func (e *ReferenciaNaoEncontradaError) Unwrap() error { return ErrNaoEncontrado }
