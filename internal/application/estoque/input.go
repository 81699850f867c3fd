package estoque

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
)

// MovimentacaoInput é a intenção de movimento submetida ao processador.
// Cada tipo tem seu construtor, que valida na construção os campos que o
// tipo exige (RESERVA/LIBERACAO recusam custo; TRANSFERENCIA exige destino;
// AJUSTE exige referência), em vez de um payload genérico validado em runtime.
//
// Quantidade é magnitude positiva para todos os tipos exceto AJUSTE, que
// carrega o sinal do próprio ajuste.
type MovimentacaoInput struct {
	EmpresaID  string
	UsuarioID  string
	ProdutoID  string
	DepositoID string

	// Lote por id ou por código humano; com código inexistente o Lot
	// Registry cria o lote (usando LoteValidade, se vier).
	LoteID       string
	LoteCodigo   string
	LoteValidade *time.Time

	Tipo          entity.TipoMovimentacao
	Quantidade    decimal.Decimal
	CustoUnitario *decimal.Decimal
	Referencia    string
	Meta          map[string]string

	// Somente TRANSFERENCIA.
	DepositoDestinoID string
	LoteDestinoID     string
}

// NovaEntrada constrói uma ENTRADA. Custo unitário é obrigatório e >= 0.
func NovaEntrada(empresaID, usuarioID, produtoID, depositoID string, qtd, custoUnitario decimal.Decimal, referencia string) (MovimentacaoInput, error) {
	in := MovimentacaoInput{
		EmpresaID: empresaID, UsuarioID: usuarioID,
		ProdutoID: produtoID, DepositoID: depositoID,
		Tipo: entity.TipoEntrada, Quantidade: qtd,
		CustoUnitario: &custoUnitario, Referencia: referencia,
	}
	return in, in.Validar()
}

// NovaSaida constrói uma SAIDA (baixa contra o disponível, custo derivado).
func NovaSaida(empresaID, usuarioID, produtoID, depositoID string, qtd decimal.Decimal, referencia string) (MovimentacaoInput, error) {
	in := MovimentacaoInput{
		EmpresaID: empresaID, UsuarioID: usuarioID,
		ProdutoID: produtoID, DepositoID: depositoID,
		Tipo: entity.TipoSaida, Quantidade: qtd, Referencia: referencia,
	}
	return in, in.Validar()
}

// NovaReserva constrói uma RESERVA (separa quantidade do disponível).
func NovaReserva(empresaID, usuarioID, produtoID, depositoID string, qtd decimal.Decimal, referencia string) (MovimentacaoInput, error) {
	in := MovimentacaoInput{
		EmpresaID: empresaID, UsuarioID: usuarioID,
		ProdutoID: produtoID, DepositoID: depositoID,
		Tipo: entity.TipoReserva, Quantidade: qtd, Referencia: referencia,
	}
	return in, in.Validar()
}

// NovaLiberacao constrói uma LIBERACAO (desfaz reserva).
func NovaLiberacao(empresaID, usuarioID, produtoID, depositoID string, qtd decimal.Decimal, referencia string) (MovimentacaoInput, error) {
	in := MovimentacaoInput{
		EmpresaID: empresaID, UsuarioID: usuarioID,
		ProdutoID: produtoID, DepositoID: depositoID,
		Tipo: entity.TipoLiberacao, Quantidade: qtd, Referencia: referencia,
	}
	return in, in.Validar()
}

// NovoConsumo constrói um CONSUMO (baixa quantidade consumindo a reserva).
func NovoConsumo(empresaID, usuarioID, produtoID, depositoID string, qtd decimal.Decimal, referencia string) (MovimentacaoInput, error) {
	in := MovimentacaoInput{
		EmpresaID: empresaID, UsuarioID: usuarioID,
		ProdutoID: produtoID, DepositoID: depositoID,
		Tipo: entity.TipoConsumo, Quantidade: qtd, Referencia: referencia,
	}
	return in, in.Validar()
}

// NovoAjuste constrói um AJUSTE; qtd carrega o sinal. A referência é
// obrigatória: todo ajuste precisa dizer por quê.
func NovoAjuste(empresaID, usuarioID, produtoID, depositoID string, qtd decimal.Decimal, custoUnitario *decimal.Decimal, referencia string) (MovimentacaoInput, error) {
	in := MovimentacaoInput{
		EmpresaID: empresaID, UsuarioID: usuarioID,
		ProdutoID: produtoID, DepositoID: depositoID,
		Tipo: entity.TipoAjuste, Quantidade: qtd,
		CustoUnitario: custoUnitario, Referencia: referencia,
	}
	return in, in.Validar()
}

// NovaTransferencia constrói uma TRANSFERENCIA entre depósitos.
func NovaTransferencia(empresaID, usuarioID, produtoID, depositoOrigemID, depositoDestinoID string, qtd decimal.Decimal, referencia string) (MovimentacaoInput, error) {
	in := MovimentacaoInput{
		EmpresaID: empresaID, UsuarioID: usuarioID,
		ProdutoID: produtoID, DepositoID: depositoOrigemID,
		DepositoDestinoID: depositoDestinoID,
		Tipo:              entity.TipoTransferencia,
		Quantidade:        qtd, Referencia: referencia,
	}
	return in, in.Validar()
}

// Validar aplica a matriz de validação por tipo, antes de qualquer I/O.
func (in *MovimentacaoInput) Validar() error {
	if in.EmpresaID == "" || in.ProdutoID == "" || in.DepositoID == "" {
		return domain.ErrEntradaInvalida
	}
	if !in.Tipo.Valido() {
		return domain.ErrEntradaInvalida
	}
	if in.CustoUnitario != nil && in.CustoUnitario.IsNegative() {
		return domain.ErrEntradaInvalida
	}
	switch in.Tipo {
	case entity.TipoEntrada:
		if !in.Quantidade.IsPositive() {
			return domain.ErrEntradaInvalida
		}
		if in.CustoUnitario == nil {
			return domain.ErrEntradaInvalida
		}
	case entity.TipoAjuste:
		if in.Quantidade.IsZero() {
			return domain.ErrEntradaInvalida
		}
		if in.Referencia == "" {
			return domain.ErrEntradaInvalida
		}
	case entity.TipoReserva, entity.TipoLiberacao:
		if !in.Quantidade.IsPositive() {
			return domain.ErrEntradaInvalida
		}
		// reservar/liberar não move valor; custo aqui é sinal de uso errado
		if in.CustoUnitario != nil {
			return domain.ErrEntradaInvalida
		}
	case entity.TipoSaida, entity.TipoConsumo:
		if !in.Quantidade.IsPositive() {
			return domain.ErrEntradaInvalida
		}
	case entity.TipoTransferencia:
		if !in.Quantidade.IsPositive() {
			return domain.ErrEntradaInvalida
		}
		if in.DepositoDestinoID == "" {
			return domain.ErrEntradaInvalida
		}
	}
	return nil
}
