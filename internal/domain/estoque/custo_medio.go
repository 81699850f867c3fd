package estoque

import "github.com/shopspring/decimal"

// CustoMedioPonderado implementa a valoração por custo médio ponderado
// (serviço de domínio, puro, sem estado nem I/O).
//
//	NovoCusto = ((QtdAtual * CustoAtual) + (QtdEntrada * CustoEntrada)) / (QtdAtual + QtdEntrada)
//
// Casos de borda: com QtdAtual <= 0 (posição vazia) ou qualquer entrada
// negativa, devolve CustoEntrada inalterado: o custo do movimento que está
// entrando passa a ser o custo da posição.
func CustoMedioPonderado(qtdAtual, custoAtual, qtdEntrada, custoEntrada decimal.Decimal) decimal.Decimal {
	if qtdAtual.LessThanOrEqual(decimal.Zero) || qtdEntrada.IsNegative() ||
		custoAtual.IsNegative() || custoEntrada.IsNegative() {
		return custoEntrada
	}
	soma := qtdAtual.Add(qtdEntrada)
	if soma.LessThanOrEqual(decimal.Zero) {
		return custoEntrada
	}
	num := qtdAtual.Mul(custoAtual).Add(qtdEntrada.Mul(custoEntrada))
	return num.Div(soma)
}
