package estoque_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/estoque"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

// seedMov apensa um movimento direto no log, com data controlada.
func seedMov(t *testing.T, amb *ambiente, tipo entity.TipoMovimentacao, qtd string, data time.Time) {
	t.Helper()
	err := amb.movs.Criar(context.Background(), &entity.Movimentacao{
		ID: qtd + data.String(), TransacaoID: "tx", EmpresaID: empresaA,
		ProdutoID: produtoX, DepositoID: depCentral, Tipo: tipo,
		Quantidade: d(qtd), Data: data, CreatedAt: data,
	})
	require.NoError(t, err)
}

func TestPosicaoPorCoordenada_NuncaMovimentadaVemZerada(t *testing.T) {
	amb := novoAmbiente(t)

	pos, err := amb.consulta.PosicaoPorCoordenada(context.Background(), coordCentral())
	require.NoError(t, err)
	assert.True(t, pos.Quantidade.IsZero())
	assert.True(t, pos.CustoMedio.IsZero())
	assert.Equal(t, int64(0), pos.Versao)
}

func TestPosicaoPorCoordenada_ExigeCoordenadaCompleta(t *testing.T) {
	amb := novoAmbiente(t)

	_, err := amb.consulta.PosicaoPorCoordenada(context.Background(), entity.Coordenada{
		EmpresaID: empresaA, ProdutoID: produtoX,
	})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestPosicoesPorProduto_CobreTodosOsDepositos(t *testing.T) {
	amb := novoAmbiente(t)
	entrada(t, amb, depCentral, "10", "2.00")
	entrada(t, amb, depFilial, "5", "3.00")

	posicoes, err := amb.consulta.PosicoesPorProduto(context.Background(), empresaA, produtoX)
	require.NoError(t, err)
	require.Len(t, posicoes, 2)

	total := decimal.Zero
	for _, p := range posicoes {
		total = total.Add(p.Quantidade)
	}
	assert.True(t, total.Equal(d("15")))
}

func TestMovimentacoes_FiltraPorTipoEPeriodo(t *testing.T) {
	amb := novoAmbiente(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedMov(t, amb, entity.TipoEntrada, "10", base)
	seedMov(t, amb, entity.TipoSaida, "-4", base.Add(time.Hour))
	seedMov(t, amb, entity.TipoEntrada, "6", base.Add(48*time.Hour))

	de := base.Add(-time.Minute)
	ate := base.Add(2 * time.Hour)
	movs, err := amb.consulta.Movimentacoes(context.Background(), repository.FiltroMovimentacao{
		EmpresaID: empresaA, Tipo: entity.TipoEntrada, De: &de, Ate: &ate,
	})
	require.NoError(t, err)
	require.Len(t, movs, 1, "só a primeira entrada cai no período")
	assert.True(t, movs[0].Quantidade.Equal(d("10")))
}

func TestMovimentacoes_ExigeEmpresa(t *testing.T) {
	amb := novoAmbiente(t)
	_, err := amb.consulta.Movimentacoes(context.Background(), repository.FiltroMovimentacao{})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

// ──────────────────────────────────────────────────────────────────────────────
// Giro de estoque
// ──────────────────────────────────────────────────────────────────────────────

func TestGiro_CalculaEntradasSaidasEMedia(t *testing.T) {
	amb := novoAmbiente(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// saldos após cada evento: 10, 6, 12, 6  →  estoque médio 8.5
	seedMov(t, amb, entity.TipoEntrada, "10", base.Add(1*time.Hour))
	seedMov(t, amb, entity.TipoSaida, "-4", base.Add(2*time.Hour))
	seedMov(t, amb, entity.TipoEntrada, "6", base.Add(3*time.Hour))
	seedMov(t, amb, entity.TipoSaida, "-6", base.Add(4*time.Hour))
	// reservas não alteram quantidade em mãos e ficam fora do cálculo
	seedMov(t, amb, entity.TipoReserva, "3", base.Add(2*time.Hour+30*time.Minute))

	giro, err := amb.consulta.Giro(context.Background(), empresaA, produtoX, base, base.Add(24*time.Hour))
	require.NoError(t, err)

	assert.True(t, giro.TotalEntradas.Equal(d("16")), "entradas 10+6, obtido %s", giro.TotalEntradas)
	assert.True(t, giro.TotalSaidas.Equal(d("10")), "saídas 4+6, obtido %s", giro.TotalSaidas)
	assert.True(t, giro.EstoqueMedio.Equal(d("8.5")), "média dos saldos pós-evento, obtido %s", giro.EstoqueMedio)
	assert.True(t, giro.Giro.Equal(d("10").Div(d("8.5"))), "giro = saídas / estoque médio")
}

func TestGiro_SemMovimentosNoPeriodo(t *testing.T) {
	amb := novoAmbiente(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	giro, err := amb.consulta.Giro(context.Background(), empresaA, produtoX, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, giro.TotalEntradas.IsZero())
	assert.True(t, giro.TotalSaidas.IsZero())
	assert.True(t, giro.EstoqueMedio.IsZero())
	assert.True(t, giro.Giro.IsZero())
}

func TestGiro_ExigeProdutoEEmpresa(t *testing.T) {
	amb := novoAmbiente(t)
	_, err := amb.consulta.Giro(context.Background(), empresaA, "", time.Now(), time.Now())
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

// smoke do read-side alimentado pelo processador de verdade
func TestConsulta_RefleteMovimentosAplicados(t *testing.T) {
	amb := novoAmbiente(t)
	entrada(t, amb, depCentral, "10", "2.00")

	in, err := estoque.NovaSaida(empresaA, usuario1, produtoX, depCentral, d("4"), "pedido-x")
	require.NoError(t, err)
	_, err = amb.movimentar.Aplicar(context.Background(), in)
	require.NoError(t, err)

	movs, err := amb.consulta.Movimentacoes(context.Background(), repository.FiltroMovimentacao{
		EmpresaID: empresaA, ProdutoID: produtoX,
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	// padrão é ordem descendente: a saída vem primeiro
	assert.Equal(t, entity.TipoSaida, movs[0].Tipo)
	assert.Equal(t, entity.TipoEntrada, movs[1].Tipo)
}
