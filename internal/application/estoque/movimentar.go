package estoque

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/estoque"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/pkg/logger"
)

// Tentativas de escrita condicional antes de devolver ErrConflito ao chamador.
const maxTentativas = 5

const backoffBase = 5 * time.Millisecond

// ResultadoMovimentacao é o retorno do processador: o(s) movimento(s)
// persistido(s) e a(s) posição(ões) pós-estado. TRANSFERENCIA devolve dois
// de cada (origem, destino), na ordem.
type ResultadoMovimentacao struct {
	Movimentacoes []*entity.Movimentacao
	Posicoes      []*entity.PosicaoEstoque
}

// MovimentarEstoque é o núcleo do ledger: valida a intenção, aplica o efeito
// sobre a(s) posição(ões) e apensa o movimento imutável, tudo na mesma
// transação. Concorrência é otimista: a posição carrega um token de versão e
// a escrita é condicional; em contenção a tentativa inteira é refeita, com
// backoff, até maxTentativas.
type MovimentarEstoque struct {
	tx        TxRunner
	produtos  repository.ProdutoRepository
	depositos repository.DepositoRepository
	lotes     *LoteRegistry
	log       *logger.Logger
}

// NewMovimentarEstoque constrói o processador de movimentos.
func NewMovimentarEstoque(tx TxRunner, produtos repository.ProdutoRepository, depositos repository.DepositoRepository, lotes *LoteRegistry, log *logger.Logger) *MovimentarEstoque {
	return &MovimentarEstoque{tx: tx, produtos: produtos, depositos: depositos, lotes: lotes, log: log}
}

// errTentarDeNovo sinaliza, dentro da transação, que a escrita condicional
// perdeu a corrida e a tentativa deve ser refeita do zero.
var errTentarDeNovo = &domain.ConflitoVersaoError{Tentativas: 1}

// Aplicar valida e efetiva uma intenção de movimento. Nenhum efeito parcial:
// qualquer falha (validação, referência, estoque, contenção esgotada,
// deadline) deixa o estoque exatamente como estava.
func (uc *MovimentarEstoque) Aplicar(ctx context.Context, in MovimentacaoInput) (*ResultadoMovimentacao, error) {
	if err := in.Validar(); err != nil {
		return nil, err
	}
	origem, destino, err := uc.resolverReferencias(ctx, &in)
	if err != nil {
		return nil, err
	}

	agora := time.Now().UTC()
	transacaoID := uuid.New().String()

	for tentativa := 1; tentativa <= maxTentativas; tentativa++ {
		resultado, err := uc.tentar(ctx, &in, origem, destino, agora, transacaoID)
		if err == nil {
			uc.logSucesso(&in, origem, tentativa)
			return resultado, nil
		}
		if !errors.Is(err, domain.ErrConflito) {
			return nil, err
		}
		if err := esperarBackoff(ctx, tentativa); err != nil {
			return nil, err
		}
	}
	return nil, &domain.ConflitoVersaoError{Coordenada: origem.Chave(), Tentativas: maxTentativas}
}

// resolverReferencias confere produto, depósito(s) e lote antes de qualquer
// mutação, devolvendo as coordenadas de origem e (se TRANSFERENCIA) destino.
func (uc *MovimentarEstoque) resolverReferencias(ctx context.Context, in *MovimentacaoInput) (entity.Coordenada, *entity.Coordenada, error) {
	var nenhuma entity.Coordenada

	produto, err := uc.produtos.ObterPorID(ctx, in.ProdutoID)
	if err != nil {
		return nenhuma, nil, err
	}
	if produto == nil {
		return nenhuma, nil, &domain.ReferenciaNaoEncontradaError{Entidade: "produto", ID: in.ProdutoID}
	}
	if produto.EmpresaID != in.EmpresaID {
		return nenhuma, nil, domain.ErrAcessoNegado
	}

	if err := uc.conferirDeposito(ctx, in.EmpresaID, in.DepositoID); err != nil {
		return nenhuma, nil, err
	}

	loteID := in.LoteID
	switch {
	case loteID != "":
		lote, err := uc.lotes.ObterPorID(ctx, loteID)
		if err != nil {
			return nenhuma, nil, err
		}
		if lote.ProdutoID != in.ProdutoID {
			return nenhuma, nil, &domain.ReferenciaNaoEncontradaError{Entidade: "lote", ID: loteID}
		}
	case in.LoteCodigo != "":
		lote, err := uc.lotes.ResolverOuCriar(ctx, in.ProdutoID, in.LoteCodigo, in.LoteValidade)
		if err != nil {
			return nenhuma, nil, err
		}
		loteID = lote.ID
	}

	origem := entity.Coordenada{
		EmpresaID:  in.EmpresaID,
		ProdutoID:  in.ProdutoID,
		DepositoID: in.DepositoID,
		LoteID:     loteID,
	}

	if in.Tipo != entity.TipoTransferencia {
		return origem, nil, nil
	}

	if err := uc.conferirDeposito(ctx, in.EmpresaID, in.DepositoDestinoID); err != nil {
		return nenhuma, nil, err
	}
	loteDestinoID := in.LoteDestinoID
	if loteDestinoID == "" {
		// sem lote de destino explícito, o batch acompanha a mercadoria
		loteDestinoID = loteID
	} else {
		lote, err := uc.lotes.ObterPorID(ctx, loteDestinoID)
		if err != nil {
			return nenhuma, nil, err
		}
		if lote.ProdutoID != in.ProdutoID {
			return nenhuma, nil, &domain.ReferenciaNaoEncontradaError{Entidade: "lote", ID: loteDestinoID}
		}
	}
	destino := entity.Coordenada{
		EmpresaID:  in.EmpresaID,
		ProdutoID:  in.ProdutoID,
		DepositoID: in.DepositoDestinoID,
		LoteID:     loteDestinoID,
	}
	if origem.Igual(destino) {
		return nenhuma, nil, domain.ErrTransferenciaInvalida
	}
	return origem, &destino, nil
}

func (uc *MovimentarEstoque) conferirDeposito(ctx context.Context, empresaID, depositoID string) error {
	deposito, err := uc.depositos.ObterPorID(ctx, depositoID)
	if err != nil {
		return err
	}
	if deposito == nil {
		return &domain.ReferenciaNaoEncontradaError{Entidade: "deposito", ID: depositoID}
	}
	if deposito.EmpresaID != empresaID {
		return domain.ErrAcessoNegado
	}
	return nil
}

// tentar executa uma tentativa completa numa única transação: lê a(s)
// posição(ões), calcula o efeito, grava condicionalmente e apensa o(s)
// movimento(s). Perdeu a corrida de versão → a transação é desfeita e o
// erro embrulha ErrConflito.
func (uc *MovimentarEstoque) tentar(ctx context.Context, in *MovimentacaoInput, origem entity.Coordenada, destino *entity.Coordenada, agora time.Time, transacaoID string) (*ResultadoMovimentacao, error) {
	var resultado *ResultadoMovimentacao
	err := uc.tx.Run(ctx, func(posicoes repository.PosicaoRepository, movimentacoes repository.MovimentacaoRepository) error {
		if in.Tipo == entity.TipoTransferencia {
			res, err := uc.aplicarTransferencia(ctx, in, origem, *destino, agora, transacaoID, posicoes, movimentacoes)
			if err != nil {
				return err
			}
			resultado = res
			return nil
		}

		pos, err := posicoes.Obter(ctx, origem)
		if err != nil {
			return err
		}
		nova, custoUnitario, qtdEfetiva, err := aplicarEfeito(pos, in)
		if err != nil {
			return err
		}
		nova.UpdatedAt = agora
		ok, err := posicoes.UpsertCondicional(ctx, nova, pos.Versao)
		if err != nil {
			return err
		}
		if !ok {
			return errTentarDeNovo
		}
		mov := novaMovimentacao(in, origem, "", transacaoID, qtdEfetiva, custoUnitario, agora)
		if err := movimentacoes.Criar(ctx, mov); err != nil {
			return err
		}
		resultado = &ResultadoMovimentacao{
			Movimentacoes: []*entity.Movimentacao{mov},
			Posicoes:      []*entity.PosicaoEstoque{nova},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

func (uc *MovimentarEstoque) aplicarTransferencia(ctx context.Context, in *MovimentacaoInput, origem, destino entity.Coordenada, agora time.Time, transacaoID string, posicoes repository.PosicaoRepository, movimentacoes repository.MovimentacaoRepository) (*ResultadoMovimentacao, error) {
	posOrigem, err := posicoes.Obter(ctx, origem)
	if err != nil {
		return nil, err
	}
	posDestino, err := posicoes.Obter(ctx, destino)
	if err != nil {
		return nil, err
	}

	qtd := in.Quantidade
	disponivel := posOrigem.Disponivel()
	if disponivel.LessThan(qtd) {
		return nil, &domain.EstoqueInsuficienteError{
			Coordenada: origem.Chave(), Solicitada: qtd, Disponivel: disponivel,
		}
	}

	// o custo que viaja é o custo médio corrente da origem
	custoViagem := posOrigem.CustoMedio

	novaOrigem := &entity.PosicaoEstoque{
		Coordenada: origem,
		Quantidade: posOrigem.Quantidade.Sub(qtd),
		Reservada:  posOrigem.Reservada,
		CustoMedio: posOrigem.CustoMedio,
		Versao:     posOrigem.Versao + 1,
		UpdatedAt:  agora,
	}
	if novaOrigem.Quantidade.IsZero() {
		novaOrigem.CustoMedio = decimal.Zero
	}

	novaDestino := &entity.PosicaoEstoque{
		Coordenada: destino,
		Quantidade: posDestino.Quantidade.Add(qtd),
		Reservada:  posDestino.Reservada,
		CustoMedio: estoque.CustoMedioPonderado(posDestino.Quantidade, posDestino.CustoMedio, qtd, custoViagem),
		Versao:     posDestino.Versao + 1,
		UpdatedAt:  agora,
	}

	// os dois lados comprometem juntos ou nenhum: qualquer condição que
	// falhe desfaz a transação inteira
	ok, err := posicoes.UpsertCondicional(ctx, novaOrigem, posOrigem.Versao)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errTentarDeNovo
	}
	ok, err = posicoes.UpsertCondicional(ctx, novaDestino, posDestino.Versao)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errTentarDeNovo
	}

	movSaida := novaMovimentacao(in, origem, destino.DepositoID, transacaoID, qtd.Neg(), custoViagem, agora)
	movEntrada := novaMovimentacao(in, destino, origem.DepositoID, transacaoID, qtd, custoViagem, agora)
	if err := movimentacoes.Criar(ctx, movSaida); err != nil {
		return nil, err
	}
	if err := movimentacoes.Criar(ctx, movEntrada); err != nil {
		return nil, err
	}
	return &ResultadoMovimentacao{
		Movimentacoes: []*entity.Movimentacao{movSaida, movEntrada},
		Posicoes:      []*entity.PosicaoEstoque{novaOrigem, novaDestino},
	}, nil
}

// aplicarEfeito calcula a posição resultante de um movimento simples (não
// TRANSFERENCIA) conforme a tabela de efeitos por tipo. Devolve a nova
// posição (Versao já incrementada), o custo unitário do movimento e a
// quantidade efetiva com sinal.
func aplicarEfeito(pos *entity.PosicaoEstoque, in *MovimentacaoInput) (*entity.PosicaoEstoque, decimal.Decimal, decimal.Decimal, error) {
	var zero decimal.Decimal
	qtd := in.Quantidade
	coord := pos.Coordenada.Chave()

	nova := &entity.PosicaoEstoque{
		Coordenada: pos.Coordenada,
		Quantidade: pos.Quantidade,
		Reservada:  pos.Reservada,
		CustoMedio: pos.CustoMedio,
		Versao:     pos.Versao + 1,
	}

	var custoUnitario, qtdEfetiva decimal.Decimal

	switch in.Tipo {
	case entity.TipoEntrada:
		custoUnitario = *in.CustoUnitario
		nova.CustoMedio = estoque.CustoMedioPonderado(pos.Quantidade, pos.CustoMedio, qtd, custoUnitario)
		nova.Quantidade = pos.Quantidade.Add(qtd)
		qtdEfetiva = qtd

	case entity.TipoSaida:
		disponivel := pos.Disponivel()
		if disponivel.LessThan(qtd) {
			return nil, zero, zero, &domain.EstoqueInsuficienteError{
				Coordenada: coord, Solicitada: qtd, Disponivel: disponivel,
			}
		}
		nova.Quantidade = pos.Quantidade.Sub(qtd)
		custoUnitario = pos.CustoMedio
		qtdEfetiva = qtd.Neg()

	case entity.TipoConsumo:
		// consome a reserva primeiro; o excedente sai do disponível
		daReserva := decimal.Min(qtd, pos.Reservada)
		excedente := qtd.Sub(daReserva)
		disponivel := pos.Disponivel()
		if disponivel.LessThan(excedente) {
			return nil, zero, zero, &domain.EstoqueInsuficienteError{
				Coordenada: coord, Solicitada: qtd, Disponivel: pos.Quantidade,
			}
		}
		nova.Quantidade = pos.Quantidade.Sub(qtd)
		nova.Reservada = pos.Reservada.Sub(daReserva)
		custoUnitario = pos.CustoMedio
		qtdEfetiva = qtd.Neg()

	case entity.TipoReserva:
		disponivel := pos.Disponivel()
		if disponivel.LessThan(qtd) {
			return nil, zero, zero, &domain.EstoqueInsuficienteError{
				Coordenada: coord, Solicitada: qtd, Disponivel: disponivel,
			}
		}
		nova.Reservada = pos.Reservada.Add(qtd)
		qtdEfetiva = qtd

	case entity.TipoLiberacao:
		if pos.Reservada.LessThan(qtd) {
			return nil, zero, zero, &domain.ReservaInsuficienteError{
				Coordenada: coord, Solicitada: qtd, Reservada: pos.Reservada,
			}
		}
		nova.Reservada = pos.Reservada.Sub(qtd)
		qtdEfetiva = qtd.Neg()

	case entity.TipoAjuste:
		if qtd.IsPositive() {
			custoEntrada := pos.CustoMedio
			if in.CustoUnitario != nil {
				custoEntrada = *in.CustoUnitario
			}
			nova.CustoMedio = estoque.CustoMedioPonderado(pos.Quantidade, pos.CustoMedio, qtd, custoEntrada)
			nova.Quantidade = pos.Quantidade.Add(qtd)
			custoUnitario = custoEntrada
			qtdEfetiva = qtd
		} else {
			magnitude := qtd.Neg()
			restante := pos.Quantidade.Sub(magnitude)
			// ajuste negativo não pode cortar abaixo do reservado
			if restante.LessThan(pos.Reservada) {
				return nil, zero, zero, &domain.EstoqueInsuficienteError{
					Coordenada: coord, Solicitada: magnitude, Disponivel: pos.Disponivel(),
				}
			}
			nova.Quantidade = restante
			custoUnitario = pos.CustoMedio
			qtdEfetiva = qtd
		}
	}

	if nova.Quantidade.IsZero() {
		// custo médio só tem significado com quantidade positiva
		nova.CustoMedio = decimal.Zero
	}
	return nova, custoUnitario, qtdEfetiva, nil
}

func novaMovimentacao(in *MovimentacaoInput, coord entity.Coordenada, depositoContraID, transacaoID string, qtdEfetiva, custoUnitario decimal.Decimal, agora time.Time) *entity.Movimentacao {
	return &entity.Movimentacao{
		ID:               uuid.New().String(),
		TransacaoID:      transacaoID,
		EmpresaID:        coord.EmpresaID,
		ProdutoID:        coord.ProdutoID,
		DepositoID:       coord.DepositoID,
		LoteID:           coord.LoteID,
		DepositoContraID: depositoContraID,
		Tipo:             in.Tipo,
		Quantidade:       qtdEfetiva,
		CustoUnitario:    custoUnitario,
		CustoTotal:       qtdEfetiva.Mul(custoUnitario),
		Referencia:       in.Referencia,
		Meta:             in.Meta,
		Data:             agora,
		CriadoPor:        in.UsuarioID,
		CreatedAt:        agora,
	}
}

// esperarBackoff dorme entre tentativas (linear com jitter), respeitando o
// deadline do chamador.
func esperarBackoff(ctx context.Context, tentativa int) error {
	espera := time.Duration(tentativa)*backoffBase + time.Duration(rand.Int63n(int64(backoffBase)))
	timer := time.NewTimer(espera)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (uc *MovimentarEstoque) logSucesso(in *MovimentacaoInput, origem entity.Coordenada, tentativa int) {
	if uc.log == nil {
		return
	}
	uc.log.Info().
		Str("tipo", string(in.Tipo)).
		Str("coordenada", origem.Chave()).
		Str("quantidade", in.Quantidade.String()).
		Int("tentativa", tentativa).
		Msg("movimento aplicado")
}
