package estoque_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store em memória com semântica transacional de versão: as escritas de cada
// Run ficam num buffer e só entram no estado comprometido se, no commit, as
// versões lidas ainda forem as correntes. Interleaving real entre goroutines
// produz conflitos reais, que o processador resolve com retry.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	posicoes  map[string]*entity.PosicaoEstoque
	movs      []*entity.Movimentacao
	produtos  map[string]*entity.Produto
	depositos map[string]*entity.Deposito
	lotes     map[string]*entity.Lote
}

func newMemStore() *memStore {
	return &memStore{
		posicoes:  map[string]*entity.PosicaoEstoque{},
		produtos:  map[string]*entity.Produto{},
		depositos: map[string]*entity.Deposito{},
		lotes:     map[string]*entity.Lote{},
	}
}

func copiaPosicao(p *entity.PosicaoEstoque) *entity.PosicaoEstoque {
	c := *p
	return &c
}

// posicaoComprometida devolve a posição do estado comprometido (cópia) ou a
// posição zerada. Chamar com s.mu travado.
func (s *memStore) posicaoComprometida(coord entity.Coordenada) *entity.PosicaoEstoque {
	if p, ok := s.posicoes[coord.Chave()]; ok {
		return copiaPosicao(p)
	}
	return entity.NovaPosicaoZerada(coord)
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	s *memStore
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(repository.PosicaoRepository, repository.MovimentacaoRepository) error) error {
	tx := &memTx{
		s:         r.s,
		esperadas: map[string]int64{},
		escritas:  map[string]*entity.PosicaoEstoque{},
	}
	if err := fn(&txPosicaoRepo{tx}, &txMovRepo{tx}); err != nil {
		return err
	}
	return tx.commit()
}

type memTx struct {
	s         *memStore
	esperadas map[string]int64 // versão comprometida exigida por coordenada
	escritas  map[string]*entity.PosicaoEstoque
	novosMovs []*entity.Movimentacao
}

func (tx *memTx) commit() error {
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	for chave, esperada := range tx.esperadas {
		atual := int64(0)
		if p, ok := tx.s.posicoes[chave]; ok {
			atual = p.Versao
		}
		if atual != esperada {
			// outra transação comprometeu a coordenada primeiro
			return &domain.ConflitoVersaoError{Coordenada: chave, Tentativas: 1}
		}
	}
	for chave, p := range tx.escritas {
		tx.s.posicoes[chave] = copiaPosicao(p)
	}
	tx.s.movs = append(tx.s.movs, tx.novosMovs...)
	return nil
}

type txPosicaoRepo struct {
	tx *memTx
}

func (r *txPosicaoRepo) Obter(ctx context.Context, coord entity.Coordenada) (*entity.PosicaoEstoque, error) {
	if p, ok := r.tx.escritas[coord.Chave()]; ok {
		return copiaPosicao(p), nil
	}
	r.tx.s.mu.Lock()
	defer r.tx.s.mu.Unlock()
	return r.tx.s.posicaoComprometida(coord), nil
}

func (r *txPosicaoRepo) UpsertCondicional(ctx context.Context, pos *entity.PosicaoEstoque, versaoEsperada int64) (bool, error) {
	chave := pos.Coordenada.Chave()
	r.tx.s.mu.Lock()
	atual := int64(0)
	if p, ok := r.tx.s.posicoes[chave]; ok {
		atual = p.Versao
	}
	r.tx.s.mu.Unlock()
	if atual != versaoEsperada {
		return false, nil
	}
	if _, ok := r.tx.esperadas[chave]; !ok {
		r.tx.esperadas[chave] = versaoEsperada
	}
	r.tx.escritas[chave] = copiaPosicao(pos)
	return true, nil
}

func (r *txPosicaoRepo) ListarPorProduto(ctx context.Context, empresaID, produtoID string) ([]*entity.PosicaoEstoque, error) {
	return (&fakePosicaoRepo{s: r.tx.s}).ListarPorProduto(ctx, empresaID, produtoID)
}

func (r *txPosicaoRepo) ListarPorDeposito(ctx context.Context, empresaID, depositoID string, limit, offset int) ([]*entity.PosicaoEstoque, error) {
	return (&fakePosicaoRepo{s: r.tx.s}).ListarPorDeposito(ctx, empresaID, depositoID, limit, offset)
}

type txMovRepo struct {
	tx *memTx
}

func (r *txMovRepo) Criar(ctx context.Context, m *entity.Movimentacao) error {
	c := *m
	r.tx.novosMovs = append(r.tx.novosMovs, &c)
	return nil
}

func (r *txMovRepo) ObterPorID(ctx context.Context, empresaID, id string) (*entity.Movimentacao, error) {
	return (&fakeMovRepo{s: r.tx.s}).ObterPorID(ctx, empresaID, id)
}

func (r *txMovRepo) Listar(ctx context.Context, filtro repository.FiltroMovimentacao) ([]*entity.Movimentacao, error) {
	return (&fakeMovRepo{s: r.tx.s}).Listar(ctx, filtro)
}

// txRunnerSempreConflito falha todo Run com conflito de versão; serve para
// exercer o esgotamento das tentativas.
type txRunnerSempreConflito struct{}

func (txRunnerSempreConflito) Run(ctx context.Context, fn func(repository.PosicaoRepository, repository.MovimentacaoRepository) error) error {
	return &domain.ConflitoVersaoError{Coordenada: "forcado", Tentativas: 1}
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositórios fake fora de transação (leituras e cadastros)
// ──────────────────────────────────────────────────────────────────────────────

type fakePosicaoRepo struct {
	s *memStore
}

func (r *fakePosicaoRepo) Obter(ctx context.Context, coord entity.Coordenada) (*entity.PosicaoEstoque, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.posicaoComprometida(coord), nil
}

func (r *fakePosicaoRepo) UpsertCondicional(ctx context.Context, pos *entity.PosicaoEstoque, versaoEsperada int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	chave := pos.Coordenada.Chave()
	atual := int64(0)
	if p, ok := r.s.posicoes[chave]; ok {
		atual = p.Versao
	}
	if atual != versaoEsperada {
		return false, nil
	}
	r.s.posicoes[chave] = copiaPosicao(pos)
	return true, nil
}

func (r *fakePosicaoRepo) ListarPorProduto(ctx context.Context, empresaID, produtoID string) ([]*entity.PosicaoEstoque, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PosicaoEstoque
	for _, p := range r.s.posicoes {
		if p.Coordenada.EmpresaID == empresaID && p.Coordenada.ProdutoID == produtoID {
			out = append(out, copiaPosicao(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Coordenada.Chave() < out[j].Coordenada.Chave() })
	return out, nil
}

func (r *fakePosicaoRepo) ListarPorDeposito(ctx context.Context, empresaID, depositoID string, limit, offset int) ([]*entity.PosicaoEstoque, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PosicaoEstoque
	for _, p := range r.s.posicoes {
		if p.Coordenada.EmpresaID == empresaID && p.Coordenada.DepositoID == depositoID {
			out = append(out, copiaPosicao(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Coordenada.Chave() < out[j].Coordenada.Chave() })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeMovRepo struct {
	s *memStore
}

func (r *fakeMovRepo) Criar(ctx context.Context, m *entity.Movimentacao) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	r.s.movs = append(r.s.movs, &c)
	return nil
}

func (r *fakeMovRepo) ObterPorID(ctx context.Context, empresaID, id string) (*entity.Movimentacao, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movs {
		if m.EmpresaID == empresaID && m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeMovRepo) Listar(ctx context.Context, filtro repository.FiltroMovimentacao) ([]*entity.Movimentacao, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movimentacao
	for _, m := range r.s.movs {
		if m.EmpresaID != filtro.EmpresaID {
			continue
		}
		if filtro.ProdutoID != "" && m.ProdutoID != filtro.ProdutoID {
			continue
		}
		if filtro.DepositoID != "" && m.DepositoID != filtro.DepositoID {
			continue
		}
		if filtro.LoteID != "" && m.LoteID != filtro.LoteID {
			continue
		}
		if filtro.Tipo != "" && m.Tipo != filtro.Tipo {
			continue
		}
		if filtro.Referencia != "" && m.Referencia != filtro.Referencia {
			continue
		}
		if filtro.De != nil && m.Data.Before(*filtro.De) {
			continue
		}
		if filtro.Ate != nil && m.Data.After(*filtro.Ate) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	// movs já são apensados em ordem cronológica
	if !filtro.Cronologica {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if filtro.Offset > 0 {
		if filtro.Offset >= len(out) {
			return nil, nil
		}
		out = out[filtro.Offset:]
	}
	if filtro.Limit > 0 && filtro.Limit < len(out) {
		out = out[:filtro.Limit]
	}
	return out, nil
}

type fakeProdutoRepo struct {
	s *memStore
}

func (r *fakeProdutoRepo) Criar(ctx context.Context, p *entity.Produto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	r.s.produtos[p.ID] = &c
	return nil
}

func (r *fakeProdutoRepo) ObterPorID(ctx context.Context, id string) (*entity.Produto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.produtos[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *fakeProdutoRepo) ObterPorSKU(ctx context.Context, empresaID, sku string) (*entity.Produto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.produtos {
		if p.EmpresaID == empresaID && p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeProdutoRepo) Atualizar(ctx context.Context, p *entity.Produto) error {
	return r.Criar(ctx, p)
}

func (r *fakeProdutoRepo) ListarPorEmpresa(ctx context.Context, empresaID string, limit, offset int) ([]*entity.Produto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Produto
	for _, p := range r.s.produtos {
		if p.EmpresaID == empresaID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

type fakeDepositoRepo struct {
	s *memStore
}

func (r *fakeDepositoRepo) Criar(ctx context.Context, d *entity.Deposito) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *d
	r.s.depositos[d.ID] = &c
	return nil
}

func (r *fakeDepositoRepo) ObterPorID(ctx context.Context, id string) (*entity.Deposito, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.depositos[id]; ok {
		c := *d
		return &c, nil
	}
	return nil, nil
}

func (r *fakeDepositoRepo) Atualizar(ctx context.Context, d *entity.Deposito) error {
	return r.Criar(ctx, d)
}

func (r *fakeDepositoRepo) ListarPorEmpresa(ctx context.Context, empresaID string, limit, offset int) ([]*entity.Deposito, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Deposito
	for _, d := range r.s.depositos {
		if d.EmpresaID == empresaID {
			c := *d
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

type fakeLoteRepo struct {
	s *memStore
}

func (r *fakeLoteRepo) Criar(ctx context.Context, lote *entity.Lote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.lotes {
		if l.ProdutoID == lote.ProdutoID && l.Codigo == lote.Codigo {
			return domain.ErrDuplicado
		}
	}
	c := *lote
	r.s.lotes[lote.ID] = &c
	return nil
}

func (r *fakeLoteRepo) ObterPorID(ctx context.Context, id string) (*entity.Lote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.lotes[id]; ok {
		c := *l
		return &c, nil
	}
	return nil, nil
}

func (r *fakeLoteRepo) ObterPorCodigo(ctx context.Context, produtoID, codigo string) (*entity.Lote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.lotes {
		if l.ProdutoID == produtoID && l.Codigo == codigo {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeLoteRepo) ListarPorProduto(ctx context.Context, produtoID string) ([]*entity.Lote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Lote
	for _, l := range r.s.lotes {
		if l.ProdutoID == produtoID {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r *fakeLoteRepo) DefinirValidade(ctx context.Context, id string, validade time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lotes[id]
	if !ok {
		return domain.ErrNaoEncontrado
	}
	if l.Validade != nil {
		return domain.ErrConflito
	}
	v := validade
	l.Validade = &v
	return nil
}

func (r *fakeLoteRepo) Desativar(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lotes[id]
	if !ok {
		return domain.ErrNaoEncontrado
	}
	l.Ativo = false
	return nil
}
