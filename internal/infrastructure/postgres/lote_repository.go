package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

// LoteRepo implementação do registro de lotes sobre PostgreSQL.
type LoteRepo struct {
	q Querier
}

func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

const colunasLote = `id, produto_id, codigo, validade, ativo, created_at`

// Criar insere um lote novo. Código duplicado dentro do produto devolve
// domain.ErrDuplicado.
func (r *LoteRepo) Criar(ctx context.Context, lote *entity.Lote) error {
	if lote.ID == "" {
		lote.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lotes (` + colunasLote + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		lote.ID, lote.ProdutoID, lote.Codigo, lote.Validade, lote.Ativo, lote.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("create lote: %w", err)
	}
	return nil
}

func (r *LoteRepo) ObterPorID(ctx context.Context, id string) (*entity.Lote, error) {
	query := `SELECT ` + colunasLote + ` FROM lotes WHERE id = $1`
	return r.obterUm(ctx, query, id)
}

func (r *LoteRepo) ObterPorCodigo(ctx context.Context, produtoID, codigo string) (*entity.Lote, error) {
	query := `SELECT ` + colunasLote + ` FROM lotes WHERE produto_id = $1 AND codigo = $2`
	return r.obterUm(ctx, query, produtoID, codigo)
}

func (r *LoteRepo) ListarPorProduto(ctx context.Context, produtoID string) ([]*entity.Lote, error) {
	query := `
		SELECT ` + colunasLote + `
		FROM lotes WHERE produto_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, produtoID)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lote
	for rows.Next() {
		l, err := scanLote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// DefinirValidade grava a validade apenas se ela ainda não existe: o WHERE
// validade IS NULL faz a escrita ser first-writer-wins.
func (r *LoteRepo) DefinirValidade(ctx context.Context, id string, validade time.Time) error {
	query := `UPDATE lotes SET validade = $2 WHERE id = $1 AND validade IS NULL`
	tag, err := r.q.Exec(ctx, query, id, validade)
	if err != nil {
		return fmt.Errorf("set validade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existente, err := r.ObterPorID(ctx, id)
		if err != nil {
			return err
		}
		if existente == nil {
			return domain.ErrNaoEncontrado
		}
		return domain.ErrConflito
	}
	return nil
}

func (r *LoteRepo) Desativar(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE lotes SET ativo = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNaoEncontrado
	}
	return nil
}

func (r *LoteRepo) obterUm(ctx context.Context, query string, args ...any) (*entity.Lote, error) {
	l, err := scanLote(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return l, nil
}

func scanLote(row pgx.Row) (*entity.Lote, error) {
	var l entity.Lote
	err := row.Scan(&l.ID, &l.ProdutoID, &l.Codigo, &l.Validade, &l.Ativo, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
