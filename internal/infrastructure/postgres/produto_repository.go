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

var _ repository.ProdutoRepository = (*ProdutoRepo)(nil)

// ProdutoRepo implementação do repositório de produtos sobre PostgreSQL.
type ProdutoRepo struct {
	q Querier
}

func NewProdutoRepository(q Querier) *ProdutoRepo {
	return &ProdutoRepo{q: q}
}

const colunasProduto = `id, empresa_id, sku, nome, ativo, created_at, updated_at`

func (r *ProdutoRepo) Criar(ctx context.Context, p *entity.Produto) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO produtos (` + colunasProduto + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.EmpresaID, p.SKU, p.Nome, p.Ativo, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("create produto: %w", err)
	}
	return nil
}

func (r *ProdutoRepo) ObterPorID(ctx context.Context, id string) (*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE id = $1`
	return r.obterUm(ctx, query, id)
}

func (r *ProdutoRepo) ObterPorSKU(ctx context.Context, empresaID, sku string) (*entity.Produto, error) {
	query := `SELECT ` + colunasProduto + ` FROM produtos WHERE empresa_id = $1 AND sku = $2`
	return r.obterUm(ctx, query, empresaID, sku)
}

func (r *ProdutoRepo) Atualizar(ctx context.Context, p *entity.Produto) error {
	p.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE produtos
		SET sku = $3, nome = $4, ativo = $5, updated_at = $6
		WHERE id = $1 AND empresa_id = $2`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.EmpresaID, p.SKU, p.Nome, p.Ativo, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("update produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNaoEncontrado
	}
	return nil
}

func (r *ProdutoRepo) ListarPorEmpresa(ctx context.Context, empresaID string, limit, offset int) ([]*entity.Produto, error) {
	query := `
		SELECT ` + colunasProduto + `
		FROM produtos WHERE empresa_id = $1
		ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list produtos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Produto
	for rows.Next() {
		p, err := scanProduto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan produto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProdutoRepo) obterUm(ctx context.Context, query string, args ...any) (*entity.Produto, error) {
	p, err := scanProduto(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get produto: %w", err)
	}
	return p, nil
}

func scanProduto(row pgx.Row) (*entity.Produto, error) {
	var p entity.Produto
	err := row.Scan(&p.ID, &p.EmpresaID, &p.SKU, &p.Nome, &p.Ativo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
