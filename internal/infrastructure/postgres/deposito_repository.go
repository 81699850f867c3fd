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

var _ repository.DepositoRepository = (*DepositoRepo)(nil)

// DepositoRepo implementação do repositório de depósitos sobre PostgreSQL.
type DepositoRepo struct {
	q Querier
}

func NewDepositoRepository(q Querier) *DepositoRepo {
	return &DepositoRepo{q: q}
}

const colunasDeposito = `id, empresa_id, codigo, nome, endereco, created_at, updated_at`

func (r *DepositoRepo) Criar(ctx context.Context, d *entity.Deposito) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `
		INSERT INTO depositos (` + colunasDeposito + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.EmpresaID, d.Codigo, d.Nome, d.Endereco, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("create deposito: %w", err)
	}
	return nil
}

func (r *DepositoRepo) ObterPorID(ctx context.Context, id string) (*entity.Deposito, error) {
	query := `SELECT ` + colunasDeposito + ` FROM depositos WHERE id = $1`
	d, err := scanDeposito(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposito: %w", err)
	}
	return d, nil
}

func (r *DepositoRepo) Atualizar(ctx context.Context, d *entity.Deposito) error {
	d.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE depositos
		SET codigo = $3, nome = $4, endereco = $5, updated_at = $6
		WHERE id = $1 AND empresa_id = $2`
	tag, err := r.q.Exec(ctx, query,
		d.ID, d.EmpresaID, d.Codigo, d.Nome, d.Endereco, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("update deposito: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNaoEncontrado
	}
	return nil
}

func (r *DepositoRepo) ListarPorEmpresa(ctx context.Context, empresaID string, limit, offset int) ([]*entity.Deposito, error) {
	query := `
		SELECT ` + colunasDeposito + `
		FROM depositos WHERE empresa_id = $1
		ORDER BY codigo LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list depositos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deposito
	for rows.Next() {
		d, err := scanDeposito(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deposito: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDeposito(row pgx.Row) (*entity.Deposito, error) {
	var d entity.Deposito
	err := row.Scan(&d.ID, &d.EmpresaID, &d.Codigo, &d.Nome, &d.Endereco, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
