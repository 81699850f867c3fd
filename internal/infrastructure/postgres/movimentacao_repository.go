package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

var _ repository.MovimentacaoRepository = (*MovimentacaoRepo)(nil)

// MovimentacaoRepo implementação do log de movimentos sobre PostgreSQL
// (usável com pool ou tx). Append-only: não há UPDATE nem DELETE aqui.
type MovimentacaoRepo struct {
	q Querier
}

// NewMovimentacaoRepository constrói o adaptador. Passar pool ou tx.
func NewMovimentacaoRepository(q Querier) *MovimentacaoRepo {
	return &MovimentacaoRepo{q: q}
}

const colunasMovimentacao = `id, transacao_id, empresa_id, produto_id, deposito_id, lote_id, deposito_contra_id, tipo, quantidade, custo_unitario, custo_total, referencia, meta, data, criado_por, created_at`

// Criar apensa um movimento ao log.
func (r *MovimentacaoRepo) Criar(ctx context.Context, m *entity.Movimentacao) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimentacoes (` + colunasMovimentacao + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransacaoID, m.EmpresaID, m.ProdutoID, m.DepositoID, m.LoteID,
		m.DepositoContraID, string(m.Tipo), m.Quantidade, m.CustoUnitario,
		m.CustoTotal, m.Referencia, m.Meta, m.Data, m.CriadoPor, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("create movimentacao: %w", err)
	}
	return nil
}

// ObterPorID obtém um movimento por id, dentro da empresa.
func (r *MovimentacaoRepo) ObterPorID(ctx context.Context, empresaID, id string) (*entity.Movimentacao, error) {
	query := `
		SELECT ` + colunasMovimentacao + `
		FROM movimentacoes WHERE empresa_id = $1 AND id = $2`
	m, err := scanMovimentacao(r.q.QueryRow(ctx, query, empresaID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimentacao: %w", err)
	}
	return m, nil
}

// Listar lista movimentos pelo filtro; campos vazios são ignorados.
func (r *MovimentacaoRepo) Listar(ctx context.Context, filtro repository.FiltroMovimentacao) ([]*entity.Movimentacao, error) {
	query := `
		SELECT ` + colunasMovimentacao + `
		FROM movimentacoes WHERE empresa_id = $1`
	args := []any{filtro.EmpresaID}
	pos := 2
	add := func(cond string, val any) {
		query += fmt.Sprintf(" AND %s $%d", cond, pos)
		args = append(args, val)
		pos++
	}
	if filtro.ProdutoID != "" {
		add("produto_id =", filtro.ProdutoID)
	}
	if filtro.DepositoID != "" {
		add("deposito_id =", filtro.DepositoID)
	}
	if filtro.LoteID != "" {
		add("lote_id =", filtro.LoteID)
	}
	if filtro.Tipo != "" {
		add("tipo =", string(filtro.Tipo))
	}
	if filtro.Referencia != "" {
		add("referencia =", filtro.Referencia)
	}
	if filtro.De != nil {
		add("data >=", *filtro.De)
	}
	if filtro.Ate != nil {
		add("data <=", *filtro.Ate)
	}
	ordem := "DESC"
	if filtro.Cronologica {
		ordem = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY data %s, created_at %s LIMIT $%d OFFSET $%d", ordem, ordem, pos, pos+1)
	args = append(args, filtro.Limit, filtro.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimentacoes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movimentacao
	for rows.Next() {
		m, err := scanMovimentacao(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimentacao: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovimentacao(row pgx.Row) (*entity.Movimentacao, error) {
	var m entity.Movimentacao
	var tipo string
	err := row.Scan(
		&m.ID, &m.TransacaoID, &m.EmpresaID, &m.ProdutoID, &m.DepositoID, &m.LoteID,
		&m.DepositoContraID, &tipo, &m.Quantidade, &m.CustoUnitario,
		&m.CustoTotal, &m.Referencia, &m.Meta, &m.Data, &m.CriadoPor, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Tipo = entity.TipoMovimentacao(tipo)
	return &m, nil
}
