package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

var _ repository.PosicaoRepository = (*PosicaoRepo)(nil)

// PosicaoRepo implementação do Position Store sobre PostgreSQL (usável com
// pool ou tx). A escrita é condicionada ao token de versão lido.
type PosicaoRepo struct {
	q Querier
}

// NewPosicaoRepository constrói o adaptador de posições. Passar pool ou tx.
func NewPosicaoRepository(q Querier) *PosicaoRepo {
	return &PosicaoRepo{q: q}
}

const colunasPosicao = `empresa_id, produto_id, deposito_id, lote_id, quantidade, reservada, custo_medio, versao, updated_at`

// Obter devolve a posição da coordenada; se a linha não existe ainda,
// devolve a posição zerada com Versao 0 (criação preguiçosa no primeiro
// movimento).
func (r *PosicaoRepo) Obter(ctx context.Context, coord entity.Coordenada) (*entity.PosicaoEstoque, error) {
	query := `
		SELECT ` + colunasPosicao + `
		FROM posicoes_estoque
		WHERE empresa_id = $1 AND produto_id = $2 AND deposito_id = $3 AND lote_id = $4`
	pos, err := scanPosicao(r.q.QueryRow(ctx, query, coord.EmpresaID, coord.ProdutoID, coord.DepositoID, coord.LoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NovaPosicaoZerada(coord), nil
		}
		return nil, fmt.Errorf("get posicao: %w", err)
	}
	return pos, nil
}

// UpsertCondicional grava a posição somente se a versão persistida ainda for
// versaoEsperada. Com versaoEsperada 0 insere a linha (ON CONFLICT DO
// NOTHING); nos demais casos atualiza com WHERE versao = $n. Zero linhas
// afetadas = perdeu a corrida.
func (r *PosicaoRepo) UpsertCondicional(ctx context.Context, pos *entity.PosicaoEstoque, versaoEsperada int64) (bool, error) {
	coord := pos.Coordenada
	if versaoEsperada == 0 {
		query := `
			INSERT INTO posicoes_estoque (` + colunasPosicao + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
			ON CONFLICT (empresa_id, produto_id, deposito_id, lote_id) DO NOTHING`
		tag, err := r.q.Exec(ctx, query,
			coord.EmpresaID, coord.ProdutoID, coord.DepositoID, coord.LoteID,
			pos.Quantidade, pos.Reservada, pos.CustoMedio, pos.Versao,
		)
		if err != nil {
			return false, fmt.Errorf("insert posicao: %w", err)
		}
		return tag.RowsAffected() == 1, nil
	}

	query := `
		UPDATE posicoes_estoque
		SET quantidade = $5, reservada = $6, custo_medio = $7, versao = $8, updated_at = now()
		WHERE empresa_id = $1 AND produto_id = $2 AND deposito_id = $3 AND lote_id = $4
		  AND versao = $9`
	tag, err := r.q.Exec(ctx, query,
		coord.EmpresaID, coord.ProdutoID, coord.DepositoID, coord.LoteID,
		pos.Quantidade, pos.Reservada, pos.CustoMedio, pos.Versao,
		versaoEsperada,
	)
	if err != nil {
		return false, fmt.Errorf("update posicao: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListarPorProduto lista as posições de um produto em todos os depósitos.
func (r *PosicaoRepo) ListarPorProduto(ctx context.Context, empresaID, produtoID string) ([]*entity.PosicaoEstoque, error) {
	query := `
		SELECT ` + colunasPosicao + `
		FROM posicoes_estoque
		WHERE empresa_id = $1 AND produto_id = $2
		ORDER BY deposito_id, lote_id`
	rows, err := r.q.Query(ctx, query, empresaID, produtoID)
	if err != nil {
		return nil, fmt.Errorf("list posicoes por produto: %w", err)
	}
	defer rows.Close()
	return scanPosicoes(rows)
}

// ListarPorDeposito lista as posições de um depósito, paginado.
func (r *PosicaoRepo) ListarPorDeposito(ctx context.Context, empresaID, depositoID string, limit, offset int) ([]*entity.PosicaoEstoque, error) {
	query := `
		SELECT ` + colunasPosicao + `
		FROM posicoes_estoque
		WHERE empresa_id = $1 AND deposito_id = $2
		ORDER BY produto_id, lote_id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, empresaID, depositoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posicoes por deposito: %w", err)
	}
	defer rows.Close()
	return scanPosicoes(rows)
}

func scanPosicao(row pgx.Row) (*entity.PosicaoEstoque, error) {
	var p entity.PosicaoEstoque
	err := row.Scan(
		&p.Coordenada.EmpresaID, &p.Coordenada.ProdutoID, &p.Coordenada.DepositoID, &p.Coordenada.LoteID,
		&p.Quantidade, &p.Reservada, &p.CustoMedio, &p.Versao, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPosicoes(rows pgx.Rows) ([]*entity.PosicaoEstoque, error) {
	var list []*entity.PosicaoEstoque
	for rows.Next() {
		p, err := scanPosicao(rows)
		if err != nil {
			return nil, fmt.Errorf("scan posicao: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
