package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/dto"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/estoque"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/entity"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/domain/repository"
)

// EstoqueHandler atende as requisições HTTP do ledger de estoque (protegido).
type EstoqueHandler struct {
	movimentar *estoque.MovimentarEstoque
	consulta   *estoque.ConsultaEstoque
}

// NewEstoqueHandler constrói o handler.
func NewEstoqueHandler(movimentar *estoque.MovimentarEstoque, consulta *estoque.ConsultaEstoque) *EstoqueHandler {
	return &EstoqueHandler{movimentar: movimentar, consulta: consulta}
}

// RegistrarMovimentacao godoc
// @Summary      Registrar movimentação de estoque
// @Tags         estoque
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarMovimentacaoRequest  true  "produto_id, deposito_id (e deposito_destino_id para TRANSFERENCIA), tipo, quantidade, custo_unitario (entradas)"
// @Success      201   {object}  dto.ResultadoMovimentacaoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/estoque/movimentacoes [post]
func (h *EstoqueHandler) RegistrarMovimentacao(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	usuarioID := GetUsuarioID(c)
	if empresaID == "" || usuarioID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.RegistrarMovimentacaoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resultado, err := h.movimentar.Aplicar(c.Context(), req.ParaInput(empresaID, usuarioID))
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DeResultado(resultado))
}

// ListarPosicoes godoc
// @Summary      Posições de estoque de um produto
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        produto_id   query  string  true   "Produto (UUID)"
// @Param        deposito_id  query  string  false  "Restringe a um depósito; com lote_id devolve a posição exata"
// @Param        lote_id      query  string  false  "Lote dentro do depósito"
// @Success      200  {array}   dto.PosicaoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/estoque/posicoes [get]
func (h *EstoqueHandler) ListarPosicoes(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	produtoID := c.Query("produto_id")
	depositoID := c.Query("deposito_id")

	if depositoID != "" {
		coord := entity.Coordenada{
			EmpresaID:  empresaID,
			ProdutoID:  produtoID,
			DepositoID: depositoID,
			LoteID:     c.Query("lote_id"),
		}
		pos, err := h.consulta.PosicaoPorCoordenada(c.Context(), coord)
		if err != nil {
			return respostaErroEstoque(c, err)
		}
		return c.JSON([]dto.PosicaoResponse{dto.DePosicao(pos)})
	}

	posicoes, err := h.consulta.PosicoesPorProduto(c.Context(), empresaID, produtoID)
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	out := make([]dto.PosicaoResponse, 0, len(posicoes))
	for _, p := range posicoes {
		out = append(out, dto.DePosicao(p))
	}
	return c.JSON(out)
}

// ListarMovimentacoes godoc
// @Summary      Histórico de movimentações
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        produto_id   query  string  false  "Filtrar por produto"
// @Param        deposito_id  query  string  false  "Filtrar por depósito"
// @Param        lote_id      query  string  false  "Filtrar por lote"
// @Param        tipo         query  string  false  "ENTRADA, SAIDA, TRANSFERENCIA, AJUSTE, RESERVA, LIBERACAO, CONSUMO"
// @Param        referencia   query  string  false  "Filtrar por documento de referência"
// @Param        de           query  string  false  "Início do período (RFC3339)"
// @Param        ate          query  string  false  "Fim do período (RFC3339)"
// @Param        limit        query  int     false  "Tamanho da página (padrão 50)"
// @Param        offset       query  int     false  "Deslocamento"
// @Success      200  {array}   dto.MovimentacaoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/estoque/movimentacoes [get]
func (h *EstoqueHandler) ListarMovimentacoes(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filtro := repository.FiltroMovimentacao{
		EmpresaID:  empresaID,
		ProdutoID:  c.Query("produto_id"),
		DepositoID: c.Query("deposito_id"),
		LoteID:     c.Query("lote_id"),
		Tipo:       entity.TipoMovimentacao(c.Query("tipo")),
		Referencia: c.Query("referencia"),
	}
	if filtro.Tipo != "" && !filtro.Tipo.Valido() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de movimentação desconhecido"})
	}
	var err error
	if filtro.De, err = parseTempo(c.Query("de")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parâmetro 'de' inválido (RFC3339)"})
	}
	if filtro.Ate, err = parseTempo(c.Query("ate")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parâmetro 'ate' inválido (RFC3339)"})
	}
	filtro.Limit, _ = strconv.Atoi(c.Query("limit"))
	filtro.Offset, _ = strconv.Atoi(c.Query("offset"))

	movs, err := h.consulta.Movimentacoes(c.Context(), filtro)
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	out := make([]dto.MovimentacaoResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.DeMovimentacao(m))
	}
	return c.JSON(out)
}

// Giro godoc
// @Summary      Giro de estoque de um produto no período
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        produto_id  query  string  true  "Produto (UUID)"
// @Param        de          query  string  true  "Início do período (RFC3339)"
// @Param        ate         query  string  true  "Fim do período (RFC3339)"
// @Success      200  {object}  dto.GiroEstoqueResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/estoque/giro [get]
func (h *EstoqueHandler) Giro(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	de, err := time.Parse(time.RFC3339, c.Query("de"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parâmetro 'de' inválido (RFC3339)"})
	}
	ate, err := time.Parse(time.RFC3339, c.Query("ate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parâmetro 'ate' inválido (RFC3339)"})
	}
	giro, err := h.consulta.Giro(c.Context(), empresaID, c.Query("produto_id"), de, ate)
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	return c.JSON(dto.DeGiro(giro))
}

func parseTempo(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// respostaErroEstoque traduz o erro de domínio para o status e o corpo HTTP,
// incluindo os detalhes estruturados quando o erro os carrega.
func respostaErroEstoque(c *fiber.Ctx, err error) error {
	var faltaEstoque *domain.EstoqueInsuficienteError
	if errors.As(err, &faltaEstoque) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: "estoque insuficiente",
			Detalhes: map[string]string{
				"coordenada": faltaEstoque.Coordenada,
				"solicitada": faltaEstoque.Solicitada.String(),
				"disponivel": faltaEstoque.Disponivel.String(),
			},
		})
	}
	var faltaReserva *domain.ReservaInsuficienteError
	if errors.As(err, &faltaReserva) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_RESERVATION", Message: "quantidade reservada insuficiente",
			Detalhes: map[string]string{
				"coordenada": faltaReserva.Coordenada,
				"solicitada": faltaReserva.Solicitada.String(),
				"reservada":  faltaReserva.Reservada.String(),
			},
		})
	}
	var conflito *domain.ConflitoVersaoError
	if errors.As(err, &conflito) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "CONFLICT", Message: "contenção de escrita; tente novamente",
			Detalhes: map[string]string{
				"coordenada": conflito.Coordenada,
				"tentativas": strconv.Itoa(conflito.Tentativas),
			},
		})
	}
	switch {
	case errors.Is(err, domain.ErrEntradaInvalida), errors.Is(err, domain.ErrTransferenciaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNaoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrAcessoNegado):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	case errors.Is(err, domain.ErrDuplicado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflito):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
