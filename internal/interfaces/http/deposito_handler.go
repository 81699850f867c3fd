package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/dto"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/usecase"
)

// DepositoHandler atende as requisições HTTP de depósitos (protegido).
type DepositoHandler struct {
	uc *usecase.DepositoUseCase
}

// NewDepositoHandler constrói o handler.
func NewDepositoHandler(uc *usecase.DepositoUseCase) *DepositoHandler {
	return &DepositoHandler{uc: uc}
}

// Criar godoc
// @Summary      Criar depósito
// @Tags         depositos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepositoRequest  true  "codigo, nome, endereco"
// @Success      201  {object}  dto.DepositoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/depositos [post]
func (h *DepositoHandler) Criar(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDepositoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.Criar(c.Context(), empresaID, in)
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Obter godoc
// @Summary      Obter depósito por id
// @Tags         depositos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Depósito (UUID)"
// @Success      200  {object}  dto.DepositoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/depositos/{id} [get]
func (h *DepositoHandler) Obter(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	resp, err := h.uc.ObterPorID(c.Context(), empresaID, c.Params("id"))
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	return c.JSON(resp)
}

// Atualizar godoc
// @Summary      Atualizar depósito
// @Tags         depositos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Depósito (UUID)"
// @Param        body  body  dto.UpdateDepositoRequest  true  "campos opcionais"
// @Success      200  {object}  dto.DepositoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/depositos/{id} [put]
func (h *DepositoHandler) Atualizar(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	var in dto.UpdateDepositoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.Atualizar(c.Context(), empresaID, c.Params("id"), in)
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	return c.JSON(resp)
}

// Listar godoc
// @Summary      Listar depósitos da empresa
// @Tags         depositos
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamanho da página (padrão 20, máx 100)"
// @Param        offset  query  int  false  "Deslocamento"
// @Success      200  {array}  dto.DepositoResponse
// @Router       /api/depositos [get]
func (h *DepositoHandler) Listar(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	items, err := h.uc.Listar(c.Context(), empresaID, page)
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	return c.JSON(items)
}
