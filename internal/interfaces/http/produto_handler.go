package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/dto"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/estoque"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/usecase"
)

// ProdutoHandler atende as requisições HTTP de produtos e seus lotes
// (protegido).
type ProdutoHandler struct {
	uc    *usecase.ProdutoUseCase
	lotes *estoque.LoteRegistry
}

// NewProdutoHandler constrói o handler.
func NewProdutoHandler(uc *usecase.ProdutoUseCase, lotes *estoque.LoteRegistry) *ProdutoHandler {
	return &ProdutoHandler{uc: uc, lotes: lotes}
}

// Criar godoc
// @Summary      Criar produto
// @Tags         produtos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProdutoRequest  true  "sku, nome"
// @Success      201  {object}  dto.ProdutoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/produtos [post]
func (h *ProdutoHandler) Criar(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateProdutoRequest
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
// @Summary      Obter produto por id
// @Tags         produtos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Produto (UUID)"
// @Success      200  {object}  dto.ProdutoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/produtos/{id} [get]
func (h *ProdutoHandler) Obter(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	resp, err := h.uc.ObterPorID(c.Context(), empresaID, c.Params("id"))
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	return c.JSON(resp)
}

// Atualizar godoc
// @Summary      Atualizar produto
// @Tags         produtos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Produto (UUID)"
// @Param        body  body  dto.UpdateProdutoRequest  true  "campos opcionais"
// @Success      200  {object}  dto.ProdutoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/produtos/{id} [put]
func (h *ProdutoHandler) Atualizar(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	var in dto.UpdateProdutoRequest
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
// @Summary      Listar produtos da empresa
// @Tags         produtos
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamanho da página (padrão 20, máx 100)"
// @Param        offset  query  int  false  "Deslocamento"
// @Success      200  {array}  dto.ProdutoResponse
// @Router       /api/produtos [get]
func (h *ProdutoHandler) Listar(c *fiber.Ctx) error {
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

// ListarLotes godoc
// @Summary      Listar lotes de um produto
// @Tags         lotes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Produto (UUID)"
// @Success      200  {array}   dto.LoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/produtos/{id}/lotes [get]
func (h *ProdutoHandler) ListarLotes(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	produtoID := c.Params("id")
	// confere que o produto pertence à empresa antes de expor os lotes
	if _, err := h.uc.ObterPorID(c.Context(), empresaID, produtoID); err != nil {
		return respostaErroEstoque(c, err)
	}
	list, err := h.lotes.ListarPorProduto(c.Context(), produtoID)
	if err != nil {
		return respostaErroEstoque(c, err)
	}
	out := make([]dto.LoteResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.DeLote(l))
	}
	return c.JSON(out)
}

// DefinirValidadeLote godoc
// @Summary      Gravar a validade de um lote criado sem data
// @Description  A validade pode ser preenchida uma única vez; alterar uma data
//
//	já gravada devolve 409.
//
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "Produto (UUID)"
// @Param        loteId  path  string  true  "Lote (UUID)"
// @Param        body    body  object  true  "{\"validade\": \"RFC3339\"}"
// @Success      204  "validade gravada"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/produtos/{id}/lotes/{loteId}/validade [put]
func (h *ProdutoHandler) DefinirValidadeLote(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if _, err := h.uc.ObterPorID(c.Context(), empresaID, c.Params("id")); err != nil {
		return respostaErroEstoque(c, err)
	}
	var body struct {
		Validade time.Time `json:"validade"`
	}
	if err := c.BodyParser(&body); err != nil || body.Validade.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "validade obrigatória (RFC3339)"})
	}
	if err := h.lotes.DefinirValidade(c.Context(), c.Params("loteId"), body.Validade); err != nil {
		return respostaErroEstoque(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DesativarLote godoc
// @Summary      Desativar um lote (soft delete)
// @Tags         lotes
// @Security     Bearer
// @Param        id      path  string  true  "Produto (UUID)"
// @Param        loteId  path  string  true  "Lote (UUID)"
// @Success      204  "lote desativado"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/produtos/{id}/lotes/{loteId} [delete]
func (h *ProdutoHandler) DesativarLote(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if _, err := h.uc.ObterPorID(c.Context(), empresaID, c.Params("id")); err != nil {
		return respostaErroEstoque(c, err)
	}
	if err := h.lotes.Desativar(c.Context(), c.Params("loteId")); err != nil {
		return respostaErroEstoque(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
