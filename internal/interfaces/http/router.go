package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/estoque"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/usecase"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	DepositoUC *usecase.DepositoUseCase
	ProdutoUC  *usecase.ProdutoUseCase
	Movimentar *estoque.MovimentarEstoque
	Consulta   *estoque.ConsultaEstoque
	Lotes      *estoque.LoteRegistry
	JWTSecret  string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Depósitos (protegido)
	depositos := protected.Group("/depositos")
	depositoHandler := NewDepositoHandler(deps.DepositoUC)
	depositos.Post("/", depositoHandler.Criar)
	depositos.Get("/", depositoHandler.Listar)
	depositos.Get("/:id", depositoHandler.Obter)
	depositos.Put("/:id", depositoHandler.Atualizar)

	// Produtos e lotes (protegido)
	produtos := protected.Group("/produtos")
	produtoHandler := NewProdutoHandler(deps.ProdutoUC, deps.Lotes)
	produtos.Post("/", produtoHandler.Criar)
	produtos.Get("/", produtoHandler.Listar)
	produtos.Get("/:id", produtoHandler.Obter)
	produtos.Put("/:id", produtoHandler.Atualizar)
	produtos.Get("/:id/lotes", produtoHandler.ListarLotes)
	produtos.Put("/:id/lotes/:loteId/validade", produtoHandler.DefinirValidadeLote)
	produtos.Delete("/:id/lotes/:loteId", produtoHandler.DesativarLote)

	// Estoque: movimentos e leituras (protegido)
	estoqueGroup := protected.Group("/estoque")
	estoqueHandler := NewEstoqueHandler(deps.Movimentar, deps.Consulta)
	estoqueGroup.Post("/movimentacoes", estoqueHandler.RegistrarMovimentacao)
	estoqueGroup.Get("/movimentacoes", estoqueHandler.ListarMovimentacoes)
	estoqueGroup.Get("/posicoes", estoqueHandler.ListarPosicoes)
	estoqueGroup.Get("/giro", estoqueHandler.Giro)
}
