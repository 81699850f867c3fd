package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/estoque"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/usecase"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/interfaces/http"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/pkg/config"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	produtoRepo := postgres.NewProdutoRepository(pool)
	depositoRepo := postgres.NewDepositoRepository(pool)
	loteRepo := postgres.NewLoteRepository(pool)
	posicaoRepo := postgres.NewPosicaoRepository(pool)
	movimentacaoRepo := postgres.NewMovimentacaoRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	loteRegistry := estoque.NewLoteRegistry(loteRepo, produtoRepo)
	movimentarUC := estoque.NewMovimentarEstoque(txRunner, produtoRepo, depositoRepo, loteRegistry, log)
	consultaUC := estoque.NewConsultaEstoque(posicaoRepo, movimentacaoRepo)
	depositoUC := usecase.NewDepositoUseCase(depositoRepo)
	produtoUC := usecase.NewProdutoUseCase(produtoRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Controle de Estoque API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DepositoUC: depositoUC,
		ProdutoUC:  produtoUC,
		Movimentar: movimentarUC,
		Consulta:   consultaUC,
		Lotes:      loteRegistry,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação parada")
}
