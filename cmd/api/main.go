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
	"github.com/tallerpro/stock-api/internal/application/auth"
	"github.com/tallerpro/stock-api/internal/application/catalog"
	"github.com/tallerpro/stock-api/internal/application/reporting"
	"github.com/tallerpro/stock-api/internal/application/stock"
	"github.com/tallerpro/stock-api/internal/infrastructure/notify"
	infrapdf "github.com/tallerpro/stock-api/internal/infrastructure/pdf"
	"github.com/tallerpro/stock-api/internal/infrastructure/postgres"
	"github.com/tallerpro/stock-api/internal/infrastructure/recommender"
	httpRouter "github.com/tallerpro/stock-api/internal/interfaces/http"
	"github.com/tallerpro/stock-api/pkg/config"
	"github.com/tallerpro/stock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	partRepo := postgres.NewPartRepository(pool)
	itemRepo := postgres.NewInventoryItemRepository(pool)
	movRepo := postgres.NewInventoryMovementRepository(pool)
	orderRepo := postgres.NewServiceOrderRepository(pool)
	availRepo := postgres.NewAvailabilityRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Sink de alertas: webhook si hay URL configurada, descarte si no.
	var notifier stock.AlertNotifier
	if cfg.Alerts.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Alerts.WebhookURL, cfg.Alerts.Timeout)
		log.Info().Str("webhook", cfg.Alerts.WebhookURL).Msg("alertas de stock bajo vía webhook")
	} else {
		notifier = notify.NewDiscardNotifier()
		log.Info().Msg("alertas de stock bajo desactivadas (sin ALERT_WEBHOOK_URL)")
	}
	alertTrigger := stock.NewAlertTrigger(notifier, log.Component("alerts"), cfg.Alerts.Timeout)

	stockUC := stock.NewUseCase(txRunner, itemRepo, movRepo, partRepo, orderRepo, alertTrigger)
	partUC := catalog.NewPartUseCase(partRepo)

	// Recomendador remoto: opcional; sin BaseURL el advisor rankea localmente.
	var (
		remote    stock.RankStrategy
		publisher stock.ConsumptionPublisher
	)
	if cfg.Recommender.BaseURL != "" {
		client := recommender.NewClient(cfg.Recommender.BaseURL, cfg.Recommender.Timeout)
		remote = client
		publisher = client
		log.Info().Str("base_url", cfg.Recommender.BaseURL).Msg("recomendador remoto habilitado")
	}
	advisor := stock.NewAdvisor(itemRepo, availRepo, remote, publisher, log.Component("advisor"))

	pdfGenerator := infrapdf.NewStockReportGenerator()
	reportingUC := reporting.NewAvailabilityUseCase(availRepo, itemRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taller Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PartUC:    partUC,
		StockUC:   stockUC,
		Advisor:   advisor,
		Reporting: reportingUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
	})

	// Job de sincronización de historial hacia el recomendador.
	syncCtx, stopSync := context.WithCancel(ctx)
	defer stopSync()
	if publisher != nil {
		go runHistorySync(syncCtx, advisor, availRepo, cfg.Recommender.SyncInterval, log.Component("history-sync"))
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSync()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runHistorySync publica periódicamente el historial de consumo de cada
// organización con actividad reciente. Best-effort: los fallos se loguean y se
// reintenta en el siguiente tick.
func runHistorySync(
	ctx context.Context,
	advisor *stock.Advisor,
	availRepo *postgres.AvailabilityRepo,
	interval time.Duration,
	log *logger.Logger,
) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			orgs, err := availRepo.ListActiveOrgs(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("listar organizaciones activas")
				continue
			}
			for _, orgID := range orgs {
				if err := advisor.PublishHistory(ctx, orgID); err != nil {
					log.Warn().Err(err).Str("org_id", orgID).Msg("publicar historial de consumo")
				}
			}
		}
	}
}
