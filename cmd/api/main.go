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
	"github.com/robfig/cron/v3"

	"github.com/vilofleet/flota-api/internal/application/auth"
	"github.com/vilofleet/flota-api/internal/application/brokers"
	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/internal/application/requests"
	infrumail "github.com/vilofleet/flota-api/internal/infrastructure/mail"
	infrapdf "github.com/vilofleet/flota-api/internal/infrastructure/pdf"
	"github.com/vilofleet/flota-api/internal/infrastructure/postgres"
	httpRouter "github.com/vilofleet/flota-api/internal/interfaces/http"
	"github.com/vilofleet/flota-api/pkg/config"
	"github.com/vilofleet/flota-api/pkg/logger"
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

	requestRepo := postgres.NewVehicleRequestRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	inviteRepo := postgres.NewEmployeeInviteRepository(pool)
	verificationRepo := postgres.NewVerificationRepository(pool)
	brokerRepo := postgres.NewBrokerRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	listener := postgres.NewListener(pool, log)

	mailer := infrumail.NewGomailMailer(cfg.SMTP, log)
	links := invites.Links{BaseURL: cfg.App.BaseURL}
	inviteTTL := time.Duration(cfg.Invite.TTLHours) * time.Hour

	requestUC := requests.NewUseCase(requestRepo, companyRepo, userRepo, txRunner, log)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	requestPDFUC := requests.NewPDFUseCase(requestRepo, companyRepo, pdfGenerator)

	companyInviteUC := invites.NewCompanyInviteUseCase(
		companyRepo, verificationRepo, userRepo, brokerRepo,
		txRunner, mailer, links, inviteTTL, log,
	)
	employeeInviteUC := invites.NewEmployeeInviteUseCase(inviteRepo, userRepo, mailer, links, log)
	rosterWatcher := invites.NewRosterWatcher(employeeInviteUC, listener, log)

	brokerAgg := brokers.NewAggregator(brokerRepo, companyRepo, customerRepo, requestRepo, log)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Barrido horario de tokens de verificación vencidos sin consumir.
	sweeper := cron.New()
	_, err = sweeper.AddFunc("@hourly", func() {
		n, err := companyInviteUC.SweepExpired(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("barrido de tokens vencidos")
			return
		}
		if n > 0 {
			log.Info().Int64("deleted", n).Msg("tokens de verificación vencidos eliminados")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("programar barrido de tokens")
	}
	sweeper.Start()
	defer sweeper.Stop()

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
		Title:    "VILOFLEET API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RequestUC:    requestUC,
		RequestPDFUC: requestPDFUC,
		CompanyUC:    companyInviteUC,
		EmployeeUC:   employeeInviteUC,
		Watcher:      rosterWatcher,
		BrokerAgg:    brokerAgg,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
