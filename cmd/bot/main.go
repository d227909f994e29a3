// File: cmd/bot/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/application"
	"github.com/Sanjay-off/telegram-filebot/internal/config"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
	pg "github.com/Sanjay-off/telegram-filebot/internal/infra/db/postgres"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/logging"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/metrics"
	red "github.com/Sanjay-off/telegram-filebot/internal/infra/redis"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/sched"
	tele "github.com/Sanjay-off/telegram-filebot/internal/infra/telegram"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/verification"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/web"
	"github.com/Sanjay-off/telegram-filebot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode (console logs, always-approve verification)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)
	wizardRepo := red.NewWizardRepo(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	settingsRepo := pg.NewSettingsRepo(pool)

	// ---- Telegram ----
	bot, err := tele.NewBot(&cfg.Bot, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	membership := tele.NewMembershipChecker(bot)

	// ---- Verification checker ----
	var verifier adapter.VerificationChecker
	switch strings.ToLower(cfg.Verification.Mode) {
	case "external":
		verifier = verification.NewExternalCheck(cfg.Verification.Endpoint, cfg.Verification.Timeout)
		logger.Info().Str("endpoint", cfg.Verification.Endpoint).Msg("verification: external check")
	default:
		verifier = verification.NewAlwaysApprove()
		logger.Warn().Msg("verification: always-approve stub enabled")
	}

	// ---- Use cases ----
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, logger)
	gateUC := usecase.NewAccessGateUseCase(userRepo, settingsUC, membership, verifier, cfg.Bot.ForceSubChannels, logger)
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, userRepo, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, logger)
	templateUC := usecase.NewTemplateUseCase(wizardRepo, cfg.Bot.Username, logger)

	// ---- Lifecycle manager ----
	deleter := sched.NewDeleter(bot, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(
		gateUC, paymentUC, settingsUC, statsUC, templateUC, userRepo,
		bot, deleter, locker, rateLimiter,
		application.FacadeConfig{
			BotUsername:   cfg.Bot.Username,
			AdminIDs:      cfg.Bot.AdminIDs,
			StorageFileID: cfg.Bot.StorageFileID,
			UPIID:         cfg.Payment.UPIID,
			PlanName:      cfg.Payment.PlanName,
			PlanAmount:    cfg.Payment.Amount,
		},
		logger,
	)
	bot.SetFacade(facade)

	// ---- Metrics + admin API ----
	metrics.MustRegister()
	auth := web.NewAuthManager(cfg.Web.JWTSecret, 30*time.Minute)
	adminSrv := web.NewServer(settingsUC, statsUC, auth, cfg.Web.Port, logger)
	go func() {
		if err := adminSrv.Start(); err != nil {
			logger.Error().Err(err).Msg("admin API stopped")
		}
	}()

	go func() {
		if err := bot.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()
	logger.Info().Str("username", cfg.Bot.Username).Msg("bot started")

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")
	cancel()
	bot.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("admin API shutdown")
	}
	// Give imminent deletions a moment; timers do not survive a restart, so
	// shutdown never waits out a full deletion delay.
	if !deleter.WaitTimeout(5 * time.Second) {
		logger.Warn().Msg("abandoning pending deletions")
	}
}
