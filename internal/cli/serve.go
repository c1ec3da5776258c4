package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"telegram-order-bot/internal/config"
	"telegram-order-bot/internal/handlers"
	"telegram-order-bot/internal/logger"
	"telegram-order-bot/internal/metrics"
	"telegram-order-bot/internal/report"
	"telegram-order-bot/internal/scheduler"
	"telegram-order-bot/internal/server"
	"telegram-order-bot/internal/session"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		Long: `Run the bot: Telegram updates (long polling, or a webhook when WEBHOOK_URL
is set), the daily summary/reset scheduler and the HTTP endpoint.

Configuration comes from the environment and an optional .env file.
BOT_TOKEN and ADMIN_CHAT_ID are required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(logLevel(cfg.LogLevel, opts.Verbose), cfg.LogFile)
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	st, err := openState(&cfg.Base, clock)
	if err != nil {
		return err
	}
	defer st.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	log.WithField("bot", bot.Self.UserName).Info("🤖 Бот авторизован")

	h := &handlers.Handler{
		Bot:      bot,
		Registry: st.registry,
		History:  st.history,
		Sessions: session.New(),
		Catalog:  st.catalog,
		Renderer: report.XLSXRenderer{},
		AdminID:  cfg.AdminChatID,
		Location: cfg.Location(),
		Clock:    clock,
		Log:      log,
	}
	metrics.ObserveRegistry(st.registry.Stats())

	summaryAt, err := scheduler.ParseTimeOfDay(cfg.SummaryTime)
	if err != nil {
		return err
	}
	resetAt, err := scheduler.ParseTimeOfDay(cfg.ResetTime)
	if err != nil {
		return err
	}
	sched, err := scheduler.New(h, st.store, scheduler.Options{
		SummaryAt: summaryAt,
		ResetAt:   resetAt,
		Location:  cfg.Location(),
		Interval:  cfg.TickInterval,
		Clock:     clock,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	gs, err := sched.Start()
	if err != nil {
		return err
	}
	defer func() { _ = gs.Shutdown() }()
	log.WithFields(logrus.Fields{
		"summary":  summaryAt,
		"reset":    resetAt,
		"timezone": cfg.Timezone,
	}).Info("⏰ Планировщик запущен")

	webhookPath := ""
	if cfg.WebhookURL != "" {
		webhookPath = cfg.WebhookPath
		if err := setWebhook(bot, cfg.WebhookURL+cfg.WebhookPath); err != nil {
			return err
		}
		log.WithField("url", cfg.WebhookURL+cfg.WebhookPath).Info("🔗 Webhook установлен")
	} else {
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.WithError(err).Warn("Не удалось удалить webhook")
		}
		go poll(bot, h)
		defer bot.StopReceivingUpdates()
		log.Info("📡 Long polling запущен")
	}

	srv := server.New(cfg.HTTPAddr, webhookPath, h, st.registry.Stats, log)
	err = srv.Run(ctx)
	log.Info("👋 Остановка")
	return err
}

func setWebhook(bot *tgbotapi.BotAPI, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if _, err := bot.Request(wh); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	return nil
}

func poll(bot *tgbotapi.BotAPI, h *handlers.Handler) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	for upd := range bot.GetUpdatesChan(updateConfig) {
		h.HandleUpdate(upd)
	}
}
