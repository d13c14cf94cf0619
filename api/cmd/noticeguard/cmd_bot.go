package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"notice-guard/api/internal/httpserver"
	"notice-guard/api/internal/notice"
	"notice-guard/api/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot (webhook when WEBHOOK_URL is set, polling otherwise)",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {
	if cfg.TelegramBotToken == "" {
		return errors.New("missing TELEGRAM_BOT_TOKEN")
	}
	gen, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	bot.Debug = false

	r := &telegram.Router{
		Bot:      bot,
		Analyzer: notice.New(gen, notice.Options{Timeout: cfg.Timeout, Logger: logger}),
		Log:      logger,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := httpserver.NewRouter("ok")
	addr := "0.0.0.0:" + cfg.Port

	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		return startWebhookMode(ctx, addr, router, bot, r, webhookURL)
	}
	return startPollingMode(ctx, addr, router, bot, r)
}

// ---------------- Modes -----------------

func startWebhookMode(ctx context.Context, addr string, router *mux.Router, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string) error {
	// secret webhook path
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		return err
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	d := &updateDispatcher{
		ctx:    context.WithoutCancel(ctx),
		parse:  bot.HandleUpdate,
		handle: r.HandleUpdate,
	}
	router.Handle(path, d).Methods(http.MethodPost)

	logger.Info("webhook mode", zap.String("addr", addr), zap.String("path", path))
	err = httpserver.Serve(ctx, addr, router, logger)
	// let in-flight analyses send their replies before exiting
	d.Wait()
	return err
}

// updateDispatcher answers Telegram right away and runs each update in the
// background; the analysis can outlive the request. Handlers get a context
// that survives shutdown so Wait can drain them.
type updateDispatcher struct {
	ctx    context.Context
	parse  func(*http.Request) (*tgbotapi.Update, error)
	handle func(context.Context, tgbotapi.Update)

	wg sync.WaitGroup
}

func (d *updateDispatcher) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	upd, err := d.parse(req)
	if err != nil {
		logger.Warn("bad webhook update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.handle(d.ctx, *upd)
	}()
}

func (d *updateDispatcher) Wait() { d.wg.Wait() }

// startPollingMode runs the health server next to the polling loop; either
// one failing stops both.
func startPollingMode(ctx context.Context, addr string, router *mux.Router, bot *tgbotapi.BotAPI, r *telegram.Router) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Serve(gctx, addr, router, logger)
	})
	g.Go(func() error {
		logger.Info("polling mode")
		runPolling(gctx, bot, func(upd tgbotapi.Update) {
			r.HandleUpdate(gctx, upd)
		})
		return nil
	})
	return g.Wait()
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return 2 * time.Second
		}
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			logger.Info("polling stopped")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelayFromError(err), baseDelay), maxDelay)
			logger.Warn("polling error", zap.Error(err), zap.Duration("retry_in", d))
			sleep(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			sleep(ctx, 200*time.Millisecond)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// ---------------- Helpers -----------------

// shortHash is FNV-1a over the token, hex encoded; stable, not cryptographic.
func shortHash(s string) string {
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
