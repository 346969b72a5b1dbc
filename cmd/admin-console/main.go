// cmd/admin-console/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"estate-admin/internal/chat"
	"estate-admin/internal/common/auth"
	"estate-admin/internal/common/cache"
	"estate-admin/internal/common/config"
	httpclient "estate-admin/internal/common/http"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/common/observability"
	"estate-admin/internal/dataaccess"
	"estate-admin/internal/models"
	"estate-admin/internal/store"
	"estate-admin/internal/views/notice"

	af "estate-admin/internal/views/active-franchisees"
	fd "estate-admin/internal/views/franchisee-dashboard"
	pr "estate-admin/internal/views/pending-requests"
)

const usage = `usage: admin-console [-config path] [-metrics-addr addr] <command> [flags]

commands:
  requests     list franchisee requests (terminated entries are never shown)
  pending      list pending requests
  approve      approve a pending request
  reject       reject a pending request
  terminate    terminate an approved franchisee
  delete       delete an approved franchisee
  stats        show request counts per status
  export       write the franchisee report as CSV
  districts    list districts
  resources    ads|coupons|plans|properties list|activate|deactivate|delete
  dashboard    show landing-page counters
  chat         join a chat room; stdin lines are sent as messages
`

// app holds everything a command may need, built once from config.
type app struct {
	cfg    *config.Config
	log    logger.Logger
	out    io.Writer
	notify notice.Notifier

	redis     *cache.RedisClient
	districts *dataaccess.DistrictService
	local     *cache.Local
	tokens    auth.TokenSource
	obs       *observability.Observability

	franchisees *store.FranchiseeSlice
	ads         *store.ResourceSlice[models.Advertisement]
	coupons     *store.ResourceSlice[models.Coupon]
	plans       *store.ResourceSlice[models.SubscriptionPlan]
	properties  *store.ResourceSlice[models.Property]
	dashboard   *store.DashboardSlice

	pending *pr.Handler
	active  *af.Handler
	report  *fd.Handler
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	configPath := flag.String("config", "", "path to a config file (default: configs/config.yaml)")
	metricsAddr := flag.String("metrics-addr", "", "serve /health and /metrics on this address")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{"app": cfg.App.Name})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log, os.Stdout)
	if err != nil {
		zapLog.Fatal("console init failed", zap.Error(err))
	}
	defer a.Close()

	addr := *metricsAddr
	if addr == "" {
		addr = cfg.Metrics.Address
	}
	if addr != "" {
		srv := startMetricsServer(addr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Error("command failed", map[string]interface{}{"command": flag.Arg(0), "error": err.Error()})
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		a.Close()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*app, error) {
	tokens, err := auth.NewTokenSource(cfg.Auth)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		out:    out,
		tokens: tokens,
		obs:    observability.New(cfg.Metrics.ServiceName),
	}
	a.notify = notice.Multi{notice.NewLogNotifier(log), &printNotifier{out: out}}

	opts := []store.Option{store.WithLogger(log), store.WithRecorder(a.obs)}

	if cfg.Cache.Redis.Enabled {
		a.redis = cache.NewRedis(cfg.Cache.Redis)
		err = retryWithBackoff(func() error {
			return a.redis.Ping(ctx)
		}, 3, 500*time.Millisecond, log, "Redis connection")
		if err != nil {
			log.Warn("continuing without snapshots", map[string]interface{}{
				"redis": cfg.Cache.Redis.GetAddr(),
				"error": err.Error(),
			})
			_ = a.redis.Close()
			a.redis = nil
		} else {
			snapshots := cache.NewRedisSnapshots(a.redis, cfg.Cache.Redis.KeyPrefix, config.GetSeconds(cfg.Cache.Redis.TTL))
			opts = append(opts, store.WithSnapshots(snapshots))
		}
	}

	a.local, err = cache.NewLocal(cfg.Cache.Districts.MaxCost)
	if err != nil {
		return nil, fmt.Errorf("district cache: %w", err)
	}

	client := httpclient.NewClient(
		cfg.API.BaseURL,
		config.GetDuration(cfg.API.Timeout),
		tokens,
		log,
		httpclient.WithUserAgent(cfg.API.UserAgent),
	)

	franchiseeSvc := dataaccess.NewFranchiseeService(client, log)
	a.districts = dataaccess.NewDistrictService(client, a.local, config.GetSeconds(cfg.Cache.Districts.TTL), log)

	a.franchisees = store.NewFranchiseeSlice(franchiseeSvc, opts...)
	a.ads = store.NewResourceSlice[models.Advertisement](dataaccess.NewAdvertisementService(client), opts...)
	a.coupons = store.NewResourceSlice[models.Coupon](dataaccess.NewCouponService(client), opts...)
	a.plans = store.NewResourceSlice[models.SubscriptionPlan](dataaccess.NewSubscriptionPlanService(client), opts...)
	a.properties = store.NewResourceSlice[models.Property](dataaccess.NewPropertyService(client), opts...)
	a.dashboard = store.NewDashboardSlice(dataaccess.NewDashboardService(client), opts...)

	a.pending = pr.NewHandler(pr.LoadConfig(cfg.Listing), a.franchisees, a.notify, log)
	a.active = af.NewHandler(af.LoadConfig(cfg.Listing), a.franchisees, a.notify, log)
	a.report = fd.NewHandler(fd.LoadConfig(), a.franchisees, a.districts, a.notify, log)

	return a, nil
}

func (a *app) newChatSession() *chat.Session {
	return chat.NewSession(a.cfg.Chat, a.tokens, chat.WithLogger(a.log))
}

// Close releases connections. Safe to call more than once.
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
		a.redis = nil
	}
	if a.local != nil {
		a.local.Close()
		a.local = nil
	}
	if a.obs != nil {
		a.obs.Shutdown()
		a.obs = nil
	}
}

func startMetricsServer(addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()
	return srv
}

// printNotifier echoes notices to the console output.
type printNotifier struct {
	out io.Writer
}

func (p *printNotifier) Success(message string) { fmt.Fprintln(p.out, message) }
func (p *printNotifier) Error(message string)   { fmt.Fprintln(p.out, "error: "+message) }
