package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisCache "github.com/mkarras/sms-bridge/internal/cache/redis"
	"github.com/mkarras/sms-bridge/internal/monitor"
)

var (
	configFile = flag.String("config", "monitor.json", "config file path")
)

func main() {
	// listen for terminate signal
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// parse flags
	flag.Parse()

	// parse config
	config, err := ReadConfigJson(*configFile)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// alert cooldown state lives in redis so a monitor restart does not
	// re-alert inside the window
	store, err := redisCache.NewRedisCache(notifyCtx, config.RedisAddr)
	if err != nil {
		log.Fatalf("failed to initialize redis: %v", err)
	}

	alerter := monitor.NewSMTPAlerter(
		config.SMTPHost,
		config.SMTPPort,
		config.SMTPUser,
		config.SMTPPassword,
		config.SMTPFrom,
		config.SMTPTo,
		logger.With(slog.String("component", "mailer")),
	)
	if !alerter.Enabled() {
		logger.Warn("smtp not configured - email alerts disabled")
		logger.Warn("set smtp_user and smtp_to in the config to enable alerts")
	}

	services := []monitor.Service{
		{
			ID:      "bridge",
			Name:    "SMS Bridge Server",
			Kind:    monitor.ProbeHTTP,
			URL:     config.BridgeHealthURL,
			Timeout: time.Second * 10,
		},
		{
			// mmsgate has no HTTP health endpoint; a TCP connect has to do.
			// Flexisip is monitored indirectly through mmsgate, which
			// depends on it.
			ID:      "mmsgate",
			Name:    "mmsgate (MMS Gateway)",
			Kind:    monitor.ProbeTCP,
			Addr:    config.MmsgateAddr,
			Timeout: time.Second * 5,
		},
	}

	m := monitor.New(
		services,
		alerter,
		store,
		config.CheckInterval,
		config.AlertCooldown,
		logger.With(slog.String("component", "monitor")),
	)

	m.Run(notifyCtx, config.StartupGrace)
	os.Exit(0)
}
