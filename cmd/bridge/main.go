package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mkarras/sms-bridge/internal/fossify"
	httpHandler "github.com/mkarras/sms-bridge/internal/handler/http"
	"github.com/mkarras/sms-bridge/internal/media"
	"github.com/mkarras/sms-bridge/internal/mmsgate"
	"github.com/mkarras/sms-bridge/internal/service"
)

var (
	configFile = flag.String("config", "config.json", "config file path")
)

func main() {
	// create root context
	appCtx, appCtxCancel := context.WithCancel(context.Background())
	defer appCtxCancel()

	// listen for terminate signal
	notifyCtx, stop := signal.NotifyContext(appCtx, syscall.SIGTERM)
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

	// init outbound clients
	cellular := fossify.NewClient(
		config.FossifyAPIURL,
		config.FossifyAuthToken,
		logger.With(slog.String("component", "fossify")),
	)
	relay := mmsgate.NewClient(
		config.MmsgateURL,
		logger.With(slog.String("component", "mmsgate")),
	)
	resolver := media.NewHTTPResolver(logger.With(slog.String("component", "media")))

	// init message router
	bridge := service.NewBridge(
		cellular,
		relay,
		resolver,
		logger.With(slog.String("component", "bridge")),
	)

	// init http handler
	handler := httpHandler.NewHTTPHandler(
		fmt.Sprintf(":%d", config.HttpPort),
		config.BridgeSecret,
		config.FossifyAPIURL,
		config.MmsgateURL,
		bridge,
		logger.With(slog.String("component", "http")),
	)

	logger.Info("sms/mms bridge starting",
		"fossify_api", config.FossifyAPIURL,
		"mmsgate", config.MmsgateURL,
		"port", config.HttpPort)

	wg := sync.WaitGroup{}
	// run http handler
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := handler.Run(); err != nil {
			logger.Error("http server encountered an error and closed", "error", err.Error())
		}
		// cancel app context if http handler fails
		appCtxCancel()
	}()

	// graceful shutdown
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-notifyCtx.Done()
		logger.Info("bridge shutting down...")

		shutDownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		handler.Shutdown(shutDownCtx)
	}()

	wg.Wait()
	os.Exit(0)
}
