package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	echo_prometheus "github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/statuspond/statuspond/internal/config"
	"github.com/statuspond/statuspond/internal/database"
	"github.com/statuspond/statuspond/internal/handlers"
	"github.com/statuspond/statuspond/internal/keepie"
	"github.com/statuspond/statuspond/internal/stream"
	"github.com/statuspond/statuspond/internal/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func Start(c *config.Config) error {
	logger, err := setupLogging(c.Logging)
	if err != nil {
		return err
	}

	logger.Info("Starting statuspond server")

	util.EnsureIDProvider()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repository, ps, err := database.OpenDB(ctx, &c.Database, util.NewZapAdapter(logger, "statuspond"))
	if err != nil {
		return err
	}
	defer ps.Close()

	// One process-wide subscription on the change stream; everything a
	// live http subscriber sees flows through this registry.
	registry := stream.NewRegistry()
	fanout := stream.NewFanout(ps, registry, logger)
	if err := fanout.Start(ctx); err != nil {
		return err
	}

	queue := keepie.NewRequestQueue()
	store := keepie.NewAuthorizedStore(c.Keepie.ReadonlyAuthorizedFile, c.Keepie.WriteAuthorizedFile)
	sender := keepie.NewHTTPSender(c.Keepie.PushTimeout)

	readonlyBroker := keepie.NewBroker(keepie.TierReadonly, c.Keepie.ReadonlyInterval, queue, store, sender, logger)
	writeBroker := keepie.NewBroker(keepie.TierWrite, c.Keepie.WriteInterval, queue, store, sender, logger)

	go readonlyBroker.Start(ctx)
	go writeBroker.Start(ctx)

	p := echo_prometheus.NewPrometheus("http", nil)

	metricsHandler := echo.New()
	p.SetMetricsPath(metricsHandler)

	keepieHandlers := handlers.NewKeepieHandlers(queue)
	streamHandlers := handlers.NewStreamHandlers(registry, c.Stream.KeepAliveInterval)
	logHandlers := handlers.NewLogHandlers(repository, ps)
	statusHandlers := handlers.NewStatusHandlers(c, store)

	app := echo.New()
	app.Use(EchoMetrics(p), EchoLogger(logger), EchoRecover())
	app.POST("/keepie/:tier/request", keepieHandlers.RequestCredential)
	app.GET("/db/stream", streamHandlers.Stream)
	app.GET("/db/log", logHandlers.ListEntries)
	app.POST("/db/log", logHandlers.SaveEntry)
	app.GET("/status", statusHandlers.Status)
	app.GET("/version", handlers.Version)

	httpL, err := httpListener(c)
	if err != nil {
		return err
	}

	metricsL, err := net.Listen("tcp", c.MetricsListenAddr)
	if err != nil {
		return err
	}

	g := new(errgroup.Group)
	g.Go(func() error { return http.Serve(httpL, app) })
	g.Go(func() error { return http.Serve(metricsL, metricsHandler) })

	if c.Tls.Disable {
		logger.Warn("TLS is disabled")
	} else {
		logger.Info("TLS is enabled", zap.String("cert", c.Tls.CertFile))
	}
	logger.Info("Server is running",
		zap.String("http_addr", c.HttpListenAddr),
		zap.String("metrics_addr", c.MetricsListenAddr))

	return g.Wait()
}

func httpListener(config *config.Config) (net.Listener, error) {
	if config.Tls.Disable {
		return net.Listen("tcp", config.HttpListenAddr)
	}

	certPEMBlock, err := os.ReadFile(config.Tls.CertFile)
	if err != nil {
		return nil, fmt.Errorf("error reading cert file: %v", err)
	}
	keyPEMBlock, err := os.ReadFile(config.Tls.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("error reading key file: %v", err)
	}

	cer, err := tls.X509KeyPair(certPEMBlock, keyPEMBlock)
	if err != nil {
		return nil, fmt.Errorf("error reading cert and key file: %v", err)
	}

	tlsConfig := &tls.Config{Certificates: []tls.Certificate{cer}}

	return tls.Listen("tcp", config.HttpListenAddr, tlsConfig)
}

func setupLogging(config config.Logging) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if strings.ToLower(config.Format) != "json" {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	if config.File != "" {
		zapConfig.OutputPaths = []string{config.File}
		zapConfig.ErrorOutputPaths = []string{config.File}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)

	return logger, nil
}
