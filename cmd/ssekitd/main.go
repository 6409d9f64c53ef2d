package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/ssekit/bootstrap"
	"github.com/kbukum/ssekit/config"
	"github.com/kbukum/ssekit/errors"
	"github.com/kbukum/ssekit/logger"
	"github.com/kbukum/ssekit/observability"
	"github.com/kbukum/ssekit/runtime"
	"github.com/kbukum/ssekit/server"
	"github.com/kbukum/ssekit/sse"
	"github.com/kbukum/ssekit/validation"
	"github.com/kbukum/ssekit/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ssekitd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg DaemonConfig
	if err := config.LoadConfig("ssekitd", &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if cfg.Observability.Enabled {
		if err := initObservability(ctx, app, &cfg); err != nil {
			return fmt.Errorf("init observability: %w", err)
		}
	}

	// Host-wide redeploy signal and connect/disconnect notification fan-out.
	bus := runtime.NewBus()
	notifier := runtime.NewChanNotifier(64)
	go logNotifications(app.Logger, notifier)

	var metrics *sse.Metrics
	if cfg.Observability.Enabled {
		m, err := sse.NewMetrics(observability.Meter("ssekit"))
		if err != nil {
			app.Logger.Warn("metric instruments unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			metrics = m
		}
	}

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyMiddleware()
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	sources := make(map[string]*sse.Source, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		opts := []sse.Option{
			sse.WithNotifier(notifier),
			sse.WithLogger(app.Logger.WithComponent("sse").WithFields(map[string]interface{}{
				logger.FieldSource: sc.Name,
			})),
		}
		if metrics != nil {
			opts = append(opts, sse.WithMetrics(metrics))
		}
		src := sse.NewSource(sc, opts...)
		sources[sc.Name] = src
		if err := app.RegisterComponent(sse.NewComponent(src, bus)); err != nil {
			return err
		}
	}

	registerRoutes(app, srv.GinEngine(), sources, bus)

	return app.Run(ctx)
}

// initObservability wires the OTLP meter and tracer providers and hooks
// their shutdown into the application lifecycle.
func initObservability(ctx context.Context, app *bootstrap.App[*DaemonConfig], cfg *DaemonConfig) error {
	base := cfg.GetServiceConfig()

	meterCfg := observability.DefaultMeterConfig(base.Name)
	meterCfg.ServiceVersion = base.Version
	meterCfg.Environment = base.Environment
	meterCfg.Endpoint = cfg.Observability.Endpoint
	meterCfg.Insecure = cfg.Observability.Insecure
	meterProvider, err := observability.InitMeter(ctx, meterCfg)
	if err != nil {
		return err
	}

	tracerCfg := observability.DefaultTracerConfig(base.Name)
	tracerCfg.ServiceVersion = base.Version
	tracerCfg.Environment = base.Environment
	tracerCfg.Endpoint = cfg.Observability.Endpoint
	tracerCfg.Insecure = cfg.Observability.Insecure
	tracerCfg.SampleRate = cfg.Observability.SampleRate
	tracerProvider, err := observability.InitTracer(ctx, tracerCfg)
	if err != nil {
		return err
	}

	app.OnStop(func(ctx context.Context) error {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			app.Logger.Warn("tracer shutdown", map[string]interface{}{"error": err.Error()})
		}
		if err := meterProvider.Shutdown(ctx); err != nil {
			app.Logger.Warn("meter shutdown", map[string]interface{}{"error": err.Error()})
		}
		return nil
	})
	return nil
}

// logNotifications drains the notifier channel into the application log.
func logNotifications(log *logger.Logger, notifier *runtime.ChanNotifier) {
	for n := range notifier.Events() {
		log.Info("subscriber change", map[string]interface{}{
			logger.FieldEvent:       n.Event,
			logger.FieldSubscribers: n.Subscribers,
			logger.FieldRemoteAddr:  n.IP,
		})
	}
}

// broadcastRequest is the POST /events/:source body. The topic becomes the
// SSE event name, so line breaks are rejected.
type broadcastRequest struct {
	Topic   string `json:"topic" validate:"omitempty,max=190,excludesall=0x0A0x0D"`
	Payload any    `json:"payload"`
}

func registerRoutes(app *bootstrap.App[*DaemonConfig], engine *gin.Engine, sources map[string]*sse.Source, bus *runtime.Bus) {
	lookup := func(c *gin.Context) (*sse.Source, bool) {
		src, ok := sources[c.Param("source")]
		if !ok {
			server.RespondWithError(c, errors.NotFound("source", c.Param("source")))
		}
		return src, ok
	}

	engine.GET("/events/:source", func(c *gin.Context) {
		src, ok := lookup(c)
		if !ok {
			return
		}
		sse.Handler(src)(c)
	})

	engine.POST("/events/:source", func(c *gin.Context) {
		src, ok := lookup(c)
		if !ok {
			return
		}
		var req broadcastRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
			return
		}
		if err := validation.Validate(&req); err != nil {
			server.RespondWithError(c, err)
			return
		}
		src.HandleItem(c.Request.Context(), &runtime.Item{
			Topic:   req.Topic,
			Payload: req.Payload,
		})
		server.RespondAccepted(c, gin.H{
			"source":      src.Name(),
			"subscribers": src.SubscriberCount(),
		})
	})

	engine.DELETE("/events/:source/:id", func(c *gin.Context) {
		src, ok := lookup(c)
		if !ok {
			return
		}
		if err := src.Unregister(c.Param("id")); err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondNoContent(c)
	})

	engine.POST("/admin/redeploy", func(c *gin.Context) {
		bus.Publish(runtime.TopicRedeploy, nil)
		server.RespondAccepted(c, gin.H{"signal": runtime.TopicRedeploy})
	})

	engine.GET("/health", server.HealthEndpoint(app.Name, app.Components.HealthAll))
	engine.GET("/version", func(c *gin.Context) {
		server.RespondOK(c, version.GetVersionInfo())
	})

	for _, r := range engine.Routes() {
		app.Summary.TrackRoute(r.Method, r.Path)
	}
}
