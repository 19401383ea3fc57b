package cmd

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/rm-hull/photo-editor/internal"
	"github.com/rm-hull/photo-editor/internal/editor"
	"github.com/rm-hull/photo-editor/internal/server"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

type ApiServerConfig struct {
	Port       int
	Debug      bool
	SessionTTL time.Duration
	MaxUpload  int64
}

func ApiServer(cfg ApiServerConfig) {
	internal.ShowVersion()
	internal.EnvironmentVars("EDITOR_", "GIN_")

	store := editor.NewStore(cfg.SessionTTL, editor.WithLogging(true))
	var sched gocron.Scheduler
	if cfg.SessionTTL > 0 {
		var err error
		if sched, err = store.StartJanitor(janitorInterval(cfg.SessionTTL)); err != nil {
			log.Fatal(err)
		}
	}

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)
	r.MaxMultipartMemory = cfg.MaxUpload

	if cfg.Debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{})
	if err != nil {
		log.Fatalf("failed to initialize healthcheck: %v", err)
	}

	server.New(store, internal.NewImageFetcher(cfg.MaxUpload), cfg.MaxUpload).Register(r)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting HTTP API Server on port %d...", cfg.Port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP API Server failed to start on port %d: %v", cfg.Port, err)
	}

	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			log.Fatalf("failed to shutdown scheduler: %v", err)
		}
	}
}

// janitorInterval sweeps a few times per TTL, but not more than once a
// minute.
func janitorInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Minute)
}
