package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/tileworld/internal/api"
	"github.com/annel0/tileworld/internal/behaviour"
	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/engine"
	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/observability"
	"github.com/annel0/tileworld/internal/resource"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML-конфигурации (по умолчанию TILEWORLD_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if err := logging.Init(cfg.Logging.LoggingOptions()); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}

	logging.Info("🌍 Запуск tileworld: мир %dx%d чанков, seed=%d", cfg.World.ChunksX, cfg.World.ChunksY, cfg.World.Seed)
	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.Close()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
	logging.Close()
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			logging.Warn("OpenTelemetry не инициализирован: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Warn("Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	// === РЕСУРСЫ ===
	res, err := loadResources(cfg)
	if err != nil {
		return err
	}
	defer res.Close()

	// === ШИНА СОБЫТИЙ ===
	bus := eventbus.NewMemoryBus(cfg.EventBus.Capacity)
	defer bus.Close()
	if cfg.EventBus.LogEvents {
		if err := eventbus.StartLoggingListener(bus); err != nil {
			return fmt.Errorf("подписка логирования событий: %w", err)
		}
	}
	exporter := eventbus.NewMetricsExporter(bus, prometheus.DefaultRegisterer)
	if port := cfg.Server.GetMetricsPort(); port > 0 {
		exporter.StartHTTP(fmt.Sprintf(":%d", port))
	} else {
		exporter.Start()
	}
	defer exporter.Stop()

	// === ДВИЖОК ===
	eng, err := engine.New(res, engine.Options{
		TickRate: cfg.World.TickRate,
		ViewSize: cfg.World.ViewSize,
		Start:    vec.Vec2Float{X: cfg.World.StartX, Y: cfg.World.StartY},
		Bus:      bus,
		Metrics:  behaviour.NewMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		return fmt.Errorf("создание движка: %w", err)
	}

	// === REST API ===
	gin.SetMode(gin.ReleaseMode)
	rs := api.NewRestServer(api.Config{
		Addr:        fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		ServiceName: cfg.Telemetry.ServiceName,
		Engine:      eng,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := eng.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return rs.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("📡 Завершение работы...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := rs.Shutdown(shutdownCtx)
		eng.Stop()
		return err
	})

	logging.Info("✅ Сервер запущен: REST API http://localhost:%d, /health, /metrics", cfg.Server.GetRESTPort())
	return g.Wait()
}

// loadResources строит каталоги, генерирует мир и кладёт всё в контекст ресурсов
func loadResources(cfg *config.Config) (*resource.Context, error) {
	catalog, err := config.LoadTileCatalog(cfg.Tiles.Path)
	if err != nil {
		return nil, err
	}
	def, err := catalog.Build()
	if err != nil {
		return nil, fmt.Errorf("каталог тайлов: %w", err)
	}
	collisions, err := cfg.Collision.Build()
	if err != nil {
		return nil, fmt.Errorf("слои коллизий: %w", err)
	}

	wm := world.NewWorldMap(cfg.World.ChunksX, cfg.World.ChunksY)
	if cfg.Generator.Enabled {
		start := time.Now()
		world.NewWorldGenerator(cfg.WorldGenerator()).Generate(wm)
		logging.Info("🗺️  Мир сгенерирован за %s", time.Since(start).Truncate(time.Millisecond))
	}

	res := resource.NewContext()
	res.Definitions.Set(resource.DefaultName, def)
	res.Collisions.Set(resource.DefaultName, collisions)
	res.Worlds.Set(resource.DefaultName, wm)
	return res, nil
}
