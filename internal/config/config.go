// Package config читает YAML-конфигурацию сервера и каталоги тайлов и коллизий.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/world"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
// Отсутствующие в файле ключи сохраняют значения Default().
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Generator GeneratorConfig `yaml:"generator"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Tiles     TilesConfig     `yaml:"tiles"`
	Collision CollisionConfig `yaml:"collision"`
}

type WorldConfig struct {
	ChunksX  int     `yaml:"chunks_x"`
	ChunksY  int     `yaml:"chunks_y"`
	Seed     int64   `yaml:"seed"`
	ViewSize float64 `yaml:"view_size"` // Полуширина окна обзора в тайлах
	TickRate int     `yaml:"tick_rate"`
	StartX   float64 `yaml:"start_x"`
	StartY   float64 `yaml:"start_y"`
}

// GeneratorConfig - параметры генератора ландшафта
type GeneratorConfig struct {
	Enabled        bool                     `yaml:"enabled"`
	NoiseScale     float64                  `yaml:"noise_scale"`
	BiomeScale     float64                  `yaml:"biome_scale"`
	DeepWaterLevel float64                  `yaml:"deep_water_level"`
	WaterLevel     float64                  `yaml:"water_level"`
	SandLevel      float64                  `yaml:"sand_level"`
	MountainLevel  float64                  `yaml:"mountain_level"`
	MountainStep   float64                  `yaml:"mountain_step"`
	MaxCliffLayers int                      `yaml:"max_cliff_layers"`
	TreeDensity    float64                  `yaml:"tree_density"`
	Materials      world.GeneratorMaterials `yaml:"materials"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"` // 0 - только /metrics в REST API
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"` // host:port OTLP HTTP; пусто - по умолчанию экспортера
}

type EventBusConfig struct {
	Capacity  int  `yaml:"capacity"`
	LogEvents bool `yaml:"log_events"`
}

type TilesConfig struct {
	Path string `yaml:"path"` // YAML-каталог тайлов; пусто - встроенный
}

// CollisionConfig - слои коллизий и пары контактов между ними
type CollisionConfig struct {
	Layers   []string        `yaml:"layers"`
	Contacts []ContactConfig `yaml:"contacts"`
}

type ContactConfig struct {
	A    string `yaml:"a"`
	B    string `yaml:"b"`
	Type string `yaml:"type"` // none|collision|trigger
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	gen := world.DefaultGeneratorConfig(0)
	return &Config{
		World: WorldConfig{
			ChunksX:  16,
			ChunksY:  16,
			Seed:     1337,
			ViewSize: 48,
			TickRate: 20,
		},
		Generator: GeneratorConfig{
			Enabled:        true,
			NoiseScale:     gen.NoiseScale,
			BiomeScale:     gen.BiomeScale,
			DeepWaterLevel: gen.DeepWaterMax,
			WaterLevel:     gen.WaterMax,
			SandLevel:      gen.SandMax,
			MountainLevel:  gen.MountainStart,
			MountainStep:   gen.MountainStep,
			MaxCliffLayers: gen.MaxCliffLayers,
			TreeDensity:    gen.ForestDensity,
			Materials:      gen.Materials,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Telemetry: TelemetryConfig{ServiceName: "tileworld"},
		EventBus:  EventBusConfig{Capacity: 1024},
		Collision: CollisionConfig{
			Layers: []string{"solid", "water"},
			Contacts: []ContactConfig{
				{A: "solid", B: "solid", Type: "collision"},
				{A: "water", B: "solid", Type: "collision"},
			},
		},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "TILEWORLD_REST_PORT", 8088)
}

// GetMetricsPort возвращает порт отдельного /metrics; 0 - отдельный сервер не нужен
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "TILEWORLD_METRICS_PORT", 0)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return defaultPort
}

// LoggingOptions переводит секцию logging в параметры пакета logging
func (l LoggingConfig) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      l.Level,
		Format:     l.Format,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
	}
}

// WorldGenerator переводит секцию generator в параметры генератора мира
func (c *Config) WorldGenerator() world.GeneratorConfig {
	g := c.Generator
	return world.GeneratorConfig{
		Seed:           c.World.Seed,
		NoiseScale:     g.NoiseScale,
		BiomeScale:     g.BiomeScale,
		DeepWaterMax:   g.DeepWaterLevel,
		WaterMax:       g.WaterLevel,
		SandMax:        g.SandLevel,
		MountainStart:  g.MountainLevel,
		MountainStep:   g.MountainStep,
		MaxCliffLayers: g.MaxCliffLayers,
		ForestDensity:  g.TreeDensity,
		Materials:      g.Materials,
	}
}

// Build создаёт описание слоёв коллизий и контактов
func (c CollisionConfig) Build() (*physics.CollisionDefinition, error) {
	def := physics.NewCollisionDefinition()
	for _, name := range c.Layers {
		if _, err := def.AddLayer(name); err != nil {
			return nil, err
		}
	}
	for _, contact := range c.Contacts {
		a, ok := def.LayerIndex(contact.A)
		if !ok {
			return nil, fmt.Errorf("контакт %s-%s: нет слоя %q", contact.A, contact.B, contact.A)
		}
		b, ok := def.LayerIndex(contact.B)
		if !ok {
			return nil, fmt.Errorf("контакт %s-%s: нет слоя %q", contact.A, contact.B, contact.B)
		}
		typ, err := physics.ParseContactType(contact.Type)
		if err != nil {
			return nil, fmt.Errorf("контакт %s-%s: %w", contact.A, contact.B, err)
		}
		if err := def.SetContact(a, b, typ); err != nil {
			return nil, err
		}
	}
	return def, nil
}

// Validate проверяет значения, без которых сервер не запустится
func (c *Config) Validate() error {
	var errs []error
	if c.World.ChunksX <= 0 || c.World.ChunksY <= 0 {
		errs = append(errs, fmt.Errorf("world: размер %dx%d чанков должен быть положительным", c.World.ChunksX, c.World.ChunksY))
	}
	if c.World.ViewSize < 0 {
		errs = append(errs, fmt.Errorf("world: view_size %g < 0", c.World.ViewSize))
	}
	if c.World.TickRate < 0 {
		errs = append(errs, fmt.Errorf("world: tick_rate %d < 0", c.World.TickRate))
	}
	if c.EventBus.Capacity < 0 {
		errs = append(errs, fmt.Errorf("eventbus: capacity %d < 0", c.EventBus.Capacity))
	}
	return errors.Join(errs...)
}

// Load читает YAML файл конфигурации.
// Если path == "", берётся TILEWORLD_CONFIG; если и он пуст, возвращается Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TILEWORLD_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML поверх значений по умолчанию
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
