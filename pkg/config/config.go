package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "STREETMAP"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Routing RoutingConfig `mapstructure:"routing"`
	Courier CourierConfig `mapstructure:"courier"`
	Storage StorageConfig `mapstructure:"storage"`
	Snap    SnapConfig    `mapstructure:"snap"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	CacheSize  int    `mapstructure:"cache_size"` // cached shortest path responses
}

// RoutingConfig turn penalties in seconds.
type RoutingConfig struct {
	RightTurnPenalty float64 `mapstructure:"right_turn_penalty"`
	LeftTurnPenalty  float64 `mapstructure:"left_turn_penalty"`
	Workers          int     `mapstructure:"workers"`
}

type CourierConfig struct {
	TruckCapacity float64 `mapstructure:"truck_capacity"`
}

type StorageConfig struct {
	PebbleDir string `mapstructure:"pebble_dir"`
	BadgerDir string `mapstructure:"badger_dir"`
}

type SnapConfig struct {
	RadiusKm float64 `mapstructure:"radius_km"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":5000")
	v.SetDefault("server.cache_size", 1024)
	v.SetDefault("routing.right_turn_penalty", 15.0)
	v.SetDefault("routing.left_turn_penalty", 25.0)
	v.SetDefault("routing.workers", 8)
	v.SetDefault("courier.truck_capacity", 1000.0)
	v.SetDefault("storage.pebble_dir", "./data/network")
	v.SetDefault("storage.badger_dir", "./data/h3index")
	v.SetDefault("snap.radius_km", 0.5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads an optional .env, then the yaml file at path (skipped when empty or missing), then
// STREETMAP_* environment variables, e.g. STREETMAP_ROUTING_LEFT_TURN_PENALTY.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Routing.RightTurnPenalty < 0 || c.Routing.LeftTurnPenalty < 0 {
		return fmt.Errorf("turn penalties must be non-negative, got right=%f left=%f",
			c.Routing.RightTurnPenalty, c.Routing.LeftTurnPenalty)
	}
	if c.Routing.Workers < 1 {
		return fmt.Errorf("routing.workers must be at least 1, got %d", c.Routing.Workers)
	}
	if c.Courier.TruckCapacity < 0 {
		return fmt.Errorf("courier.truck_capacity must be non-negative, got %f", c.Courier.TruckCapacity)
	}
	if c.Server.CacheSize < 1 {
		return fmt.Errorf("server.cache_size must be at least 1, got %d", c.Server.CacheSize)
	}
	return nil
}
