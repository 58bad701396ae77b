package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	Database   Database   `yaml:"database"`
	HTTPServer HTTPServer `yaml:"http_server"`
	WSServer   WSServer   `yaml:"ws_server"`
	Draw       Draw       `yaml:"draw"`
	Pusher     Pusher     `yaml:"pusher"`
}

type Database struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN" env-required:"true"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type WSServer struct {
	Address     string        `yaml:"address" env:"WS_ADDRESS" env-default:"localhost:8081"`
	URL         string        `yaml:"url" env:"WS_URL" env-default:"ws://localhost:8081/ws"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Draw struct {
	// ServerSecret keys draw signatures; anyone holding it can forge draws.
	ServerSecret     string        `yaml:"server_secret" env:"DRAW_SERVER_SECRET" env-required:"true"`
	SeedPoolSize     int           `yaml:"seed_pool_size" env-default:"100"`
	AutoDrawInterval time.Duration `yaml:"auto_draw_interval" env:"AUTO_DRAW_INTERVAL" env-default:"10s"`
}

type Pusher struct {
	Enabled bool   `yaml:"enabled" env:"PUSHER_ENABLED" env-default:"false"`
	AppID   string `yaml:"app_id" env:"PUSHER_APP_ID"`
	Key     string `yaml:"key" env:"PUSHER_KEY"`
	Secret  string `yaml:"secret" env:"PUSHER_SECRET"`
	Cluster string `yaml:"cluster" env:"PUSHER_CLUSTER"`
}

func MustLoad() *Config {
	_ = godotenv.Load()

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			panic("failed to read config: " + err.Error())
		}

		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read config from environment: " + err.Error())
	}

	return &cfg
}
