package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings the server and CLI need at startup.
type Config struct {
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
	UploadDir    string `yaml:"upload_dir"`
	JWTSecret    string `yaml:"jwt_secret"`
	TemplatesDir string `yaml:"templates_dir"`
}

const devSecret = "love-love-love"

func Default() Config {
	return Config{
		Port:         "8088",
		DatabasePath: "forum.db",
		UploadDir:    "uploads",
		JWTSecret:    devSecret,
	}
}

// Load builds a Config from defaults, then the YAML file at path (if any),
// then a .env file, then the process environment. Later sources win.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "reading config file %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parsing config file %s", path)
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] .env file not found, using system environment variables")
	}

	overrideFromEnv(&cfg.Port, "PORT")
	overrideFromEnv(&cfg.DatabasePath, "DATABASE_PATH")
	overrideFromEnv(&cfg.UploadDir, "UPLOAD_DIR")
	overrideFromEnv(&cfg.JWTSecret, "JWT_SECRET")
	overrideFromEnv(&cfg.TemplatesDir, "TEMPLATES_DIR")

	if cfg.JWTSecret == devSecret {
		log.Printf("[Config] JWT_SECRET not set, using development secret")
	}
	return cfg, nil
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
