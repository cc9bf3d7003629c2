/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mikeb26/fitebot/fite"
)

type Backend string

const (
	BackendMemory Backend = "memory"
	BackendDisk   Backend = "disk"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendS3     Backend = "s3"
)

// Config is everything a fitebot process reads from its environment.
type Config struct {
	fite.Config

	Store       Backend `env:"FITE_STORE" envDefault:"disk"`
	StorePrefix string  `env:"FITE_STORE_PREFIX" envDefault:"fite"`
	DiskDir     string  `env:"FITE_DISK_DIR" envDefault:"fite-data"`
	SQLitePath  string  `env:"FITE_SQLITE_PATH" envDefault:"fite.db"`
	RedisURL    string  `env:"FITE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	S3Bucket    string  `env:"FITE_S3_BUCKET" envDefault:"fitebot-prod-state"`
	S3Gzip      bool    `env:"FITE_S3_GZIP" envDefault:"true"`
}

// LoadConfig reads an optional .env file from the working directory and
// then parses the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("internal.loadconfig: ignoring unreadable .env: %v", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("internal.loadconfig: parse env: %w", err)
	}
	switch cfg.Store {
	case BackendMemory, BackendDisk, BackendSQLite, BackendRedis, BackendS3:
	default:
		return Config{}, fmt.Errorf("internal.loadconfig: unknown FITE_STORE %q",
			cfg.Store)
	}

	return cfg, nil
}
