// Copyright (C) 2025 cradle authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	// Empty base URLs select the production endpoints.
	OSVBaseURL string
	NVDBaseURL string
	NVDAPIKey  string

	// CronSecret gates the HTTP daemon triggers. Empty disables them.
	CronSecret string

	ScanInterval       time.Duration
	EnrichmentInterval time.Duration
	ExpiryInterval     time.Duration
}

// Load reads the configuration from the environment. godotenv has already
// merged a local .env file into the environment by the time this runs.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "cradle")
	v.SetDefault("POSTGRES_PASSWORD", "cradle")
	v.SetDefault("POSTGRES_DB", "cradle")
	v.SetDefault("SCAN_INTERVAL", "6h")
	v.SetDefault("ENRICHMENT_INTERVAL", "5m")
	v.SetDefault("EXPIRY_INTERVAL", "15m")

	return Config{
		Port:               v.GetString("PORT"),
		PostgresHost:       v.GetString("POSTGRES_HOST"),
		PostgresPort:       v.GetString("POSTGRES_PORT"),
		PostgresUser:       v.GetString("POSTGRES_USER"),
		PostgresPassword:   v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:         v.GetString("POSTGRES_DB"),
		OSVBaseURL:         v.GetString("OSV_BASE_URL"),
		NVDBaseURL:         v.GetString("NVD_BASE_URL"),
		NVDAPIKey:          v.GetString("NVD_API_KEY"),
		CronSecret:         v.GetString("CRON_SECRET"),
		ScanInterval:       v.GetDuration("SCAN_INTERVAL"),
		EnrichmentInterval: v.GetDuration("ENRICHMENT_INTERVAL"),
		ExpiryInterval:     v.GetDuration("EXPIRY_INTERVAL"),
	}
}
