// Command glean-hostsim simulates a host application embedding the core
// directly (no cgo), for manual verification of recording and ping
// collection from the command line.
package main

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Settings is the simulated host's configuration. It is loaded from an
// optional YAML file and then overlaid with environment variables, in the
// same struct-tag idiom as Cloudzero-cloudzero-agent's app/config.
type Settings struct {
	DataPath          string `yaml:"data_path" env:"GLEAN_DATA_PATH" env-default:"./glean-hostsim-data" env-description:"directory the simulated host stores its pending pings and database under"`
	ApplicationID     string `yaml:"application_id" env:"GLEAN_APPLICATION_ID" env-default:"org.example.hostsim" env-description:"application id recorded in client_info.app_id"`
	TelemetrySDKBuild string `yaml:"telemetry_sdk_build" env:"GLEAN_SDK_BUILD" env-default:"glean-hostsim" env-description:"value recorded as client_info.telemetry_sdk_build"`
	UploadEnabled     bool   `yaml:"upload_enabled" env:"GLEAN_UPLOAD_ENABLED" env-default:"true" env-description:"whether the simulated host has telemetry upload enabled"`
	MaxEventsPerPing  int    `yaml:"max_events_per_ping" env:"GLEAN_MAX_EVENTS_PER_PING" env-default:"500" env-description:"events buffered per store before an events ping is queued early"`
}

// LoadSettings reads configFile, if non-empty, then overlays environment
// variables on top of it. An empty configFile loads defaults and the
// environment only.
func LoadSettings(configFile string) (*Settings, error) {
	var cfg Settings

	if configFile == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configFile, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", configFile, err)
	}
	return &cfg, nil
}
