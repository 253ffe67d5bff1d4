package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type     string
	SQLite   SQLiteConfig
	Postgres PostgresConfig
}

// SQLiteConfig holds SQLite backend settings.
type SQLiteConfig struct {
	Path string
}

// PostgresConfig holds Postgres backend settings.
type PostgresConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// ExportConfig holds export delivery settings.
type ExportConfig struct {
	OutputDir string
}

// GraylogConfig holds GELF log forwarding settings.
type GraylogConfig struct {
	Enabled bool
	Address string
}

// InfluxConfig holds usage telemetry settings.
type InfluxConfig struct {
	Enabled  bool
	Protocol string
	Host     string
	Port     string
	Token    string
	Org      string
	Bucket   string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName("carte.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers the default value for every config key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./cartelogs")

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.sqlite.path", "./carte.db")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "carte")

	viper.SetDefault("export.outputDir", "./exports")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "carte-metrics")
	viper.SetDefault("influx.bucket", "carte_usage")
}

// The typed getters read each key individually. Unmarshaling the
// subtree in one go loses registered defaults as soon as any key under
// it is overridden, so a user setting only influx.enabled would end up
// with an empty protocol and host.

// GetStorageConfig returns the typed storage configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("storage.postgres.host"),
			Port:     viper.GetString("storage.postgres.port"),
			Username: viper.GetString("storage.postgres.username"),
			Password: viper.GetString("storage.postgres.password"),
			Database: viper.GetString("storage.postgres.database"),
		},
	}
}

// GetExportConfig returns the typed export configuration.
func GetExportConfig() ExportConfig {
	return ExportConfig{
		OutputDir: viper.GetString("export.outputDir"),
	}
}

// GetGraylogConfig returns the typed Graylog configuration.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetInfluxConfig returns the typed InfluxDB configuration.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
