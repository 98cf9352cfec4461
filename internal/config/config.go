package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func LoadConfig() {
	viper.SetConfigName("config")        // name of config file (without extension)
	viper.SetConfigType("yaml")          // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath("/etc/apifuzz/") // path to look for the config file in
	viper.AddConfigPath(".")             // optionally look for config in the working directory

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Msg("Config file not found, using defaults")
		} else {
			log.Panic().Err(err).Msg("Fatal error reading config file")
		}
	}
	SetDefaultConfig()
}

func SetDefaultConfig() {

	// Logging
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file.enabled", false)
	viper.SetDefault("logging.file.path", "apifuzz.log")

	// Navigation
	viper.SetDefault("navigation.user_agent", "")
	viper.SetDefault("navigation.timeout", 10)
	viper.SetDefault("navigation.max_redirects", 10)
	viper.SetDefault("navigation.proxy", "")

	// Fuzz
	viper.SetDefault("fuzz.workers", 4)
	viper.SetDefault("fuzz.delay", 0)
	viper.SetDefault("fuzz.headers", []string{})

	// Reporting
	viper.SetDefault("report.csv.enabled", false)
	viper.SetDefault("report.csv.dir", ".")
	viper.SetDefault("report.format", "pretty")
}
