// Package config loads CLI settings from the environment and an optional
// config file. Every key can be set as GROCERY_<KEY>.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig
	Orders   OrdersConfig
	Currency CurrencyConfig
	Stock    StockConfig
	Log      LogConfig
}

type APIConfig struct {
	BaseURL string
	Key     string
	Timeout time.Duration
}

type OrdersConfig struct {
	PerPage int
}

type CurrencyConfig struct {
	Symbol string
	Locale string
}

type StockConfig struct {
	DangerThreshold  int
	WarningThreshold int
}

type LogConfig struct {
	Level string
}

// Load reads settings from the environment, layered over an optional config
// file at path. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("grocery")
	v.AutomaticEnv()

	v.SetDefault("API_BASE_URL", "http://localhost:5000")
	v.SetDefault("API_KEY", "")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("ORDERS_PER_PAGE", 10)
	v.SetDefault("CURRENCY_SYMBOL", "₹")
	v.SetDefault("CURRENCY_LOCALE", "en")
	v.SetDefault("STOCK_DANGER_THRESHOLD", 10)
	v.SetDefault("STOCK_WARNING_THRESHOLD", 20)
	v.SetDefault("LOG_LEVEL", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	timeout, err := time.ParseDuration(v.GetString("API_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: v.GetString("API_BASE_URL"),
			Key:     v.GetString("API_KEY"),
			Timeout: timeout,
		},
		Orders: OrdersConfig{
			PerPage: v.GetInt("ORDERS_PER_PAGE"),
		},
		Currency: CurrencyConfig{
			Symbol: v.GetString("CURRENCY_SYMBOL"),
			Locale: v.GetString("CURRENCY_LOCALE"),
		},
		Stock: StockConfig{
			DangerThreshold:  v.GetInt("STOCK_DANGER_THRESHOLD"),
			WarningThreshold: v.GetInt("STOCK_WARNING_THRESHOLD"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
