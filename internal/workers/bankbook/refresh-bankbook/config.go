// internal/workers/bankbook/refresh-bankbook/config.go
package refreshbankbook

import "time"

type Config struct {
	Timeout    time.Duration
	SummaryTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		SummaryTTL: 5 * time.Minute,
	}
}
