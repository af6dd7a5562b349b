// internal/workers/risk/rescore-loans/config.go
package rescoreloans

import "time"

type Config struct {
	Timeout    time.Duration
	BatchSize  int
	StaleAfter time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		BatchSize:  100,
		StaleAfter: time.Hour,
	}
}
