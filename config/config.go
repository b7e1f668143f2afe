package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env              string `env:"ENV" envDefault:"development"`
	Port             string `env:"PORT" envDefault:"8080"`
	DBURL            string `env:"DB_URL,required"`
	SecretKey        string `env:"SECRET_KEY,required"`
	Algorithm        string `env:"ALGORITHM" envDefault:"HS256"`
	AccessExpiryMin  int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"120"`
	RefreshExpiryMin int    `env:"REFRESH_TOKEN_EXPIRE_MINUTES" envDefault:"129600"`
	FrontendOrigin   string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:5173"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *Config) AccessTokenExpiry() time.Duration {
	return time.Duration(c.AccessExpiryMin) * time.Minute
}

func (c *Config) RefreshTokenExpiry() time.Duration {
	return time.Duration(c.RefreshExpiryMin) * time.Minute
}

// AllowedOrigins returns the frontend origin plus its localhost/127.0.0.1
// alias, so the browser dev setup works no matter which host form is used.
func (c *Config) AllowedOrigins() []string {
	base := strings.TrimRight(c.FrontendOrigin, "/")
	aliases := map[string]struct{}{
		base: {},
		strings.Replace(base, "localhost", "127.0.0.1", 1): {},
		strings.Replace(base, "127.0.0.1", "localhost", 1): {},
	}

	origins := make([]string, 0, len(aliases))
	for origin := range aliases {
		origins = append(origins, origin)
	}
	sort.Strings(origins)
	return origins
}
