package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return errors.New("invalid duration")
	}
}

type Config struct {
	Mode           string   `json:"mode"`
	Addr           string   `json:"addr"`
	LogFile        string   `json:"log_file"`
	AllowedOrigins []string `json:"allowed_origins"`
	SessionTTL     Duration `json:"session_ttl"`
}

func Default() *Config {
	return &Config{
		Mode:       "development",
		Addr:       ":8080",
		SessionTTL: Duration{time.Hour},
	}
}

func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":            c.Mode,
		"addr":            c.Addr,
		"log_file":        c.LogFile,
		"allowed_origins": c.AllowedOrigins,
		"session_ttl":     c.SessionTTL.String(),
	}
}
