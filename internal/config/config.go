// Package config loads service settings. Sources, lowest precedence first:
// built-in defaults, the ini file, .env, the process environment.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

const (
	DefaultFile = "metalcal.ini"
	section     = "server"
)

type Config struct {
	Addr        string
	TLSCert     string
	TLSKey      string
	Rate        float64
	Burst       int
	AllowOrigin string
	ShareKey    []byte
	ShareTTL    time.Duration
	LogLevel    string
	LogFormat   string
	BaseURL     string

	// GeneratedKey is set when no share key was configured and a random
	// one was made up; links then die with the process.
	GeneratedKey bool

	// File holds every ini section, including [defaults.<id>].
	File *ini.File
}

var defaults = []struct{ key, value string }{
	{"addr", ":8080"},
	{"tls_cert", ""},
	{"tls_key", ""},
	{"rate", "5"},
	{"burst", "10"},
	{"allow_origin", "*"},
	{"share_key", ""},
	{"share_ttl", "720h"},
	{"log_level", "info"},
	{"log_format", "text"},
	{"base_url", ""},
}

var envKeys = map[string]string{
	"METALCAL_ADDR":         "addr",
	"METALCAL_TLS_CERT":     "tls_cert",
	"METALCAL_TLS_KEY":      "tls_key",
	"METALCAL_RATE":         "rate",
	"METALCAL_BURST":        "burst",
	"METALCAL_ALLOW_ORIGIN": "allow_origin",
	"METALCAL_SHARE_KEY":    "share_key",
	"METALCAL_SHARE_TTL":    "share_ttl",
	"METALCAL_LOG_LEVEL":    "log_level",
	"METALCAL_LOG_FORMAT":   "log_format",
	"METALCAL_BASE_URL":     "base_url",
}

// Load reads envFile (usually ".env") and the ini file named by
// METALCAL_CONFIG. Either file may be missing.
func Load(envFile string) (*Config, error) {
	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %s: %w", envFile, err)
		}
		dotenv = map[string]string{}
	}
	lookup := func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		v, ok := dotenv[name]
		return v, ok
	}

	file := ini.Empty()
	sec := file.Section(section)
	for _, d := range defaults {
		sec.Key(d.key).SetValue(d.value)
	}

	path, ok := lookup("METALCAL_CONFIG")
	if !ok {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := file.Append(path); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	} else if ok {
		return nil, fmt.Errorf("config: %w", err)
	}

	for env, key := range envKeys {
		if v, ok := lookup(env); ok {
			sec.Key(key).SetValue(v)
		}
	}
	return parse(file)
}

func parse(file *ini.File) (*Config, error) {
	sec := file.Section(section)
	c := &Config{
		Addr:        sec.Key("addr").String(),
		TLSCert:     sec.Key("tls_cert").String(),
		TLSKey:      sec.Key("tls_key").String(),
		AllowOrigin: sec.Key("allow_origin").String(),
		ShareKey:    []byte(sec.Key("share_key").String()),
		LogLevel:    sec.Key("log_level").String(),
		LogFormat:   sec.Key("log_format").String(),
		BaseURL:     sec.Key("base_url").String(),
		File:        file,
	}

	var err error
	if c.Rate, err = sec.Key("rate").Float64(); err != nil {
		return nil, fmt.Errorf("config: rate: %w", err)
	}
	if c.Burst, err = sec.Key("burst").Int(); err != nil {
		return nil, fmt.Errorf("config: burst: %w", err)
	}
	if c.ShareTTL, err = sec.Key("share_ttl").Duration(); err != nil {
		return nil, fmt.Errorf("config: share_ttl: %w", err)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return nil, errors.New("config: tls_cert and tls_key must be set together")
	}

	if len(c.ShareKey) == 0 {
		c.ShareKey = make([]byte, 32)
		if _, err := rand.Read(c.ShareKey); err != nil {
			return nil, fmt.Errorf("config: share key: %w", err)
		}
		c.GeneratedKey = true
	}
	return c, nil
}
