// Copyright (c) 2025 Valentin Lobstein (Chocapikk) <balgogan@protonmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Chocapikk/wpaudit/internal/file"
)

const EnvPrefix = "WPAUDIT"

// Keys understood in the config file and as WPAUDIT_* environment variables.
const (
	KeyTimeout      = "timeout"
	KeyThreads      = "threads"
	KeyRateLimit    = "rate_limit"
	KeyMaxBodyBytes = "max_body_bytes"
	KeyMaxRedirects = "max_redirects"
	KeyRegistryURL  = "registry_url"
	KeyResolver     = "resolver"
	KeyUserAgent    = "user_agent"
	KeyHeaders      = "headers"
	KeyAllowPrivate = "allow_private"
	KeyCheckLatest  = "check_latest"
)

// Config holds the effective scan settings.
type Config struct {
	Timeout      time.Duration
	Threads      int
	RateLimit    int
	MaxBodyBytes int64
	MaxRedirects int
	RegistryURL  string
	Resolver     string
	UserAgent    string
	Headers      []string
	AllowPrivate bool
	CheckLatest  bool
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Timeout:      10 * time.Second,
		Threads:      10,
		MaxBodyBytes: 1 << 20,
		MaxRedirects: 10,
		RegistryURL:  "https://api.wordpress.org",
		CheckLatest:  true,
	}
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyThreads, d.Threads)
	v.SetDefault(KeyRateLimit, d.RateLimit)
	v.SetDefault(KeyMaxBodyBytes, d.MaxBodyBytes)
	v.SetDefault(KeyMaxRedirects, d.MaxRedirects)
	v.SetDefault(KeyRegistryURL, d.RegistryURL)
	v.SetDefault(KeyResolver, d.Resolver)
	v.SetDefault(KeyUserAgent, d.UserAgent)
	v.SetDefault(KeyHeaders, []string{})
	v.SetDefault(KeyAllowPrivate, d.AllowPrivate)
	v.SetDefault(KeyCheckLatest, d.CheckLatest)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads path, or config.yaml from the default directory when path
// is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	dir, err := file.StorageDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// FromViper extracts and validates a Config.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		Timeout:      v.GetDuration(KeyTimeout),
		Threads:      v.GetInt(KeyThreads),
		RateLimit:    v.GetInt(KeyRateLimit),
		MaxBodyBytes: v.GetInt64(KeyMaxBodyBytes),
		MaxRedirects: v.GetInt(KeyMaxRedirects),
		RegistryURL:  v.GetString(KeyRegistryURL),
		Resolver:     v.GetString(KeyResolver),
		UserAgent:    v.GetString(KeyUserAgent),
		Headers:      v.GetStringSlice(KeyHeaders),
		AllowPrivate: v.GetBool(KeyAllowPrivate),
		CheckLatest:  v.GetBool(KeyCheckLatest),
	}
	return c, c.Validate()
}

// Validate rejects settings no scan can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", KeyTimeout, c.Timeout))
	}
	if c.Threads < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", KeyThreads, c.Threads))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", KeyRateLimit, c.RateLimit))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyMaxBodyBytes, c.MaxBodyBytes))
	}
	if c.MaxRedirects < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", KeyMaxRedirects, c.MaxRedirects))
	}
	if c.CheckLatest && c.RegistryURL == "" {
		errs = append(errs, fmt.Errorf("%s must be set when latest-version checks are enabled", KeyRegistryURL))
	}
	return errors.Join(errs...)
}
