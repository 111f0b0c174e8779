package http

import (
	"context"
	"net"
	"time"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRedirects = 10
	DefaultMaxBodySize  = 1 << 20
)

// Config contains HTTP-related configuration for making requests.
type Config struct {
	Timeout      time.Duration
	Headers      []string // "Key: Value" pairs
	UserAgent    string   // random browser UA when empty
	RateLimit    int      // requests per second (0 = unlimited)
	MaxRedirects int      // 0 = disable, -1 = default
	MaxBodySize  int64    // bytes read per response (0 = default)
	DialContext  func(ctx context.Context, network, address string) (net.Conn, error)
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRedirects < 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}
	return c
}
