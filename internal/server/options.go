package server

import (
	"log"
	"time"

	"github.com/agbru/matbench/internal/config"
	"github.com/agbru/matbench/internal/logging"
	"github.com/agbru/matbench/internal/service"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Nil keeps the JSON logger on stdout.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdLogger logs through a standard library *log.Logger.
func WithStdLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logging.NewStdLoggerAdapter(logger)
		}
	}
}

// WithService replaces the multiplication service, e.g. with a mock.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

// WithTimeouts overrides the timeouts derived from the configuration.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// Timeouts holds the HTTP server timeouts.
type Timeouts struct {
	// RequestTimeout bounds one /multiply computation.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration
	// ReadTimeout covers reading a request, both operands included.
	ReadTimeout time.Duration
	// WriteTimeout runs from the end of the read, so it covers the
	// computation and sending the product.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

const (
	// maxRequestTimeout caps a /multiply computation whatever -timeout says.
	maxRequestTimeout = 2 * time.Minute
	// jsonBytesPerElement is a generous size of one float64 in a JSON matrix.
	jsonBytesPerElement = 24
	// minTransferRate is the slowest client link the timeouts tolerate.
	minTransferRate = 1 << 20 // bytes per second
	minTransferTime = 30 * time.Second
)

// DefaultServerTimeouts returns the timeouts for config.DefaultMaxDim
// operands and no -timeout.
func DefaultServerTimeouts() Timeouts {
	return TimeoutsFor(config.AppConfig{MaxDim: config.DefaultMaxDim})
}

// TimeoutsFor sizes the timeouts for cfg. A computation may use cfg.Timeout
// up to maxRequestTimeout. Reading allows two max-dim operands and writing
// one max-dim product at minTransferRate.
func TimeoutsFor(cfg config.AppConfig) Timeouts {
	request := maxRequestTimeout
	if cfg.Timeout > 0 && cfg.Timeout < request {
		request = cfg.Timeout
	}
	transfer := matrixTransferTime(cfg.MaxDim)
	return Timeouts{
		RequestTimeout:  request,
		ShutdownTimeout: max(request/4, 5*time.Second),
		ReadTimeout:     2 * transfer,
		WriteTimeout:    request + transfer,
		IdleTimeout:     2 * time.Minute,
	}
}

// matrixTransferTime is the time to send one n×n JSON matrix at
// minTransferRate, never less than minTransferTime.
func matrixTransferTime(n int) time.Duration {
	bytes := int64(n) * int64(n) * jsonBytesPerElement
	d := time.Duration(bytes/minTransferRate) * time.Second
	return max(d, minTransferTime)
}
