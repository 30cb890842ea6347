package store

import "remindme/internal/platform/logger"

// Option adjusts a Store before any backend is opened
type Option func(*Store) error

// WithLogger hands log to the backends and their query tracers
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
