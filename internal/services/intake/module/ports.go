package module

import (
	"context"

	"remindme/internal/services/intake/service"
)

// Runner is the intake loop surface
type Runner interface {
	Run(ctx context.Context) error
	Cycle(ctx context.Context) (service.Summary, error)
}

// Ports defines intake module ports
type Ports struct {
	Intake Runner
}
