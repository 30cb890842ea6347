package module

import (
	"context"

	"remindme/internal/services/courier/service"
)

// Runner is the courier loop surface
type Runner interface {
	Run(ctx context.Context) error
	Scan(ctx context.Context) (service.Summary, error)
}

// Ports defines courier module ports
type Ports struct {
	Courier Runner
}
