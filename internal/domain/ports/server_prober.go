package ports

import (
	"context"
	"time"
)

// ServerProber espera a que un servidor local responda por HTTP
type ServerProber interface {
	WaitForServer(ctx context.Context, port int, timeout time.Duration) bool
}
