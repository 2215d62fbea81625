package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	"github.com/Tomas-vilte/MateTest/internal/logger"
)

var _ ports.ServerProber = (*Prober)(nil)

const probeInterval = 500 * time.Millisecond

// Prober espera a que un servidor local conteste por HTTP. Cualquier
// respuesta HTTP cuenta como listo, incluso un 404: solo las fallas de
// conexión cuentan como no-listo.
type Prober struct {
	interval time.Duration
}

func NewProber() *Prober {
	return &Prober{interval: probeInterval}
}

// WaitForServer pollea GET http://localhost:<port>/ hasta obtener una
// respuesta o agotar el timeout. El presupuesto es wall-clock desde la
// entrada; cada request individual lleva un timeout no mayor al restante.
func (p *Prober) WaitForServer(ctx context.Context, port int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	target := fmt.Sprintf("http://localhost:%d/", port)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}

		if p.probe(ctx, target, remaining) {
			return true
		}

		select {
		case <-time.After(p.interval):
		case <-ctx.Done():
			return false
		}

		if time.Now().After(deadline) {
			return false
		}
	}
}

func (p *Prober) probe(ctx context.Context, target string, budget time.Duration) bool {
	callTimeout := p.interval * 4
	if callTimeout > budget {
		callTimeout = budget
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Debug(ctx, "el servidor local todavía no responde", "target", target)
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return true
}
