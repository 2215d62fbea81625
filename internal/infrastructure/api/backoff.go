package api

import (
	"math/rand"
	"time"
)

// RetryPolicy define el backoff exponencial con jitter para llamadas a la API
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
}

// DefaultRetryPolicy reintenta hasta 6 veces: 500ms base, tope 10s, jitter ±15%
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 6,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Jitter:     0.15,
	}
}

// Delay calcula la espera para el intento attempt (base 0)
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay << uint(attempt)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}

	if p.Jitter > 0 {
		factor := 1 - p.Jitter + 2*p.Jitter*rand.Float64()
		delay = time.Duration(float64(delay) * factor)
	}

	return delay
}

// retryableStatus indica si un código HTTP amerita reintento: 5xx y 429.
// El resto de los 4xx no se reintenta.
func retryableStatus(statusCode int) bool {
	return statusCode >= 500 || statusCode == 429
}
