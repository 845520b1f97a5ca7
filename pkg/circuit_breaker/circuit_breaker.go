package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type Status uint8

const (
	Closed   Status = 1
	Open     Status = 2
	HalfOpen Status = 3
)

type Config struct {
	// RecordLength is the size of the window of tracked calls.
	RecordLength int `envconfig:"CB_RECORD_LENGTH" default:"10"`
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration `envconfig:"CB_TIMEOUT" default:"30s"`
	// Percentile of failed calls in the window that opens the breaker.
	Percentile float64 `envconfig:"CB_PERCENTILE" default:"0.5"`
	// RecoveryRequests is the number of successful half-open calls needed to close.
	RecoveryRequests int `envconfig:"CB_RECOVERY_REQUESTS" default:"2"`
}

type circuitBreaker struct {
	mu sync.Mutex
	// CLOSED - pass, OPEN - reject, HALFOPEN - pass until the first failure
	state            Status
	recordLength     int
	timeout          time.Duration
	lastAttemptedAt  time.Time
	percentile       float64
	buffer           []bool
	pos              int
	recoveryRequests int
	successCount     int
	now              func() time.Time
}

type CircuitBreaker interface {
	Call(service func() error) error
	State() Status
	Reset()
}

var ErrOpenCB = errors.New("circuit breaker is open")

func New(cfg Config) CircuitBreaker {
	if cfg.RecordLength <= 0 {
		cfg.RecordLength = 1
	}
	return &circuitBreaker{
		state:            Closed,
		recordLength:     cfg.RecordLength,
		timeout:          cfg.Timeout,
		percentile:       cfg.Percentile,
		buffer:           make([]bool, cfg.RecordLength),
		recoveryRequests: cfg.RecoveryRequests,
		now:              time.Now,
	}
}

func (cb *circuitBreaker) Call(service func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.lastAttemptedAt) > cb.timeout {
			cb.state = HalfOpen
			cb.successCount = 0
		} else {
			cb.mu.Unlock()
			return ErrOpenCB
		}
	}
	cb.mu.Unlock()

	err := service()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.buffer[cb.pos] = err != nil
	cb.pos = (cb.pos + 1) % cb.recordLength

	if cb.state == HalfOpen {
		if err != nil {
			cb.trip()
			return err
		}
		cb.successCount++
		if cb.successCount >= cb.recoveryRequests {
			cb.reset()
		}
		return nil
	}

	fails := 0
	for _, failed := range cb.buffer {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(cb.recordLength) >= cb.percentile {
		cb.trip()
	}
	return err
}

func (cb *circuitBreaker) State() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.successCount = 0
	cb.lastAttemptedAt = cb.now()
}

func (cb *circuitBreaker) reset() {
	for i := range cb.buffer {
		cb.buffer[i] = false
	}
	cb.successCount = 0
	cb.pos = 0
	cb.state = Closed
}
