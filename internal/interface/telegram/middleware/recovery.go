package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/alem-hub/petquest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOVERY
// Catches panics in handlers so one bad update cannot stop the polling loop.
// The panic is logged with its stack; the user gets a generic reply.
// ══════════════════════════════════════════════════════════════════════════════

// PanicInfo contains information about a recovered panic.
type PanicInfo struct {
	// Value is the raw panic value.
	Value interface{}

	// Stack is the formatted stack trace.
	Stack string

	UserID  string
	Command string

	Timestamp time.Time
}

// Error returns the panic value as text.
func (p *PanicInfo) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// RecoveryResult represents the result of running a handler under recovery.
type RecoveryResult struct {
	// Recovered indicates if a panic was recovered.
	Recovered bool

	// PanicInfo contains panic details (if recovered).
	PanicInfo *PanicInfo
}

// Recovery runs handlers with panic recovery.
type Recovery struct {
	log     zerolog.Logger
	onPanic func(*PanicInfo)
}

// NewRecovery creates a recovery middleware. onPanic may be nil.
func NewRecovery(log zerolog.Logger, onPanic func(*PanicInfo)) *Recovery {
	return &Recovery{
		log:     log,
		onPanic: onPanic,
	}
}

// Run calls fn and converts a panic into a RecoveryResult. The error is the
// one fn returned; it is nil after a panic.
func (r *Recovery) Run(userID, command string, fn func() error) (result RecoveryResult, err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		info := &PanicInfo{
			Value:     v,
			Stack:     string(debug.Stack()),
			UserID:    userID,
			Command:   command,
			Timestamp: time.Now().UTC(),
		}

		r.log.Error().
			Str(logger.KeyUserID, userID).
			Str(logger.KeyCommand, command).
			Interface("panic", v).
			Str("stack", info.Stack).
			Msg("panic recovered")

		if r.onPanic != nil {
			r.onPanic(info)
		}

		result = RecoveryResult{Recovered: true, PanicInfo: info}
		err = nil
	}()

	return RecoveryResult{}, fn()
}
