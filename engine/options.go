package engine

import (
	"time"

	"github.com/spf13/viper"
	"github.com/syncwatch-cli/syncwatch/config"
	"github.com/syncwatch-cli/syncwatch/key"
)

// Timings are the delays the engine schedules.
type Timings struct {
	// GuardTimeout is the safety net after which suppression always ends.
	GuardTimeout time.Duration
	// SettleGrace keeps suppression briefly after a play or pause completed, to absorb its echo.
	SettleGrace time.Duration
	// SeekSettle is the grace after a seek.
	SeekSettle time.Duration
	// JoinDelay separates room-created from the join request.
	JoinDelay time.Duration
	// ResyncDelay separates room-joined from the room list refresh.
	ResyncDelay time.Duration
}

// Options configures an Engine.
type Options struct {
	// SeekThreshold is the smallest position change, in seconds, treated as a seek in either direction.
	SeekThreshold float64
	// MaxAttempts is the number of consecutive connection failures before the persistent notice.
	MaxAttempts int
	Timings
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		SeekThreshold: 0.5,
		MaxAttempts:   5,
		Timings: Timings{
			GuardTimeout: 150 * time.Millisecond,
			SettleGrace:  100 * time.Millisecond,
			SeekSettle:   200 * time.Millisecond,
			JoinDelay:    100 * time.Millisecond,
			ResyncDelay:  200 * time.Millisecond,
		},
	}
}

// Configured returns options read from the active configuration, with defaults for unset or invalid values.
func Configured() Options {
	opts := DefaultOptions()

	if threshold := viper.GetFloat64(key.SyncSeekThreshold); threshold > 0 {
		opts.SeekThreshold = threshold
	}
	if attempts := viper.GetInt(key.ConnectionMaxAttempts); attempts > 0 {
		opts.MaxAttempts = attempts
	}

	for k, d := range map[string]*time.Duration{
		key.SyncGuardTimeoutMs: &opts.GuardTimeout,
		key.SyncSettleGraceMs:  &opts.SettleGrace,
		key.SyncSeekSettleMs:   &opts.SeekSettle,
		key.SyncJoinDelayMs:    &opts.JoinDelay,
		key.SyncResyncDelayMs:  &opts.ResyncDelay,
	} {
		if v := config.Millis(k); v > 0 {
			*d = v
		}
	}
	return opts
}
