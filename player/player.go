// Package player drives a local mpv process as the shared media element.
//
// The element is controlled over mpv's JSON-IPC socket: commands use short-lived connections,
// while a single persistent connection receives observed property changes and playback
// events, which are translated into media events.
package player

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/syncwatch-cli/syncwatch/media"
)

// Player is a media.Player bound to a local process.
type Player interface {
	media.Player

	// Start launches the backing process.
	Start() error

	// Wait returns a channel that is closed when the backing process exits.
	Wait() <-chan struct{}

	// Close terminates the backing process and releases its resources.
	Close() error
}

var _ Player = (*MPV)(nil)

// Available lists the supported player backends.
func Available() []string {
	return []string{"mpv"}
}

// New returns the named player backend.
func New(name string, progressEvery time.Duration) (Player, error) {
	switch name {
	case "mpv":
		return NewMPV(progressEvery), nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: %v", name, Available())
	}
}

// Installed reports whether the named player executable can be found in PATH.
func Installed(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
