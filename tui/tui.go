// Package tui is the terminal front end of a watch session: a room browser, a now-playing
// view with the member list, and a catalog picker for choosing what the room watches.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/syncwatch-cli/syncwatch/catalog"
	"github.com/syncwatch-cli/syncwatch/engine"
)

// Engine is the part of the synchronization engine the interface drives.
type Engine interface {
	Snapshot() engine.Snapshot
	CreateRoom(name string) error
	JoinRoom(roomID string) error
	LeaveRoom() error
	SelectMedia(ref string) error
	RefreshRooms() error
	DismissAlert()
}

// Catalog lists selectable media.
type Catalog interface {
	List(ctx context.Context) ([]catalog.Item, error)
}

// Options configures the interface.
type Options struct {
	Engine Engine
	// Catalog is optional; without it media cannot be chosen from the interface.
	Catalog  Catalog
	Observer *Observer
	// Refresh is the display cadence of the now-playing line.
	Refresh time.Duration
	// PlayerExited ends the session when closed.
	PlayerExited <-chan struct{}
}

// Run shows the interface until the user quits.
func Run(options *Options) error {
	bubble := newBubble(options)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
