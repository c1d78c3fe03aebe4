package player

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/syncwatch-cli/syncwatch/constant"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/media"
	"github.com/syncwatch-cli/syncwatch/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	eventBuffer       = 64
)

// ErrNoSource is returned by playback commands issued before any media was loaded.
var ErrNoSource = errors.New("no media loaded")

// ErrExited is returned by commands issued after the mpv process exited.
var ErrExited = errors.New("mpv exited")

// MPV is a media.Player backed by an mpv process driven over JSON-IPC.
// It is started idle and paused; media is loaded into the same process for its whole lifetime.
type MPV struct {
	socketPath string
	title      string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // serializes IPC commands

	listener *EventListener
	events   chan media.Event
	tr       *translator

	sourceMu sync.RWMutex
	source   string

	closeOnce sync.Once
	closed    chan struct{}
}

// NewMPV creates a new MPV player instance. progressEvery bounds how often progressed events are produced.
func NewMPV(progressEvery time.Duration) *MPV {
	m := &MPV{
		title:  constant.Syncwatch,
		exited: make(chan struct{}),
		events: make(chan media.Event, eventBuffer),
		closed: make(chan struct{}),
	}
	m.tr = newTranslator(progressEvery, m.GetTimePos, m.publish)
	return m
}

// Start launches an idle mpv process and subscribes to its events.
func (m *MPV) Start() error {
	if m.socketPath == "" {
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%s.sock", uuid.NewString()[:8]))
	}

	m.cmd = exec.Command("mpv", m.args()...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	m.exited = make(chan struct{})
	go m.reap(m.cmd.Wait)

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return m.attach()
}

// attach subscribes to the events of an mpv instance already listening on the socket.
func (m *MPV) attach() error {
	m.listener = NewEventListener(m.socketPath, m.tr.handle)
	return m.listener.Start()
}

// args builds the command line. Only IPC and window behaviour are set so the user's mpv.conf is respected.
func (m *MPV) args() []string {
	title := sanitizeTitle(m.title)
	return []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--title=%s", title),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--pause=yes",
	}
}

// Events implements media.Source.
func (m *MPV) Events() <-chan media.Event {
	return m.events
}

func (m *MPV) publish(e media.Event) {
	select {
	case m.events <- e:
	case <-m.closed:
	default:
		if e.Kind != media.Progressed {
			// never drop state transitions; wait for the consumer
			select {
			case m.events <- e:
			case <-m.closed:
			}
			return
		}
		log.Debugf("mpv: dropping %s, consumer is behind", e)
	}
}

// Load replaces the current media with ref, leaving playback paused.
func (m *MPV) Load(ref string) error {
	target, err := sanitizeMediaTarget(ref)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	// loadfile keeps the current pause state
	if err := m.Set("pause", true); err != nil {
		return fmt.Errorf("pause before load: %w", err)
	}
	if _, err := m.sendCommand([]interface{}{"loadfile", target, "replace"}); err != nil {
		return fmt.Errorf("load %s: %w", target, err)
	}

	m.sourceMu.Lock()
	m.source = target
	m.sourceMu.Unlock()
	m.tr.setPosition(0)
	return nil
}

// Source returns the reference of the loaded media, if any.
func (m *MPV) Source() string {
	m.sourceMu.RLock()
	defer m.sourceMu.RUnlock()
	return m.source
}

// HasSource implements media.Element.
func (m *MPV) HasSource() bool {
	return m.Source() != ""
}

// Position implements media.Element using the last observed time-pos.
func (m *MPV) Position() float64 {
	return m.tr.current()
}

// SetPosition moves playback to the given absolute position in seconds.
func (m *MPV) SetPosition(seconds float64) error {
	if !m.HasSource() {
		return ErrNoSource
	}
	if _, err := m.sendCommand([]interface{}{"seek", seconds, "absolute+exact"}); err != nil {
		return err
	}
	m.tr.setPosition(seconds)
	return nil
}

// Play resumes playback. The result is delivered on the returned channel.
func (m *MPV) Play() <-chan error {
	result := make(chan error, 1)
	go func() {
		if !m.HasSource() {
			result <- ErrNoSource
			return
		}
		result <- m.Set("pause", false)
	}()
	return result
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	if !m.HasSource() {
		return ErrNoSource
	}
	return m.Set("pause", true)
}

// reap waits for the process to end, then releases Wait.
func (m *MPV) reap(wait func() error) {
	if err := wait(); err != nil {
		log.Debugf("mpv: exited: %v", err)
	} else {
		log.Debug("mpv: exited")
	}
	close(m.exited)
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// GetTimePos returns the current playback position in seconds.
func (m *MPV) GetTimePos() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })

	if m.listener != nil {
		m.listener.Stop()
	}

	if m.socketPath == "" || m.cmd == nil {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Set writes an mpv property.
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a media reference is safe to pass to mpv.
// References come from the server, so flag injection and exotic protocols are refused.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the window title for mpv.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
