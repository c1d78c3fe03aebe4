package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/syncwatch-cli/syncwatch/media"
)

// fakeMPV answers JSON-IPC commands on a unix socket the way mpv does.
type fakeMPV struct {
	ln       net.Listener
	path     string
	mu       sync.Mutex
	commands [][]interface{}
	observer net.Conn
	observes int
	observed chan struct{}
	reject   map[string]string
}

func newFakeMPV(t *testing.T) *fakeMPV {
	path := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}

	f := &fakeMPV{ln: ln, path: path, observed: make(chan struct{}), reject: map[string]string{}}
	go f.serve()
	return f
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}

		var cmd ipcCommand
		if json.Unmarshal(line, &cmd) != nil || len(cmd.Command) == 0 {
			continue
		}

		name, _ := cmd.Command[0].(string)
		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		reason, rejected := f.reject[name]
		if name == "observe_property" {
			f.observes++
			if f.observes == len(observed) {
				f.observer = conn
				close(f.observed)
			}
		}
		f.mu.Unlock()

		// an unrelated broadcast before the reply, as mpv does
		_, _ = conn.Write([]byte(`{"event":"audio-reconfig"}` + "\n"))

		reply := map[string]interface{}{"request_id": cmd.RequestID, "error": "success"}
		if rejected {
			reply["error"] = reason
		}
		if name == "get_property" {
			reply["data"] = 12.5
		}
		out, _ := json.Marshal(reply)
		_, _ = conn.Write(append(out, '\n'))
	}
}

func (f *fakeMPV) push(lines ...string) {
	<-f.observed
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range lines {
		_, _ = f.observer.Write([]byte(l + "\n"))
	}
}

func (f *fakeMPV) sent(name string) [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out [][]interface{}
	for _, c := range f.commands {
		if c[0] == name {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeMPV) close() {
	f.mu.Lock()
	if f.observer != nil {
		_ = f.observer.Close()
	}
	f.mu.Unlock()
	_ = f.ln.Close()
}

func attached(t *testing.T, f *fakeMPV) *MPV {
	m := NewMPV(time.Millisecond)
	m.socketPath = f.path
	if err := m.attach(); err != nil {
		t.Fatal(err)
	}
	return m
}

func nextEvent(m *MPV) media.Event {
	select {
	case e := <-m.Events():
		return e
	case <-time.After(2 * time.Second):
		return media.Event{}
	}
}

func TestMPVCommands(t *testing.T) {
	Convey("Given mpv listening on its IPC socket", t, func() {
		f := newFakeMPV(t)
		defer f.close()
		m := attached(t, f)
		defer m.listener.Stop()

		Convey("Replies are matched by request id past broadcast events", func() {
			pos, err := m.GetTimePos()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 12.5)
		})

		Convey("Playback commands are refused before anything is loaded", func() {
			So(<-m.Play(), ShouldEqual, ErrNoSource)
			So(m.Pause(), ShouldEqual, ErrNoSource)
			So(m.SetPosition(3), ShouldEqual, ErrNoSource)
			So(m.HasSource(), ShouldBeFalse)
		})

		Convey("Loading media enables the playback commands", func() {
			So(m.Load("https://cdn.example.com/movies/7/stream"), ShouldBeNil)
			So(m.HasSource(), ShouldBeTrue)
			So(f.sent("loadfile")[0][1], ShouldEqual, "https://cdn.example.com/movies/7/stream")
			So(f.sent("set_property")[0][1:], ShouldResemble, []interface{}{"pause", true})

			So(m.SetPosition(42), ShouldBeNil)
			So(m.Position(), ShouldEqual, 42)
			So(f.sent("seek")[0][1], ShouldEqual, 42.0)

			So(<-m.Play(), ShouldBeNil)
			So(m.Pause(), ShouldBeNil)
			pauses := f.sent("set_property")
			So(pauses, ShouldHaveLength, 3)
			So(pauses[1][2], ShouldEqual, false)
			So(pauses[2][2], ShouldEqual, true)
		})

		Convey("A command rejected by mpv is reported without retrying", func() {
			f.mu.Lock()
			f.reject["loadfile"] = "invalid parameter"
			f.mu.Unlock()

			err := m.Load("movie.mkv")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid parameter")
			So(f.sent("loadfile"), ShouldHaveLength, 1)
			So(m.HasSource(), ShouldBeFalse)
		})

		Convey("Once mpv exits, Wait is released and commands are refused", func() {
			So(m.Load("movie.mkv"), ShouldBeNil)
			m.reap(func() error { return errors.New("signal: terminated") })

			select {
			case <-m.Wait():
			case <-time.After(time.Second):
				So("exit not observed", ShouldBeEmpty)
			}
			So(m.SetPosition(3), ShouldEqual, ErrExited)
			So(<-m.Play(), ShouldEqual, ErrExited)
			So(f.sent("seek"), ShouldBeEmpty)
		})

		Convey("Unsafe references are refused before reaching mpv", func() {
			So(m.Load("--script=evil.lua"), ShouldNotBeNil)
			So(f.sent("loadfile"), ShouldBeEmpty)
		})
	})
}

func TestMPVEvents(t *testing.T) {
	Convey("Given an attached event listener", t, func() {
		f := newFakeMPV(t)
		defer f.close()
		m := attached(t, f)
		defer m.listener.Stop()

		Convey("Properties are observed on the persistent connection", func() {
			<-f.observed
			So(f.sent("observe_property"), ShouldHaveLength, len(observed))
		})

		Convey("Raw notifications are translated into media events", func() {
			f.push(
				`{"event":"property-change","id":2,"name":"pause","data":true}`,
				`{"event":"file-loaded"}`,
				`{"event":"property-change","id":2,"name":"pause","data":false}`,
				`{"event":"property-change","id":1,"name":"time-pos","data":3.2}`,
				`{"event":"property-change","id":2,"name":"pause","data":true}`,
			)

			So(nextEvent(m).Kind, ShouldEqual, media.Loaded)
			So(nextEvent(m), ShouldResemble, media.Event{Kind: media.Started, Position: 0})
			So(nextEvent(m), ShouldResemble, media.Event{Kind: media.Progressed, Position: 3.2})
			So(nextEvent(m), ShouldResemble, media.Event{Kind: media.Paused, Position: 3.2})
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Should accept http(s) URLs and local paths", func() {
			So(must(sanitizeMediaTarget(" https://example.com/a.mp4 ")), ShouldEqual, "https://example.com/a.mp4")
			So(must(sanitizeMediaTarget("movies/../movies/a.mkv")), ShouldEqual, filepath.Clean("movies/a.mkv"))
		})

		Convey("Should refuse flags, control characters and other schemes", func() {
			for _, bad := range []string{"", "-vo=null", "a\nb", "file:///etc/passwd", "rtmp://host/live"} {
				_, err := sanitizeMediaTarget(bad)
				So(err, ShouldNotBeNil)
			}
		})
	})

	Convey("args", t, func() {
		m := NewMPV(time.Second)
		m.socketPath = "/tmp/mpv.sock"
		args := m.args()
		So(args, ShouldContain, "--input-ipc-server=/tmp/mpv.sock")
		So(args, ShouldContain, "--idle=yes")
		So(args, ShouldContain, "--pause=yes")
		So(sanitizeTitle("a\tb\x00\n"), ShouldEqual, "a b")
	})
}

func must(s string, err error) string {
	So(err, ShouldBeNil)
	return s
}
