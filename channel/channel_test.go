package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

const wait = 2 * time.Second

// relay is a test server that records handshakes and received envelopes.
type relay struct {
	upgrader websocket.Upgrader
	srv      *httptest.Server

	mu      sync.Mutex
	queries []url.Values
	conns   []*websocket.Conn

	received chan protocol.Envelope
	accepted chan *websocket.Conn
}

func newRelay() *relay {
	r := &relay{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		received: make(chan protocol.Envelope, 16),
		accepted: make(chan *websocket.Conn, 4),
	}
	r.srv = httptest.NewServer(http.HandlerFunc(r.handle))
	return r
}

func (r *relay) handle(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	r.mu.Lock()
	r.queries = append(r.queries, req.URL.Query())
	r.conns = append(r.conns, conn)
	r.mu.Unlock()
	r.accepted <- conn

	for {
		var env protocol.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		r.received <- env
	}
}

func (r *relay) url() string {
	return "ws" + strings.TrimPrefix(r.srv.URL, "http")
}

func (r *relay) close() {
	r.mu.Lock()
	for _, c := range r.conns {
		_ = c.Close()
	}
	r.mu.Unlock()
	r.srv.Close()
}

type transitions struct {
	ch chan Lifecycle
}

func (t transitions) record(state Lifecycle, _ error) {
	select {
	case t.ch <- state:
	default:
	}
}

func (t transitions) next() Lifecycle {
	select {
	case s := <-t.ch:
		return s
	case <-time.After(wait):
		return 0
	}
}

func TestClient(t *testing.T) {
	Convey("Given a running relay", t, func() {
		r := newRelay()
		defer r.close()

		client := New(Options{URL: r.url(), Token: "tok", ReconnectDelay: 10 * time.Millisecond, PingEvery: time.Second})
		states := transitions{ch: make(chan Lifecycle, 16)}
		client.OnLifecycle(states.record)

		inbound := make(chan json.RawMessage, 4)
		client.On(protocol.SyncSeek, func(data json.RawMessage) { inbound <- data })

		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan error, 1)
		go func() { stopped <- client.Run(ctx) }()
		defer func() {
			cancel()
			<-stopped
		}()

		So(states.next(), ShouldEqual, Connected)
		var server *websocket.Conn
		select {
		case server = <-r.accepted:
		case <-time.After(wait):
		}
		So(server, ShouldNotBeNil)

		Convey("The handshake carries the client id and the access token", func() {
			r.mu.Lock()
			q := r.queries[0]
			r.mu.Unlock()
			So(q.Get("client_id"), ShouldEqual, client.ID())
			So(q.Get("access_token"), ShouldEqual, "tok")
		})

		Convey("Emitted events arrive as envelopes", func() {
			So(client.Emit(protocol.Seek, 10.3), ShouldBeNil)
			So(client.Emit(protocol.GetRooms, nil), ShouldBeNil)

			env := <-r.received
			So(env.Event, ShouldEqual, protocol.Seek)
			So(string(env.Data), ShouldEqual, "10.3")

			env = <-r.received
			So(env.Event, ShouldEqual, protocol.GetRooms)
			So(env.Data, ShouldBeEmpty)
		})

		Convey("Inbound envelopes reach the registered handler and garbage is skipped", func() {
			So(server.WriteMessage(websocket.TextMessage, []byte("not json")), ShouldBeNil)
			So(server.WriteJSON(protocol.Envelope{Event: "unknown"}), ShouldBeNil)
			So(server.WriteJSON(protocol.Envelope{Event: protocol.SyncSeek, Data: json.RawMessage("42")}), ShouldBeNil)

			select {
			case data := <-inbound:
				So(string(data), ShouldEqual, "42")
			case <-time.After(wait):
				So("handler not called", ShouldBeEmpty)
			}
		})

		Convey("A dropped connection is reported and re-established as reconnected", func() {
			_ = server.Close()

			So(states.next(), ShouldEqual, Disconnected)
			So(states.next(), ShouldEqual, Reconnected)
			So(client.Connected(), ShouldBeTrue)
		})
	})
}

func TestClientUnreachable(t *testing.T) {
	Convey("Given a server that refuses connections", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		endpoint := "ws" + strings.TrimPrefix(srv.URL, "http")
		srv.Close()

		client := New(Options{URL: endpoint, ReconnectDelay: time.Millisecond})
		states := transitions{ch: make(chan Lifecycle, 64)}
		client.OnLifecycle(states.record)

		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan error, 1)
		go func() { stopped <- client.Run(ctx) }()

		Convey("Every attempt is reported as a failure and emitting is refused", func() {
			for i := 0; i < 3; i++ {
				So(states.next(), ShouldEqual, ConnectFailed)
			}
			So(client.Emit(protocol.GetRooms, nil), ShouldEqual, ErrNotConnected)

			cancel()
			So(<-stopped, ShouldEqual, context.Canceled)
		})
	})
}

func TestBackoff(t *testing.T) {
	Convey("Backoff grows linearly and is capped", t, func() {
		client := New(Options{URL: "ws://localhost", ReconnectDelay: time.Second})
		So(client.backoff(1), ShouldEqual, time.Second)
		So(client.backoff(3), ShouldEqual, 3*time.Second)
		So(client.backoff(5), ShouldEqual, 5*time.Second)
		So(client.backoff(50), ShouldEqual, 5*time.Second)
	})
}
