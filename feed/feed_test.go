package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/omxconductor/omxconductor/player"
	. "github.com/smartystreets/goconvey/convey"
)

func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func registered(h *Hub, c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[c]
	return ok
}

func testClient(h *Hub, addr string, buf int) *Client {
	return &Client{hub: h, send: make(chan []byte, buf), remoteAddr: addr}
}

func TestHub(t *testing.T) {
	Convey("Hub", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		hub := NewHub(4)

		done := make(chan struct{})
		go func() {
			defer close(done)
			hub.Run(ctx)
		}()

		Reset(func() {
			cancel()
			<-done
		})

		Convey("Delivers a broadcast to every client", func() {
			c1, c2 := testClient(hub, "c1", 4), testClient(hub, "c2", 4)
			hub.register <- c1
			hub.register <- c2
			So(waitUntil(time.Second, func() bool { return registered(hub, c1) && registered(hub, c2) }), ShouldBeTrue)
			So(hub.Clients(), ShouldEqual, 2)

			msg := []byte(`{"type":"paused"}`)
			hub.broadcast <- msg

			for _, c := range []*Client{c1, c2} {
				select {
				case got := <-c.send:
					So(string(got), ShouldEqual, string(msg))
				case <-time.After(time.Second):
					So("timeout waiting for "+c.remoteAddr, ShouldBeEmpty)
				}
			}
		})

		Convey("Disconnects a client whose queue is full", func() {
			slow, fast := testClient(hub, "slow", 1), testClient(hub, "fast", 8)
			hub.register <- slow
			hub.register <- fast
			So(waitUntil(time.Second, func() bool { return registered(hub, slow) && registered(hub, fast) }), ShouldBeTrue)

			slow.send <- []byte(`"stuck"`)
			msg := []byte(`{"type":"resumed"}`)
			hub.broadcast <- msg

			select {
			case got := <-fast.send:
				So(string(got), ShouldEqual, string(msg))
			case <-time.After(time.Second):
				So("timeout waiting for fast client", ShouldBeEmpty)
			}

			So(waitUntil(time.Second, func() bool { return !registered(hub, slow) }), ShouldBeTrue)
			<-slow.send
			_, open := <-slow.send
			So(open, ShouldBeFalse)
			So(registered(hub, fast), ShouldBeTrue)
		})

		Convey("Unregistering twice is harmless", func() {
			c := testClient(hub, "c", 1)
			hub.register <- c
			So(waitUntil(time.Second, func() bool { return registered(hub, c) }), ShouldBeTrue)

			hub.unregister <- c
			hub.unregister <- c
			So(waitUntil(time.Second, func() bool { return hub.Clients() == 0 }), ShouldBeTrue)
		})
	})

	Convey("A client leaving while the hub is backed up", t, func() {
		hub := NewHub(4)
		c := testClient(hub, "gone", 4)
		hub.clients[c] = struct{}{}

		for len(hub.unregister) < cap(hub.unregister) {
			hub.unregister <- testClient(hub, "queued", 1)
		}

		c.leave()

		So(registered(hub, c), ShouldBeFalse)
		_, open := <-c.send
		So(open, ShouldBeFalse)

		Convey("is never sent to again", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				defer close(done)
				hub.Run(ctx)
			}()

			hub.Broadcast([]byte(`{"type":"paused"}`))
			So(waitUntil(time.Second, func() bool { return len(hub.broadcast) == 0 && len(hub.unregister) == 0 }), ShouldBeTrue)

			cancel()
			<-done
			So(hub.Clients(), ShouldEqual, 0)
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Encode", t, func() {
		at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		decode := func(e player.Event) map[string]any {
			raw, err := Encode(e, at)
			So(err, ShouldBeNil)

			var m map[string]any
			So(json.Unmarshal(raw, &m), ShouldBeNil)
			So(m["ts"], ShouldEqual, "2024-03-01T12:00:00Z")
			return m
		}

		Convey("Progress is reported in milliseconds", func() {
			m := decode(player.ProgressEvent{Progress: player.Progress{
				Position: 2500 * time.Millisecond,
				Duration: 10 * time.Second,
				Ratio:    0.25,
			}})
			So(m["type"], ShouldEqual, "progress")

			data := m["data"].(map[string]any)
			So(data["position_ms"], ShouldEqual, 2500.0)
			So(data["duration_ms"], ShouldEqual, 10000.0)
			So(data["ratio"], ShouldEqual, 0.25)
		})

		Convey("Errors carry their message", func() {
			m := decode(player.ErrorEvent{Err: errors.New("boom")})
			So(m["type"], ShouldEqual, "error")
			So(m["data"].(map[string]any)["error"], ShouldEqual, "boom")
		})

		Convey("Closed carries the process output", func() {
			m := decode(player.ClosedEvent{Exit: player.Exit{Stdout: "have a nice day ;)", Err: errors.New("exit status 1")}})
			data := m["data"].(map[string]any)
			So(data["stdout"], ShouldEqual, "have a nice day ;)")
			So(data["error"], ShouldEqual, "exit status 1")
		})

		Convey("Events without payload omit data", func() {
			m := decode(player.StoppedEvent{})
			So(m["type"], ShouldEqual, "stopped")
			_, ok := m["data"]
			So(ok, ShouldBeFalse)
		})
	})
}

func TestServer(t *testing.T) {
	Convey("Server", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := NewServer(8)
		s.now = func() time.Time { return time.Unix(0, 0) }
		go s.hub.Run(ctx)

		mux := http.NewServeMux()
		s.Register(mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		s.Publish(player.ReadyEvent{Readiness: player.Readiness{Status: player.StatusPlaying, AttemptsLeft: 3}})

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		So(err, ShouldBeNil)
		defer conn.Close()

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

		Convey("Replays the latest state and streams new events", func() {
			var first envelope
			So(conn.ReadJSON(&first), ShouldBeNil)
			So(first.Type, ShouldEqual, "ready")

			So(waitUntil(time.Second, func() bool { return s.hub.Clients() == 1 }), ShouldBeTrue)
			s.Publish(player.PausedEvent{})

			var next envelope
			So(conn.ReadJSON(&next), ShouldBeNil)
			So(next.Type, ShouldEqual, "paused")
		})
	})
}
