package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/ayusman/vcanvas/internal/app"
)

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_OptionalRoutes(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/stream", "/api/events", "/api/status", "/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestServer_Status(t *testing.T) {
	hub := NewEventHub(zaptest.NewLogger(t).Sugar())
	s := New(Config{Events: hub})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("before any frame: expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}

	hub.Publish(app.Event{Frame: 7, State: "drawing", Color: "Blue", Tip: &app.Point{X: 3, Y: 4}})

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var ev app.Event
	if err := json.NewDecoder(rec.Body).Decode(&ev); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if ev.Frame != 7 || ev.Color != "Blue" || ev.Tip == nil || ev.Tip.X != 3 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func dialEvents(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *EventHub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", hub.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEventHub_Broadcast(t *testing.T) {
	hub := NewEventHub(zaptest.NewLogger(t).Sugar())
	ts := httptest.NewServer(New(Config{Events: hub}))
	defer ts.Close()

	a := dialEvents(t, ts)
	b := dialEvents(t, ts)
	waitForClients(t, hub, 2)

	hub.Publish(app.Event{Frame: 1, Gesture: "draw", State: "drawing", Thickness: 10})

	for i, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev app.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("client %d: read event: %v", i, err)
		}
		if ev.Frame != 1 || ev.Gesture != "draw" || ev.Thickness != 10 {
			t.Errorf("client %d: unexpected event %+v", i, ev)
		}
	}
}

func TestEventHub_ClientDisconnect(t *testing.T) {
	hub := NewEventHub(zaptest.NewLogger(t).Sugar())
	ts := httptest.NewServer(New(Config{Events: hub}))
	defer ts.Close()

	conn := dialEvents(t, ts)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Publishing with nobody listening must not block.
	hub.Publish(app.Event{Frame: 2})
}

func TestEventHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewEventHub(zaptest.NewLogger(t).Sugar())
	ts := httptest.NewServer(New(Config{Events: hub}))
	defer ts.Close()

	dialEvents(t, ts)
	waitForClients(t, hub, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < ClientBuffer*10; i++ {
			hub.Publish(app.Event{Frame: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a client that never reads")
	}
}

func TestEventHub_Close(t *testing.T) {
	hub := NewEventHub(zaptest.NewLogger(t).Sugar())
	ts := httptest.NewServer(New(Config{Events: hub}))
	defer ts.Close()

	conn := dialEvents(t, ts)
	waitForClients(t, hub, 1)

	hub.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to close")
	}
	if hub.Clients() != 0 {
		t.Errorf("clients = %d after Close", hub.Clients())
	}
}

func readPart(t *testing.T, r *bufio.Reader) []byte {
	t.Helper()

	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read part header: %v", err)
		}
		line = strings.TrimSpace(line)
		if line == "" && length >= 0 {
			break
		}
		if v, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				t.Fatalf("bad Content-Length %q", v)
			}
			length = n
		}
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		t.Fatalf("read part body: %v", err)
	}
	return body
}

func TestStreamSink_ServesLatestFrame(t *testing.T) {
	sink := NewStreamSink()
	ts := httptest.NewServer(New(Config{Stream: sink}))
	defer ts.Close()
	defer sink.Close()

	sink.update([]byte("first"))

	resp, err := http.Get(ts.URL + "/api/stream")
	if err != nil {
		t.Fatalf("GET /api/stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("Content-Type = %s", ct)
	}

	r := bufio.NewReader(resp.Body)
	if got := readPart(t, r); !bytes.Equal(got, []byte("first")) {
		t.Errorf("first part = %q", got)
	}

	sink.update([]byte("second frame"))
	if got := readPart(t, r); !bytes.Equal(got, []byte("second frame")) {
		t.Errorf("second part = %q", got)
	}
}

func TestStreamSink_CloseEndsStream(t *testing.T) {
	sink := NewStreamSink()
	ts := httptest.NewServer(New(Config{Stream: sink}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stream")
	if err != nil {
		t.Fatalf("GET /api/stream: %v", err)
	}
	defer resp.Body.Close()

	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := io.ReadAll(resp.Body)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("read stream: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end after Close")
	}

	// Frames after Close are dropped.
	sink.update([]byte("late"))
	if jpeg, _, ok := sink.next(); ok || len(jpeg) != 0 {
		t.Errorf("next() = %q, %v after Close", jpeg, ok)
	}
}

func TestServer_ListenAndServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	s := New(Config{Stream: NewStreamSink(), Events: NewEventHub(nil), Logger: zaptest.NewLogger(t).Sugar()})
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe(ctx, addr) }()

	var resp *http.Response
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err = http.Get("http://" + addr + "/api/health")
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
