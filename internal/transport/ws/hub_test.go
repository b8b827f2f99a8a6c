package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/games/wappo/levels"
	"github.com/vovakirdan/wappo/internal/session"
)

func startHub(t *testing.T) (*Hub, string, context.CancelFunc) {
	t.Helper()
	hub := NewHub(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	return hub, wsURL, cancel
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("cannot decode %s: %v", data, err)
	}
	return msg
}

func sendCommand(t *testing.T, conn *websocket.Conn, cmd Command) {
	t.Helper()
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(Options{})

	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.register == nil || hub.unregister == nil || hub.outbound == nil {
		t.Error("Hub channels are nil")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, expected 0", hub.ClientCount())
	}
}

func TestConnectSendsLoadedLevel(t *testing.T) {
	hub, wsURL, _ := startHub(t)
	conn := dial(t, wsURL)

	msg := readMessage(t, conn)
	if msg.Kind != "loaded" {
		t.Fatalf("first message kind = %q, expected loaded", msg.Kind)
	}
	if msg.State == nil || msg.State.Name != levels.DefaultName {
		t.Errorf("first message state = %+v, expected the default level", msg.State)
	}
	if msg.Enemy != nil {
		t.Errorf("loaded message enemy = %d, expected none", *msg.Enemy)
	}

	waitFor(t, "registration", func() bool { return hub.ClientCount() == 1 })
}

func TestMoveStreamsSubSteps(t *testing.T) {
	_, wsURL, _ := startHub(t)
	conn := dial(t, wsURL)
	readMessage(t, conn) // loaded

	sendCommand(t, conn, Command{Type: CommandMove, Dir: "down"})

	first := readMessage(t, conn)
	if first.Kind != "player_moved" {
		t.Fatalf("first kind = %q, expected player_moved", first.Kind)
	}
	if first.Pos == nil || *first.Pos != core.P(1, 0) {
		t.Errorf("player_moved pos = %v, expected (1,0)", first.Pos)
	}

	var kinds []string
	for {
		msg := readMessage(t, conn)
		kinds = append(kinds, msg.Kind)
		if msg.Kind == "enemy_moved" && (msg.Enemy == nil || *msg.Enemy != 0) {
			t.Errorf("enemy_moved without enemy index: %+v", msg)
		}
		if msg.Kind == "turn_ended" {
			if msg.State.Turn != wappo.TurnPlayer.String() {
				t.Errorf("turn after turn_ended = %q, expected player", msg.State.Turn)
			}
			break
		}
		if len(kinds) > 10 {
			t.Fatalf("no turn_ended after %v", kinds)
		}
	}
	if kinds[0] != "enemy_moved" {
		t.Errorf("kinds = %v, expected enemy_moved first", kinds)
	}
}

func TestLoadAndErrors(t *testing.T) {
	_, wsURL, _ := startHub(t)
	conn := dial(t, wsURL)
	readMessage(t, conn) // loaded

	sendCommand(t, conn, Command{Type: CommandLoad, Name: "Level 2"})
	msg := readMessage(t, conn)
	if msg.Kind != "loaded" || msg.State.Name != "Level 2" {
		t.Errorf("after load got %q %+v, expected Level 2 loaded", msg.Kind, msg.State)
	}

	sendCommand(t, conn, Command{Type: CommandLoad, Name: "nope"})
	msg = readMessage(t, conn)
	if msg.Kind != KindError || !strings.Contains(msg.Error, "nope") {
		t.Errorf("unknown level reply = %+v, expected an error naming it", msg)
	}

	sendCommand(t, conn, Command{Type: CommandNext})
	msg = readMessage(t, conn)
	if msg.Kind != KindError {
		t.Errorf("next on an unfinished level = %+v, expected an error", msg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{")); err != nil {
		t.Fatalf("WriteMessage() failed: %v", err)
	}
	msg = readMessage(t, conn)
	if msg.Kind != KindError {
		t.Errorf("malformed command reply = %+v, expected an error", msg)
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, wsURL, _ := startHub(t)
	conn := dial(t, wsURL)
	readMessage(t, conn)

	waitFor(t, "registration", func() bool { return hub.ClientCount() == 1 })
	conn.Close()
	waitFor(t, "unregistration", func() bool { return hub.ClientCount() == 0 })
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, wsURL, cancel := startHub(t)
	conn := dial(t, wsURL)
	readMessage(t, conn)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Errorf("ReadMessage() after shutdown error = %v, expected a close frame", err)
	}
	waitFor(t, "hub exit", func() bool { return hub.ClientCount() == 0 })
}

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"move", `{"type":"move","dir":"up"}`, false},
		{"reset", `{"type":"reset"}`, false},
		{"load", `{"type":"load","name":"Level 3"}`, false},
		{"next", `{"type":"next"}`, false},
		{"bad direction", `{"type":"move","dir":"north"}`, true},
		{"load without name", `{"type":"load"}`, true},
		{"unknown type", `{"type":"jump"}`, true},
		{"malformed", `{"type":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeCommand([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeCommand(%s) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errBadCommand) {
				t.Errorf("decodeCommand(%s) error = %v, expected errBadCommand", tt.data, err)
			}
		})
	}
}

func TestEncodeUpdate(t *testing.T) {
	s := levels.Default().MustState()

	data, err := encodeUpdate(session.Update{Kind: session.UpdateEnemyMoved, State: s, Enemy: 0, Pos: core.P(0, 4)})
	if err != nil {
		t.Fatalf("encodeUpdate() failed: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("cannot decode %s: %v", data, err)
	}
	if msg.Kind != "enemy_moved" {
		t.Errorf("Kind = %q, expected enemy_moved", msg.Kind)
	}
	if msg.Enemy == nil || *msg.Enemy != 0 {
		t.Errorf("Enemy = %v, expected 0", msg.Enemy)
	}
	if msg.Pos == nil || *msg.Pos != core.P(0, 4) {
		t.Errorf("Pos = %v, expected (0,4)", msg.Pos)
	}
	if msg.State == nil || msg.State.Rows != 6 || len(msg.State.Traps) != 2 {
		t.Errorf("State = %+v, expected the default 6x6 board with two traps", msg.State)
	}

	data, _ = encodeUpdate(session.Update{Kind: session.UpdateReset, State: s, Enemy: -1})
	if strings.Contains(string(data), `"enemy"`) || strings.Contains(string(data), `"pos"`) {
		t.Errorf("reset message %s should carry neither enemy nor pos", data)
	}
}
