package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/session"
)

// Command types accepted from clients.
const (
	CommandMove  = "move"
	CommandReset = "reset"
	CommandLoad  = "load"
	CommandNext  = "next"
)

// KindError marks a Message that reports a failed command.
const KindError = "error"

var errBadCommand = errors.New("ws: bad command")

// Command is a client request.
type Command struct {
	Type string `json:"type"`
	Dir  string `json:"dir,omitempty"`
	Name string `json:"name,omitempty"`
}

// Message is pushed to the client for every update and for failed commands.
type Message struct {
	Kind  string          `json:"kind"`
	Enemy *int            `json:"enemy,omitempty"`
	Pos   *core.Pos       `json:"pos,omitempty"`
	State *wappo.Snapshot `json:"state,omitempty"`
	Error string          `json:"error,omitempty"`
}

// decodeCommand parses and checks a client request.
func decodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: %w", errBadCommand, err)
	}

	switch cmd.Type {
	case CommandMove:
		if _, ok := core.ParseDirection(cmd.Dir); !ok {
			return Command{}, fmt.Errorf("%w: unknown direction %q", errBadCommand, cmd.Dir)
		}
	case CommandLoad:
		if cmd.Name == "" {
			return Command{}, fmt.Errorf("%w: load needs a name", errBadCommand)
		}
	case CommandReset, CommandNext:
	default:
		return Command{}, fmt.Errorf("%w: unknown type %q", errBadCommand, cmd.Type)
	}
	return cmd, nil
}

// encodeUpdate renders an update in its wire form.
func encodeUpdate(u session.Update) ([]byte, error) {
	snap := u.State.Snapshot()
	msg := Message{
		Kind:  u.Kind.String(),
		State: &snap,
	}

	if u.Enemy >= 0 {
		enemy := u.Enemy
		msg.Enemy = &enemy
	}
	switch u.Kind {
	case session.UpdatePlayerMoved, session.UpdateEnemyMoved, session.UpdateTrapCleared:
		pos := u.Pos
		msg.Pos = &pos
	}

	return json.Marshal(msg)
}

func encodeError(err error) []byte {
	data, _ := json.Marshal(Message{Kind: KindError, Error: err.Error()})
	return data
}
