package gameapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// stream upgrades to a websocket, sends the current snapshot and then every game event as JSON.
// The client may send move and restart commands on the same connection.
func (gc *GameController) stream(ctx *gin.Context) {
	sessionID, playerID, ok := sessionParams(ctx)
	if !ok {
		return
	}

	events, unsubscribe, err := gc.gameSessionManager.Subscribe(sessionID, playerID)
	if err != nil {
		writeSessionError(ctx, err)
		return
	}
	defer unsubscribe()

	conn, err := gc.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		gc.logger.Warning(fmt.Sprintf("upgrade error: %s", err))
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	write := func(msg StreamMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	snap, err := gc.gameSessionManager.State(timeoutCtx, sessionID, playerID)
	cancel()
	if err != nil {
		_ = write(StreamMessage{Type: streamError, Error: err.Error()})
		return
	}
	if err := write(StreamMessage{Type: streamSnapshot, Snapshot: &snap}); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		gc.readCommands(conn, sessionID, playerID, write)
	}()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game ended"))
				return
			}
			if err := write(StreamMessage{Type: streamEvent, Event: &e}); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// readCommands handles client frames until the connection closes.
func (gc *GameController) readCommands(conn *websocket.Conn, sessionID, playerID uuid.UUID, write func(StreamMessage) error) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = write(StreamMessage{Type: streamError, Error: "malformed message"})
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		switch msg.Type {
		case clientMove:
			_, _, err = gc.gameSessionManager.Move(ctx, sessionID, playerID, msg.Direction)
		case clientRestart:
			_, err = gc.gameSessionManager.Restart(ctx, sessionID, playerID)
		default:
			err = fmt.Errorf("unknown message type %q", msg.Type)
		}
		cancel()

		if err != nil {
			_ = write(StreamMessage{Type: streamError, Error: err.Error()})
		}
	}
}
