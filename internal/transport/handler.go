package transport

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// controlMessage is a client -> server command. Not every field
// applies to every action; unused fields are left zero.
type controlMessage struct {
	Action         string `json:"action"`
	GameId         string `json:"game_id,omitempty"`
	LobbyId        string `json:"lobby_id,omitempty"`
	Value          int32  `json:"value,omitempty"`
	PlayersToStart int    `json:"players_to_start,omitempty"`
}

// GameCommands is the subset of GameService a connection needs to
// place and cancel orders.
type GameCommands interface {
	PlaceBid(ctx context.Context, id ids.GameId, pid ids.PlayerId, value game.Price) error
	PlaceAsk(ctx context.Context, id ids.GameId, pid ids.PlayerId, value game.Price) error
	CancelBid(ctx context.Context, id ids.GameId, pid ids.PlayerId, price game.Price) error
	CancelAsk(ctx context.Context, id ids.GameId, pid ids.PlayerId, price game.Price) error
}

// LobbyCommands is the subset of LobbyService a connection needs to
// ready up.
type LobbyCommands interface {
	PlayerReady(ctx context.Context, id ids.LobbyId, pid ids.PlayerId) error
	PlayerUnready(ctx context.Context, id ids.LobbyId, pid ids.PlayerId) error
	PlayerDisconnected(ctx context.Context, id ids.LobbyId, pid ids.PlayerId) error
}

// QueueCommands is the subset of MatchmakingService a connection needs
// to join or leave the waiting room.
type QueueCommands interface {
	Join(ctx context.Context, pid ids.PlayerId, playersToStart int) error
	Leave(ctx context.Context, pid ids.PlayerId) error
}

// Handler builds the HTTP handler for WebSocket upgrades. The
// connecting player's identity is taken from the player_id query
// parameter, since this system has no separate auth layer: the same
// shape as the teacher's upgrade handler, generalized to key sessions
// by player rather than a monotonic connection counter.
// Handler builds the HTTP handler for WebSocket upgrades. defaultPlayersToStart
// fills in join_queue requests that omit players_to_start.
func Handler(mgr *Manager, games GameCommands, lobbies LobbyCommands, queue QueueCommands, defaultPlayersToStart int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := ids.ParsePlayerId(r.URL.Query().Get("player_id"))
		if err != nil {
			http.Error(w, "missing or invalid player_id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}

		c := NewClient(pid, conn)
		mgr.Register(pid, c)

		go writePump(c)
		// The request's own context is cancelled as soon as Upgrade
		// returns control to the server, so the pump runs against a
		// fresh background context for the life of the connection.
		go readPump(context.Background(), c, mgr, games, lobbies, queue, defaultPlayersToStart)
	}
}

func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.SendCh():
			if !ok {
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.Done():
			return
		}
	}
}

func readPump(ctx context.Context, c *Client, mgr *Manager, games GameCommands, lobbies LobbyCommands, queue QueueCommands, defaultPlayersToStart int) {
	defer func() {
		mgr.Unregister(c.PlayerId, c)
		if lid, ok := c.Lobby(); ok {
			if err := lobbies.PlayerDisconnected(ctx, lid, c.PlayerId); err != nil {
				log.Printf("player %s: disconnect notice to lobby %s failed: %v", c.PlayerId, lid, err)
			}
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("player %s read error: %v", c.PlayerId, err)
			}
			return
		}

		var ctrl controlMessage
		if err := json.Unmarshal(message, &ctrl); err != nil {
			log.Printf("player %s sent an invalid control message: %v", c.PlayerId, err)
			continue
		}

		handleControl(ctx, c, games, lobbies, queue, &ctrl, defaultPlayersToStart)
	}
}

func handleControl(ctx context.Context, c *Client, games GameCommands, lobbies LobbyCommands, queue QueueCommands, ctrl *controlMessage, defaultPlayersToStart int) {
	pid := c.PlayerId

	switch ctrl.Action {
	case "place_bid", "place_ask", "cancel_bid", "cancel_ask":
		gid, err := ids.ParseGameId(ctrl.GameId)
		if err != nil {
			log.Printf("player %s: invalid game_id: %v", pid, err)
			return
		}
		var err2 error
		switch ctrl.Action {
		case "place_bid":
			err2 = games.PlaceBid(ctx, gid, pid, game.Price(ctrl.Value))
		case "place_ask":
			err2 = games.PlaceAsk(ctx, gid, pid, game.Price(ctrl.Value))
		case "cancel_bid":
			err2 = games.CancelBid(ctx, gid, pid, game.Price(ctrl.Value))
		case "cancel_ask":
			err2 = games.CancelAsk(ctx, gid, pid, game.Price(ctrl.Value))
		}
		if err2 != nil {
			log.Printf("player %s: %s failed: %v", pid, ctrl.Action, err2)
		}

	case "ready", "unready":
		lid, err := ids.ParseLobbyId(ctrl.LobbyId)
		if err != nil {
			log.Printf("player %s: invalid lobby_id: %v", pid, err)
			return
		}
		var err2 error
		if ctrl.Action == "ready" {
			err2 = lobbies.PlayerReady(ctx, lid, pid)
			c.SetLobby(lid)
		} else {
			err2 = lobbies.PlayerUnready(ctx, lid, pid)
		}
		if err2 != nil {
			log.Printf("player %s: %s failed: %v", pid, ctrl.Action, err2)
		}

	case "join_queue":
		playersToStart := ctrl.PlayersToStart
		if playersToStart <= 0 {
			playersToStart = defaultPlayersToStart
		}
		if err := queue.Join(ctx, pid, playersToStart); err != nil {
			log.Printf("player %s: join_queue failed: %v", pid, err)
		}

	case "leave_queue":
		if err := queue.Leave(ctx, pid); err != nil {
			log.Printf("player %s: leave_queue failed: %v", pid, err)
		}

	default:
		log.Printf("player %s: unknown action %q", pid, ctrl.Action)
	}
}
