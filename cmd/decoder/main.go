// Command decoder connects to the game server's WebSocket as a given
// player and pretty-prints every incoming notification.
//
// Usage:
//
//	decoder -player <uuid>                      # connect to localhost:8200, print events
//	decoder -url ws://host:8200/game -player <uuid>
//	decoder -player <uuid> -stats 10            # print message rate stats every N seconds
//	decoder -player <uuid> -raw                 # print raw JSON instead of pretty form
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8200/game", "WebSocket endpoint")
	player := flag.String("player", "", "player_id to connect as (required)")
	statsInterval := flag.Int("stats", 0, "Print message rate stats every N seconds (0 = off)")
	raw := flag.Bool("raw", false, "Print raw JSON instead of a pretty one-line summary")
	flag.Parse()

	if *player == "" {
		log.Fatal("-player is required")
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	endpoint := fmt.Sprintf("%s?player_id=%s", *url, *player)
	log.Printf("connecting to %s", endpoint)
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	log.Println("connected")

	var msgCount uint64
	if *statsInterval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(*statsInterval) * time.Second)
			defer ticker.Stop()
			var last uint64
			for range ticker.C {
				cur := atomic.LoadUint64(&msgCount)
				delta := cur - last
				rate := float64(delta) / float64(*statsInterval)
				log.Printf("[stats] %d msgs total | %.1f msgs/sec", cur, rate)
				last = cur
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(200 * time.Millisecond)
		os.Exit(0)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		atomic.AddUint64(&msgCount, 1)

		if *raw {
			fmt.Println(string(data))
			continue
		}
		fmt.Println(summarize(data))
	}
}

// summarize renders one notification as a single human-readable line,
// falling back to the raw JSON for any shape it doesn't recognize.
func summarize(data []byte) string {
	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Sprintf("??? invalid JSON (%d bytes): %v", len(data), err)
	}

	kind, _ := envelope["type"].(string)
	switch kind {
	case "countdown":
		return fmt.Sprintf("[countdown] remaining=%v", envelope["remaining"])
	case "game_started":
		return fmt.Sprintf("[game_started] starting_price=%v players=%v", envelope["starting_price"], envelope["players"])
	case "price_changed":
		return fmt.Sprintf("[price_changed] player=%v price=%v", envelope["player_id"], envelope["price"])
	case "bid_placed", "ask_placed", "bid_canceled", "ask_canceled", "bid_filled", "ask_filled":
		return fmt.Sprintf("[%s] player=%v value=%v", kind, envelope["player_id"], envelope["value"])
	case "game_ended":
		return fmt.Sprintf("[game_ended] final_balances=%v", envelope["final_balances"])
	case "game_snapshot":
		return fmt.Sprintf("[game_snapshot] phase=%v ticks_remaining=%v account=%v", envelope["phase"], envelope["ticks_remaining"], envelope["account"])
	case "player_arrived", "player_ready", "player_unready", "player_disconnected":
		return fmt.Sprintf("[%s] player=%v", kind, envelope["player_id"])
	case "countdown_started", "countdown_tick":
		return fmt.Sprintf("[%s] remaining=%v", kind, envelope["remaining"])
	case "countdown_cancelled", "lobby_cancelled":
		return fmt.Sprintf("[%s]", kind)
	case "game_starting":
		return fmt.Sprintf("[game_starting] game_id=%v", envelope["game_id"])
	case "queue_joined", "queue_left", "queue_already_joined", "queue_not_joined", "queue_waiting":
		return fmt.Sprintf("[%s]", kind)
	case "queue_matched":
		return fmt.Sprintf("[queue_matched] players=%v", envelope["players"])
	default:
		return string(data)
	}
}
