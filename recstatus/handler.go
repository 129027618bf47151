package recstatus

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Handler upgrades GET requests to a websocket and streams b's events
// to the connection as JSON until the client disconnects, matching the
// teacher's LogFeed handler shape (pkg/web/routes.go).
func Handler(b *Broadcaster) http.Handler {
	upgrader := websocket.Upgrader{}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "invalid request method", http.StatusMethodNotAllowed)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer conn.Close()

		feed, cancel := b.Subscribe()
		defer cancel()

		for ev := range feed {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	})
}
