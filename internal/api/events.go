package api

import (
	"fmt"
	"net/http"
	"time"
)

// ChangeFeed publishes the names of tables whose rows changed. Satisfied by
// the postgres change listener.
type ChangeFeed interface {
	Subscribe() (<-chan string, func())
}

// streamEvents pushes table-change notifications as server-sent events so
// dashboards can refresh without polling. The stream stays open until the
// client disconnects or the feed shuts down.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	ch, cancel := h.changes.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Long-lived stream: lift the server's write deadline for this response.
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})
	_ = rc.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case table, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", table)
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
