package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/loginrelay/loginrelay/internal/infrastructure/sse"
)

// events streams login-attempt lifecycle events. An accountId query param
// narrows the stream to one account.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "response writer does not support streaming")
		return
	}

	accountID := r.URL.Query().Get("accountId")
	if accountID != "" && !validAccountID(accountID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "accountId must be a 10-digit phone number")
		return
	}

	client := sse.NewClient(uuid.NewString(), accountID)
	s.hub.Register(client)
	defer s.hub.Unregister(client.ClientID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-client.Events:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: attempt\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
