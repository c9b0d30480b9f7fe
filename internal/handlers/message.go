// internal/handlers/message.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/avelikov/guildbot/internal/auth"
	"github.com/avelikov/guildbot/internal/models"
	"github.com/avelikov/guildbot/internal/router"
)

// MessageHandler accepts one inbound chat message over HTTP and returns
// the bot's reply, if any. Bridges that cannot hold a websocket open use
// this instead of /bridge/ws.
func MessageHandler(logger *logrus.Logger, rt *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		bridgeID, err := auth.AuthenticateJWT(requestToken(r))
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		var msg models.InboundMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, "invalid message payload", http.StatusBadRequest)
			return
		}
		if msg.ChatID == 0 || msg.UserID == 0 {
			http.Error(w, "missing chat_id or user_id", http.StatusBadRequest)
			return
		}

		reply := rt.HandleMessage(r.Context(), msg)
		if reply == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		logger.WithFields(logrus.Fields{
			"bridge": bridgeID,
			"chat":   msg.ChatID,
		}).Debug("command handled")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(models.OutboundMessage{ChatID: msg.ChatID, Text: reply}); err != nil {
			http.Error(w, "failed to write response", http.StatusInternalServerError)
			return
		}
	}
}
