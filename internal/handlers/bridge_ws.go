// internal/handlers/bridge_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"

	"github.com/avelikov/guildbot/internal/auth"
	"github.com/avelikov/guildbot/internal/middleware"
	"github.com/avelikov/guildbot/internal/models"
	"github.com/avelikov/guildbot/internal/router"
)

const bridgeWriteTimeout = 10 * time.Second

// BridgeWSHandler upgrades the HTTP connection to a WebSocket carrying the
// chat bridge protocol: the bridge streams inbound chat messages as JSON
// and the server answers with outbound bot replies on the same socket.
// The bridge authenticates with the JWT obtained from /bridge/login.
func BridgeWSHandler(logger *logrus.Logger, rt *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bridgeID, err := auth.AuthenticateJWT(requestToken(r))
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"bridge"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for bridge %s: %v", bridgeID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "bridge" {
			logger.Warnf("Bridge %s connected with invalid subprotocol: %s", bridgeID, c.Subprotocol())
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'bridge' subprotocol.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		readErr := readBridgeLoop(r.Context(), c, logger, rt, bridgeID)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
		c.Close(websocket.StatusNormalClosure, "closing")
	}
}

// readBridgeLoop consumes inbound messages until the socket closes.
func readBridgeLoop(ctx context.Context, c *websocket.Conn, logger *logrus.Logger, rt *router.Router, bridgeID string) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg models.InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Bridge %s sent malformed message: %v", bridgeID, err)
			continue
		}
		if msg.ChatID == 0 || msg.UserID == 0 {
			continue
		}

		reply := rt.HandleMessage(ctx, msg)
		if reply == "" {
			continue
		}

		writeCtx, cancel := context.WithTimeout(ctx, bridgeWriteTimeout)
		err = wsjson.Write(writeCtx, c, models.OutboundMessage{ChatID: msg.ChatID, Text: reply})
		cancel()
		if err != nil {
			return err
		}
	}
}
