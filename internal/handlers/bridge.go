// internal/handlers/bridge.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/avelikov/guildbot/internal/auth"
)

type bridgeLoginRequest struct {
	BridgeID string `json:"bridge_id"`
	Secret   string `json:"secret"`
}

type bridgeLoginResponse struct {
	Token string `json:"token"`
}

// BridgeLoginHandler authenticates a chat bridge against the shared secret
// and returns a JWT. The secret is only stored as an argon2id hash in
// BRIDGE_SECRET_HASH.
//
// Request payload:
//
//	{
//	  "bridge_id": "vk-main",
//	  "secret": "..."
//	}
//
// Response payload:
//
//	{
//	  "token": "{jwt}"
//	}
//
// The token is also sent via the Cookie header.
func BridgeLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req bridgeLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if req.BridgeID == "" {
		http.Error(w, "missing bridge_id", http.StatusBadRequest)
		return
	}

	encodedHash := os.Getenv("BRIDGE_SECRET_HASH")
	if encodedHash == "" {
		http.Error(w, "bridge login is not configured", http.StatusServiceUnavailable)
		return
	}

	match, err := auth.CompareSecretAndHash(req.Secret, encodedHash)
	if err != nil || !match {
		log.Printf("failed bridge login attempt for %q: %v", req.BridgeID, err)
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	token, err := auth.CreateJWT(req.BridgeID)
	if err != nil {
		http.Error(w, "failed to create token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(bridgeLoginResponse{Token: token}); err != nil {
		http.Error(w, "failed to write response", http.StatusInternalServerError)
		return
	}
}
