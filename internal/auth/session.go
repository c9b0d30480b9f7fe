// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	signKey   ed25519.PrivateKey
	verifyKey ed25519.PublicKey

	// TokenTTL is how long issued bridge tokens stay valid. Zero means
	// tokens carry no expiry claim.
	TokenTTL time.Duration
)

// Init generates a fresh ed25519 key pair at runtime and reads the token
// lifetime from TOKEN_EXPIRE_TIME. Tokens do not survive a restart;
// bridges simply log in again.
func Init() {
	var err error
	verifyKey, signKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		fmt.Printf("failed to generate ed25519 key pair: %v\n", err)
		os.Exit(1)
	}
	if TokenTTL, err = tokenTTLFromEnv(); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

// InitFromPath loads an ed25519 key pair from disk instead of generating
// one, so issued tokens stay valid across restarts.
func InitFromPath(privatePath, publicPath string) error {
	priv, err := os.ReadFile(privatePath)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}
	pub, err := os.ReadFile(publicPath)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}
	signKey = ed25519.PrivateKey(priv)
	verifyKey = ed25519.PublicKey(pub)
	TokenTTL, err = tokenTTLFromEnv()
	return err
}

func tokenTTLFromEnv() (time.Duration, error) {
	v := os.Getenv("TOKEN_EXPIRE_TIME")
	if v == "" || v == "0" || v == "never" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse TOKEN_EXPIRE_TIME: %w", err)
	}
	return d, nil
}

// CreateJWT signs a token carrying the bridge id as its subject.
func CreateJWT(bridgeID string) (string, error) {
	claims := jwt.RegisteredClaims{Subject: bridgeID}
	if TokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(TokenTTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(signKey)
}

// AuthenticateJWT verifies a token and returns the bridge id it was
// issued to.
func AuthenticateJWT(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return verifyKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	sub, err := t.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}
