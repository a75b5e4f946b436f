// Package sharetoken issues and verifies stateless share attribution tokens.
//
// Wire format: base64url(JSON payload) + "." + base64url(HMAC-SHA256(secret, encoded payload)).
// Tokens are unforgeable but not revocable; there is no server-side blacklist.
package sharetoken

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"
)

// MaxAge is the validity window measured from the payload's issued_at.
const MaxAge = 30 * 24 * time.Hour

// Payload field order is fixed; the encoded form is what gets signed, so it
// must stay byte-stable across releases.
type Payload struct {
	PostID      string `json:"post_id"`
	Channel     string `json:"channel"`
	ActorUserID string `json:"actor_user_id"`
	IssuedAt    int64  `json:"issued_at"`
	Nonce       string `json:"nonce"`
}

type Signer struct {
	secret []byte
	now    func() time.Time
}

func New(secret []byte) *Signer {
	return &Signer{secret: secret, now: time.Now}
}

// ResolveSecret picks the HMAC key material: the configured secret first,
// then SHARE_TOKEN_SECRET, then SESSION_SECRET, then a hardcoded last resort
// so the signer never ends up keyless.
func ResolveSecret(configured string) []byte {
	for _, s := range []string{configured, os.Getenv("SHARE_TOKEN_SECRET"), os.Getenv("SESSION_SECRET")} {
		if s != "" {
			return []byte(s)
		}
	}
	return []byte("waggle-share-token-fallback")
}

// Sign fills IssuedAt and Nonce if unset and returns the encoded token.
func (s *Signer) Sign(p Payload) (string, error) {
	if p.IssuedAt == 0 {
		p.IssuedAt = s.now().Unix()
	}
	if p.Nonce == "" {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", err
		}
		p.Nonce = hex.EncodeToString(buf[:])
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + s.sign(encoded), nil
}

// Verify checks the token's signature, binding to expectedPostID (skipped when
// empty) and the 30-day window. Structural deviations make the token invalid;
// Verify never returns an error.
func (s *Signer) Verify(token, expectedPostID string) (Payload, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return Payload{}, false
	}

	if !hmac.Equal([]byte(parts[1]), []byte(s.sign(parts[0]))) {
		return Payload{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Payload{}, false
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, false
	}

	if expectedPostID != "" && p.PostID != expectedPostID {
		return Payload{}, false
	}

	if s.now().Sub(time.Unix(p.IssuedAt, 0)) > MaxAge {
		return Payload{}, false
	}

	return p, true
}

func (s *Signer) sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
