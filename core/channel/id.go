package channel

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// NewID returns a random opaque channel ID. IDs need only be unique and
// unguessable, not secret, so a UUIDv4 is sufficient.
func NewID() string {
	return uuid.NewString()
}

// tokenBytes is the size of a generated bearer token before base64url
// encoding; 32 bytes gives 256 bits of entropy.
const tokenBytes = 32

// NewToken returns a random, base64url-encoded bearer token suitable for
// the Authorization header a peer must present on this half-channel.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewHalf allocates a fresh Half for url, generating its ID and token.
func NewHalf(url string) (Half, error) {
	token, err := NewToken()
	if err != nil {
		return Half{}, err
	}
	return Half{ID: NewID(), URL: url, Token: token}, nil
}
