package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Verification failures. The middleware maps all of them to 401; the split
// exists for logging and for the client to tell a stale session from a forged
// one.
var (
	ErrMissingHash      = errors.New("init data: hash is missing")
	ErrInvalidSignature = errors.New("init data: signature mismatch")
	ErrExpired          = errors.New("init data: outdated")
	ErrMalformedUser    = errors.New("init data: user field missing or malformed")
)

// MaxAge is how long a signed envelope stays valid.
const MaxAge = 24 * time.Hour

// Identity is the verified Telegram user carried by an init data envelope.
// ID is the only field trusted for authorization decisions.
type Identity struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	PhotoURL     string `json:"photo_url"`
	LanguageCode string `json:"language_code"`
}

// Verifier validates Telegram Mini App init data against the bot token.
type Verifier struct {
	token string
	now   func() time.Time
}

func NewVerifier(botToken string) *Verifier {
	return &Verifier{token: botToken, now: time.Now}
}

// Verify checks the envelope's signature and freshness and returns the
// embedded identity. Pure: no side effects, callers decide what to do with
// the result.
//
// The algorithm mirrors the Telegram Web App contract: drop the hash field,
// sort the remaining key=value pairs, join with newlines, then
// HMAC-SHA256(HMAC-SHA256("WebAppData", botToken), checkString) must equal
// the provided hash.
func (v *Verifier) Verify(raw string) (*Identity, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, ErrMalformedUser
	}

	providedHash := values.Get("hash")
	if providedHash == "" {
		return nil, ErrMissingHash
	}
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(v.token))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	computed := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(computed), []byte(providedHash)) != 1 {
		return nil, ErrInvalidSignature
	}

	// Replay protection: reject envelopes older than MaxAge.
	if authDate, _ := strconv.ParseInt(values.Get("auth_date"), 10, 64); authDate > 0 {
		if v.now().Unix()-authDate > int64(MaxAge.Seconds()) {
			return nil, ErrExpired
		}
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, ErrMalformedUser
	}

	var ident Identity
	if err := json.Unmarshal([]byte(userJSON), &ident); err != nil {
		return nil, ErrMalformedUser
	}
	if ident.ID == 0 || ident.FirstName == "" {
		return nil, ErrMalformedUser
	}

	return &ident, nil
}
