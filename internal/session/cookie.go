// Package session carries an authenticated account between requests, either
// as an encrypted cookie for browsers or as a bearer token for API clients.
package session

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const accountIDKey = "account_id"

// CookieManager issues and reads the session cookie.
type CookieManager struct {
	store *sessions.CookieStore
	name  string
}

// NewCookieManager derives signing and encryption keys from secret.
func NewCookieManager(secret, name string, maxAge time.Duration, secure bool) *CookieManager {
	store := sessions.NewCookieStore(deriveKey(secret, "hash"), deriveKey(secret, "block"))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)
	return &CookieManager{store: store, name: name}
}

func deriveKey(secret, purpose string) []byte {
	sum := sha256.Sum256([]byte(purpose + ":" + secret))
	return sum[:]
}

// Name is the cookie name.
func (m *CookieManager) Name() string {
	return m.name
}

// Issue returns a cookie binding the session to accountID.
func (m *CookieManager) Issue(accountID string) (*http.Cookie, error) {
	values := map[interface{}]interface{}{accountIDKey: accountID}
	encoded, err := securecookie.EncodeMulti(m.name, values, m.store.Codecs...)
	if err != nil {
		return nil, fmt.Errorf("encoding session cookie: %w", err)
	}
	return sessions.NewCookie(m.name, encoded, m.store.Options), nil
}

// Clear returns a cookie that expires the session.
func (m *CookieManager) Clear() *http.Cookie {
	opts := *m.store.Options
	opts.MaxAge = -1
	return sessions.NewCookie(m.name, "", &opts)
}

// AccountID reads the account bound to the request's cookie.
// A missing, tampered or expired cookie yields ok == false.
func (m *CookieManager) AccountID(r *http.Request) (string, bool) {
	if _, err := r.Cookie(m.name); err != nil {
		return "", false
	}
	sess, err := m.store.Get(r, m.name)
	if err != nil || sess.IsNew {
		return "", false
	}
	id, ok := sess.Values[accountIDKey].(string)
	return id, ok && id != ""
}
