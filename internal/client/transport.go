package client

import (
	"net/http"

	"github.com/rs/zerolog"
)

// authTransport attaches the session token to every request. A 401 answer
// ends the session: it is cleared and onUnauthorized runs if a token was sent.
type authTransport struct {
	base           http.RoundTripper
	sessions       *SessionManager
	onUnauthorized func()
	logger         zerolog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.sessions.Token()
	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := t.sessions.Clear(); err != nil {
			t.logger.Warn().Err(err).Msg("Failed to clear stored session")
		}
		if token != "" {
			t.logger.Info().Str("path", req.URL.Path).Msg("Session rejected by server, signed out")
			if t.onUnauthorized != nil {
				t.onUnauthorized()
			}
		}
	}
	return resp, nil
}
