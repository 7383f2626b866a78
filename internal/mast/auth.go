package mast

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/duytnguyendtn/astroquery/internal/models"
	"github.com/duytnguyendtn/astroquery/internal/tokens"
)

const (
	sessionInfoPath = "/api/v0.1/Mashup/Login/SessionInfo"

	// EnvTokenVariable is consulted when no explicit token is supplied.
	EnvTokenVariable = "MAST_API_TOKEN"

	tokenHelpURL = "https://auth.mast.stsci.edu/token?suggested_name=Astroquery&suggested_scope=mast:exclusive_access"
)

// TokenPrompt asks the user for a token interactively. Swapped out in
// tests and non-interactive environments.
type TokenPrompt func() (string, error)

// MastAuth holds the authentication state for a session and performs
// login, logout and session-info lookups against the Mashup login
// service.
type MastAuth struct {
	session       *Session
	store         *tokens.Store
	prompt        TokenPrompt
	token         string
	authenticated bool
}

func NewMastAuth(session *Session, store *tokens.Store) *MastAuth {
	return &MastAuth{
		session: session,
		store:   store,
		prompt:  terminalTokenPrompt,
	}
}

// NewAuthenticatedMastAuth builds an auth delegate and eagerly logs in
// with the supplied token.
func NewAuthenticatedMastAuth(ctx context.Context, session *Session, store *tokens.Store, token string) (*MastAuth, error) {
	auth := NewMastAuth(session, store)
	if err := auth.Login(ctx, token, false, false); err != nil {
		return nil, err
	}
	return auth, nil
}

// SetTokenPrompt replaces the interactive token prompt.
func (a *MastAuth) SetTokenPrompt(prompt TokenPrompt) {
	a.prompt = prompt
}

// Login resolves a token and verifies it against the login service.
// Token sources, in order: the explicit argument, $MAST_API_TOKEN, the
// local token store, an interactive prompt. reenterToken skips the
// stored sources and always prompts; storeToken persists an accepted
// token for later sessions.
func (a *MastAuth) Login(ctx context.Context, token string, storeToken bool, reenterToken bool) error {

	token, err := a.resolveToken(token, reenterToken)
	if err != nil {
		return err
	}

	if len(token) == 0 {
		return fmt.Errorf("%w: no token supplied", ErrInvalidToken)
	}

	info, err := a.fetchSessionInfo(ctx, token)
	if err != nil {
		return err
	}

	if info.Anonymous {
		return fmt.Errorf("%w: token did not produce an authenticated session (get one at %s)",
			ErrInvalidToken, tokenHelpURL)
	}

	a.token = token
	a.authenticated = true
	a.session.SetAuthToken(token)

	logrus.WithField("user", info.Username()).Infoln("MAST login successful")

	if storeToken && a.store != nil {
		if err := a.store.Put(a.session.Hostname(), token); err != nil {
			logrus.WithError(err).Warnln("Failed to store MAST token")
		}
	}

	return nil
}

func (a *MastAuth) resolveToken(token string, reenterToken bool) (string, error) {

	if reenterToken {
		return a.promptForToken()
	}

	if len(token) > 0 {
		return token, nil
	}

	if envToken := os.Getenv(EnvTokenVariable); len(envToken) > 0 {
		logrus.Debugf("Using token from $%s", EnvTokenVariable)
		return envToken, nil
	}

	if a.store != nil {
		if stored := a.store.Get(a.session.Hostname()); len(stored) > 0 {
			logrus.Debugln("Using token from local token store")
			return stored, nil
		}
	}

	return a.promptForToken()
}

func (a *MastAuth) promptForToken() (string, error) {
	if a.prompt == nil {
		return "", fmt.Errorf("%w: no token available and no prompt configured", ErrInvalidToken)
	}
	return a.prompt()
}

// SessionInfo returns the server's view of the current session. With
// verbose set the identity fields are also logged. Anonymous sessions
// are a valid answer, not an error.
func (a *MastAuth) SessionInfo(ctx context.Context, verbose bool) (models.SessionInfo, error) {

	info, err := a.fetchSessionInfo(ctx, a.token)
	if err != nil {
		return models.SessionInfo{}, err
	}

	if verbose {
		logrus.WithFields(logrus.Fields{
			"eppn":   info.EPPN,
			"ezid":   info.EzID,
			"anon":   info.Anonymous,
			"scopes": info.Scopes,
		}).Infoln("MAST session info")
	}

	return info, nil
}

// Logout discards the session credentials. The MAST token model is
// stateless server-side, so logout is purely local.
func (a *MastAuth) Logout(ctx context.Context) error {
	a.token = ""
	a.authenticated = false
	a.session.ClearAuth()

	logrus.Infoln("Logged out of MAST")
	return nil
}

func (a *MastAuth) IsAuthenticated() bool {
	return a.authenticated
}

func (a *MastAuth) fetchSessionInfo(ctx context.Context, token string) (models.SessionInfo, error) {

	req := a.session.R().
		SetContext(ctx)

	if len(token) > 0 {
		req.SetAuthToken(token)
	}

	var info models.SessionInfo
	resp, err := req.
		SetResult(&info).
		Get(sessionInfoPath)

	if err != nil {
		return models.SessionInfo{}, fmt.Errorf("session info request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return info, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.SessionInfo{}, ErrInvalidToken
	default:
		return models.SessionInfo{}, fmt.Errorf("session info returned %d: %s",
			resp.StatusCode(), resp.Status())
	}
}

func terminalTokenPrompt() (string, error) {
	fmt.Fprintf(os.Stderr, "Enter MAST token (from %s): ", tokenHelpURL)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return string(raw), nil
}
