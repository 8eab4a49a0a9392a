package pds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sati/internal/server"
	"github.com/desertthunder/sati/internal/shared"
	"golang.org/x/oauth2"
)

// signInTimeout bounds how long the sign-in flow waits for the callback.
const signInTimeout = 5 * time.Minute

// Session is the credential bundle for an authenticated user, keyed by the
// stable DID. The token is owned by the authorization layer; callers treat
// the whole bundle as opaque.
type Session struct {
	DID    string        `json:"did"`
	Handle string        `json:"handle"`
	Token  *oauth2.Token `json:"token"`
}

// HandleResolver resolves a user handle to a DID.
type HandleResolver interface {
	ResolveHandle(ctx context.Context, handle string) (string, error)
}

// SessionManager owns the process's single session: restoring it from the
// persisted session file, creating it through the interactive sign-in flow,
// and clearing it on sign-out. At most one session is active at a time;
// [SessionManager.Current] returns nil when unauthenticated.
type SessionManager struct {
	config       *oauth2.Config
	host         string
	callbackAddr string
	path         string
	resolver     HandleResolver
	logger       *log.Logger
	httpClient   *http.Client
	current      *Session

	openURL func(string) error
}

// NewSessionManager creates a session manager from the application config.
func NewSessionManager(cfg *shared.Config, resolver HandleResolver, logger *log.Logger) *SessionManager {
	host := strings.TrimRight(cfg.PDS.Host, "/")
	if host == "" {
		host = defaultHost
	}

	oauthConfig := &oauth2.Config{
		ClientID:    cfg.OAuth.ClientID,
		RedirectURL: cfg.OAuth.RedirectURI,
		Scopes:      strings.Fields(cfg.OAuth.Scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:  host + "/oauth/authorize",
			TokenURL: host + "/oauth/token",
		},
	}

	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SessionManager{
		config:       oauthConfig,
		host:         host,
		callbackAddr: cfg.CallbackAddr(),
		path:         cfg.SessionPath(),
		resolver:     resolver,
		logger:       logger,
		httpClient:   http.DefaultClient,
		openURL:      shared.OpenBrowser,
	}
}

// Current returns the active session, or nil when unauthenticated.
func (m *SessionManager) Current() *Session {
	return m.current
}

// InitOrRestore hydrates a session from the persisted session file.
//
// Any failure (missing file, unreadable JSON, incomplete session) is logged
// and treated as "no session" rather than surfaced as an error, so the
// caller always lands in a usable signed-out state.
func (m *SessionManager) InitOrRestore(ctx context.Context) *Session {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("could not read session file", "path", m.path, "error", err)
		}
		return nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		m.logger.Warn("session restoration failed", "error", fmt.Errorf("%w: %v", shared.ErrSessionRestore, err))
		return nil
	}

	if sess.DID == "" || sess.Token == nil {
		m.logger.Warn("session restoration failed", "error", fmt.Errorf("%w: incomplete session", shared.ErrSessionRestore))
		return nil
	}

	m.current = &sess
	m.logger.Info("session restored", "did", sess.DID, "handle", sess.Handle)
	return m.current
}

// BeginInteractiveSignIn runs the redirect-based authorization flow for handle.
//
// Resolves the handle to a DID, opens the system browser at the authorization
// URL, waits on the loopback callback server for the exchanged token, then
// persists and returns the new session. Failures surface as
// [shared.AuthError]; they are never swallowed.
func (m *SessionManager) BeginInteractiveSignIn(ctx context.Context, handle string) (*Session, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, shared.NewAuthError(shared.ErrAuthFailed, "handle must not be empty")
	}

	did, err := m.resolver.ResolveHandle(ctx, handle)
	if err != nil {
		return nil, shared.NewAuthError(shared.ErrAuthFailed, fmt.Sprintf("could not resolve handle %q: %v", handle, err))
	}

	state := shared.GenerateID()
	handler := server.NewOAuthHandler(m.config, state)

	router := server.NewBasicRouter()
	router.Use(server.Logging(m.logger))
	router.Handler(handler)

	srv := &http.Server{Addr: m.callbackAddr, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			handler.Send(server.NewOAuthError(fmt.Errorf("callback server failed: %w", err)))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := m.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("login_hint", handle),
	)

	if err := m.openURL(authURL); err != nil {
		return nil, shared.NewAuthError(shared.ErrAuthFailed, fmt.Sprintf("could not open browser: %v", err))
	}

	m.logger.Info("waiting for authorization", "handle", handle, "callback", m.callbackAddr)

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return nil, shared.NewAuthError(shared.ErrAuthFailed, result.Error().Error())
		}
		if result.Token == nil {
			return nil, shared.NewAuthError(shared.ErrAuthFailed, "authorization flow produced no token")
		}

		m.current = &Session{DID: did, Handle: handle, Token: result.Token}
		if err := m.persist(); err != nil {
			// Session stays usable for this process even if persistence fails.
			m.logger.Warn("could not persist session", "error", err)
		}

		m.logger.Info("signed in", "did", did, "handle", handle)
		return m.current, nil

	case <-time.After(signInTimeout):
		return nil, shared.NewAuthError(shared.ErrTimeout, "authorization flow timed out")

	case <-ctx.Done():
		return nil, shared.NewAuthError(shared.ErrAuthFailed, ctx.Err().Error())
	}
}

// SignOut revokes the current session remotely (best effort) and always
// clears the local session reference and persisted file. Revocation failure
// is logged and never blocks the local clear.
func (m *SessionManager) SignOut(ctx context.Context) {
	if m.current == nil {
		return
	}

	if err := m.revoke(ctx, m.current.Token); err != nil {
		m.logger.Warn("remote revocation failed", "error", fmt.Errorf("%w: %v", shared.ErrRevokeFailed, err))
	}

	m.current = nil

	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		m.logger.Warn("could not remove session file", "path", m.path, "error", err)
	}

	m.logger.Info("signed out")
}

// AuthClient returns an http.Client that attaches the current session's
// token to each request and refreshes it through the token endpoint as
// needed. Fails with [shared.AuthError] when no session is active.
func (m *SessionManager) AuthClient(ctx context.Context) (*http.Client, error) {
	if m.current == nil {
		return nil, shared.NewAuthError(shared.ErrNotLoggedIn, "")
	}
	return m.config.Client(ctx, m.current.Token), nil
}

// persist writes the current session to the session file with owner-only permissions.
func (m *SessionManager) persist() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(m.current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// revoke POSTs the session's refresh token (falling back to the access
// token) to the authorization server's revocation endpoint.
func (m *SessionManager) revoke(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return nil
	}

	revoked := token.RefreshToken
	if revoked == "" {
		revoked = token.AccessToken
	}

	form := url.Values{}
	form.Set("token", revoked)
	form.Set("client_id", m.config.ClientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.host+"/oauth/revoke", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &shared.APIError{StatusCode: resp.StatusCode, Message: "revocation rejected"}
	}

	return nil
}
