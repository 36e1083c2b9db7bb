package auth

import (
	"context"
	"sync"
)

type Event string

const (
	EventSignedIn         Event = "SIGNED_IN"
	EventSignedOut        Event = "SIGNED_OUT"
	EventTokenRefreshed   Event = "TOKEN_REFRESHED"
	EventPasswordRecovery Event = "PASSWORD_RECOVERY"
)

// SessionListener is called after every session change. session is nil once signed out.
type SessionListener func(event Event, session *Session)

// Client holds the session of one interactive user and notifies listeners of its changes.
type Client struct {
	svc *Service

	mu        sync.Mutex
	session   *Session
	listeners map[int]SessionListener
	nextID    int
}

func NewClient(svc *Service) *Client {
	return &Client{svc: svc, listeners: make(map[int]SessionListener)}
}

func (c *Client) setSession(event Event, s *Session) {
	c.mu.Lock()
	c.session = s
	listeners := make([]SessionListener, 0, len(c.listeners))
	for i := 0; i < c.nextID; i++ {
		if l, ok := c.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	c.mu.Unlock()

	for _, l := range listeners {
		var cp *Session
		if s != nil {
			sess := *s
			cp = &sess
		}
		l(event, cp)
	}
}

// SignIn authenticates with email and password and starts a session.
func (c *Client) SignIn(ctx context.Context, email, pwd string) (Session, error) {
	s, err := c.svc.SignIn(ctx, Credentials{Email: email, Password: pwd})
	if err != nil {
		return Session{}, err
	}
	c.setSession(EventSignedIn, &s)
	return s, nil
}

// SignUp creates an account and signs in with it.
func (c *Client) SignUp(ctx context.Context, na NewAccount) (Session, error) {
	acc, err := c.svc.SignUp(ctx, na)
	if err != nil {
		return Session{}, err
	}
	s, err := c.svc.IssueSession(acc)
	if err != nil {
		return Session{}, err
	}
	c.setSession(EventSignedIn, &s)
	return s, nil
}

// ResetPassword sends the password reset email. Unknown emails are not reported.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	if err := c.svc.RequestPasswordReset(ctx, email); err != nil && err != ErrNotFound {
		return err
	}
	return nil
}

// ConfirmPasswordReset sets the new password from a reset link and signs in with it.
func (c *Client) ConfirmPasswordReset(ctx context.Context, rp ResetPassword) (Session, error) {
	acc, err := c.svc.ResetPassword(ctx, rp)
	if err != nil {
		return Session{}, err
	}
	s, err := c.svc.IssueSession(acc)
	if err != nil {
		return Session{}, err
	}
	c.setSession(EventPasswordRecovery, &s)
	return s, nil
}

// Refresh renews the access token of the current session.
func (c *Client) Refresh(ctx context.Context) (Session, error) {
	cur, ok := c.GetSession()
	if !ok {
		return Session{}, ErrInvalidToken
	}
	s, err := c.svc.RefreshSession(ctx, cur.AccessToken)
	if err != nil {
		return Session{}, err
	}
	c.setSession(EventTokenRefreshed, &s)
	return s, nil
}

func (c *Client) SignOut() {
	c.setSession(EventSignedOut, nil)
}

// GetSession returns the current session, if any.
func (c *Client) GetSession() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// OnSessionChange registers fn and returns a func that unregisters it.
func (c *Client) OnSessionChange(fn SessionListener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}
