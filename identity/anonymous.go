package identity

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

type Provider interface {
	// EstablishAnonymousSession signs in anonymously and returns the session uid
	EstablishAnonymousSession(ctx context.Context) (string, error)
	// OnIdentityChange registers listener for later changes; an empty uid means the session ended
	OnIdentityChange(listener func(uid string)) (unsubscribe func())
}

// Anonymous is one visitor's view of the anonymous session: at most one uid at a time
type Anonymous struct {
	issuer *Issuer
	clock  clock.Clock

	mu        sync.Mutex
	token     string
	uid       string
	expiry    *clock.Timer
	listeners map[int]func(string)
	nextId    int
}

func NewAnonymous(issuer *Issuer, clk clock.Clock) *Anonymous {
	return &Anonymous{issuer: issuer, clock: clk, listeners: map[int]func(string){}}
}

func (a *Anonymous) EstablishAnonymousSession(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.mu.Lock()
	if a.uid != "" {
		uid := a.uid
		a.mu.Unlock()
		return uid, nil
	}
	a.mu.Unlock()

	token, _, err := a.issuer.Issue()
	if err != nil {
		return "", err
	}
	//round trip so a misconfigured issuer fails here rather than on first use
	claims, err := a.issuer.Parse(token)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	if a.uid != "" {
		//lost a race with a concurrent sign-in
		uid := a.uid
		a.mu.Unlock()
		return uid, nil
	}
	a.token = token
	a.uid = claims.Subject
	a.expiry = a.clock.AfterFunc(claims.ExpiresAt.Time.Sub(a.clock.Now()), func() {
		a.end(token)
	})
	listeners := a.listenersLocked()
	a.mu.Unlock()

	zap.L().Debug("Anonymous session established", zap.String("uid", claims.Subject))
	notify(listeners, claims.Subject)

	return claims.Subject, nil
}

func (a *Anonymous) OnIdentityChange(listener func(uid string)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextId
	a.nextId++
	a.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			delete(a.listeners, id)
		})
	}
}

// SignOut ends the current session, listeners observe an empty uid
func (a *Anonymous) SignOut() {
	a.mu.Lock()
	token := a.token
	a.mu.Unlock()
	if token != "" {
		a.end(token)
	}
}

// Identity returns the uid of the current session or an empty string
func (a *Anonymous) Identity() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uid
}

// Token returns the signed token of the current session or an empty string
func (a *Anonymous) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

func (a *Anonymous) end(token string) {
	a.mu.Lock()
	if a.token != token {
		//a newer session replaced the one this call refers to
		a.mu.Unlock()
		return
	}
	if a.expiry != nil {
		a.expiry.Stop()
		a.expiry = nil
	}
	uid := a.uid
	a.token = ""
	a.uid = ""
	listeners := a.listenersLocked()
	a.mu.Unlock()

	zap.L().Debug("Anonymous session ended", zap.String("uid", uid))
	notify(listeners, "")
}

func (a *Anonymous) listenersLocked() []func(string) {
	listeners := make([]func(string), 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	return listeners
}

func notify(listeners []func(string), uid string) {
	for _, l := range listeners {
		l(uid)
	}
}
