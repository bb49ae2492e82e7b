package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/adammarchelino/portfolio/contact"
	"github.com/adammarchelino/portfolio/identity"
	"github.com/adammarchelino/portfolio/service/dto"
	"github.com/adammarchelino/portfolio/site"
	"github.com/adammarchelino/portfolio/store"
	"github.com/adammarchelino/portfolio/util"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("service is closed")

type InvalidPayloadErr struct {
	message string
}

func (e *InvalidPayloadErr) Error() string {
	return e.message
}

func NewInvalidPayloadError(msg string) *InvalidPayloadErr {
	return &InvalidPayloadErr{message: msg}
}

type BusyErr struct {
	message string
}

func (e *BusyErr) Error() string {
	return e.message
}

func NewBusyError(msg string) *BusyErr {
	return &BusyErr{message: msg}
}

type Options struct {
	Collection       string
	StatusClearDelay time.Duration
	IdentityTimeout  time.Duration
	IdleTTL          time.Duration
	Sweep            time.Duration
	Webhook          string
	// live visitors kept at most, the least recently seen one is evicted first; zero means no limit
	MaxVisitors int
}

type Service interface {
	// Visit returns key when it names a live visitor, otherwise the key of a new one
	Visit(ctx context.Context, key string) (string, error)
	Page(ctx context.Context, key string) (site.View, error)
	Contact(ctx context.Context, key string) (dto.ContactState, error)
	Submit(ctx context.Context, key string, message dto.Message) (dto.ContactState, error)
	Watch(ctx context.Context, key string) (<-chan contact.State, func(), error)
	ToggleMenu(ctx context.Context, key string) (bool, error)
	ScrollTo(ctx context.Context, key, section string, fromMobile bool) (string, error)
	SignOut(ctx context.Context, key string) (dto.Session, error)
	Close()
}

type service struct {
	store     store.MessageStore
	issuer    *identity.Issuer
	clock     clock.Clock
	portfolio site.Portfolio
	opts      Options

	mu       sync.Mutex
	visitors map[string]*visitor
	closed   bool
	done     chan struct{}
}

func NewService(messageStore store.MessageStore, issuer *identity.Issuer, clk clock.Clock, portfolio site.Portfolio, opts Options) Service {
	service := newService(messageStore, issuer, clk, portfolio, opts)

	go service.Cleanup(clk.Ticker(service.opts.Sweep))

	return service
}

func newService(messageStore store.MessageStore, issuer *identity.Issuer, clk clock.Clock, portfolio site.Portfolio, opts Options) *service {
	if opts.IdentityTimeout <= 0 {
		opts.IdentityTimeout = 5 * time.Second
	}
	if opts.Sweep <= 0 {
		opts.Sweep = time.Hour
	}
	if !util.IsBlank(opts.Webhook) {
		messageStore = newNotifyingStore(messageStore, opts.Webhook)
	}

	return &service{
		store:     messageStore,
		issuer:    issuer,
		clock:     clk,
		portfolio: portfolio,
		opts:      opts,
		visitors:  map[string]*visitor{},
		done:      make(chan struct{}),
	}
}

// Cleanup drops idle visitors on every tick until the service is closed
func (s *service) Cleanup(ticker *clock.Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.RemoveIdle(); n > 0 {
				zap.L().Info("Removed idle visitors", zap.Int("count", n))
			}
		case <-s.done:
			return
		}
	}
}

func (s *service) Visit(ctx context.Context, key string) (string, error) {
	_, err := s.visitor(key)
	switch {
	case err == nil:
		return key, nil
	case errors.Is(err, ErrClosed):
		return "", err
	}

	key, v, err := s.register()
	if err != nil {
		return "", err
	}

	mountCtx, cancel := context.WithTimeout(ctx, s.opts.IdentityTimeout)
	defer cancel()
	v.form.Mount(mountCtx)

	zap.L().Debug("New visitor", zap.String("identity", v.auth.Identity()))

	return key, nil
}

func (s *service) Page(ctx context.Context, key string) (site.View, error) {
	v, err := s.visitor(key)
	if err != nil {
		return site.View{}, err
	}
	return v.page.Compose(s.portfolio, v.form.State(), s.clock.Now()), nil
}

func (s *service) Contact(ctx context.Context, key string) (dto.ContactState, error) {
	v, err := s.visitor(key)
	if err != nil {
		return dto.ContactState{}, err
	}
	return dto.FromState(v.form.State()), nil
}

func (s *service) Submit(ctx context.Context, key string, message dto.Message) (dto.ContactState, error) {
	v, err := s.visitor(key)
	if err != nil {
		return dto.ContactState{}, err
	}

	err = v.form.SubmitFields(ctx, contact.Fields{
		Name:    message.Name,
		Email:   message.Email,
		Message: message.Message,
	})
	state := dto.FromState(v.form.State())
	switch {
	case errors.Is(err, contact.ErrInvalidForm):
		return state, NewInvalidPayloadError("Nama, email yang valid, dan pesan wajib diisi")
	case errors.Is(err, contact.ErrInFlight):
		return state, NewBusyError("Pesan sedang dikirim")
	case err != nil:
		return state, err
	}

	return state, nil
}

func (s *service) Watch(ctx context.Context, key string) (<-chan contact.State, func(), error) {
	v, err := s.visitor(key)
	if err != nil {
		return nil, nil, err
	}
	states, cancel := v.form.Watch()
	return states, cancel, nil
}

func (s *service) ToggleMenu(ctx context.Context, key string) (bool, error) {
	v, err := s.visitor(key)
	if err != nil {
		return false, err
	}
	return v.page.ToggleMenu(), nil
}

func (s *service) ScrollTo(ctx context.Context, key, section string, fromMobile bool) (string, error) {
	v, err := s.visitor(key)
	if err != nil {
		return "", err
	}
	return v.page.ScrollToSection(section, fromMobile)
}

func (s *service) SignOut(ctx context.Context, key string) (dto.Session, error) {
	v, err := s.visitor(key)
	if err != nil {
		return dto.Session{}, err
	}
	v.auth.SignOut()
	return dto.Session{Active: v.auth.Identity() != ""}, nil
}

// Close unmounts every visitor; later calls fail with ErrClosed
func (s *service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	visitors := s.visitors
	s.visitors = map[string]*visitor{}
	s.mu.Unlock()

	for _, v := range visitors {
		v.close()
	}
}
