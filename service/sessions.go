package service

import (
	"errors"
	"time"

	"github.com/adammarchelino/portfolio/contact"
	"github.com/adammarchelino/portfolio/identity"
	"github.com/adammarchelino/portfolio/site"
	"github.com/adammarchelino/portfolio/util"
	"github.com/dchest/uniuri"
	"go.uber.org/zap"
)

const keyLen = 32

var ErrUnknownVisitor = errors.New("unknown visitor")

type visitor struct {
	page     *site.Page
	auth     *identity.Anonymous
	form     *contact.Form
	lastSeen time.Time
}

func (v *visitor) close() {
	v.form.Unmount()
	v.auth.SignOut()
}

func (s *service) newVisitor() *visitor {
	auth := identity.NewAnonymous(s.issuer, s.clock)
	form := contact.NewForm(contact.Deps{
		Identity: auth,
		Store:    s.store,
		Clock:    s.clock,
	}, contact.Options{
		Collection:       s.opts.Collection,
		StatusClearDelay: s.opts.StatusClearDelay,
	})

	return &visitor{
		page:     &site.Page{},
		auth:     auth,
		form:     form,
		lastSeen: s.clock.Now(),
	}
}

func (s *service) register() (string, *visitor, error) {
	v := s.newVisitor()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", nil, ErrClosed
	}
	var evicted *visitor
	if s.opts.MaxVisitors > 0 && len(s.visitors) >= s.opts.MaxVisitors {
		evicted = s.evictLocked()
	}
	key := uniuri.NewLen(keyLen)
	for s.visitors[key] != nil {
		key = uniuri.NewLen(keyLen)
	}
	s.visitors[key] = v
	s.mu.Unlock()

	if evicted != nil {
		zap.L().Info("Visitor limit reached, evicted the least recently seen visitor", zap.Int("limit", s.opts.MaxVisitors))
		evicted.close()
	}

	return key, v, nil
}

// evictLocked drops the least recently seen visitor and returns it for closing
func (s *service) evictLocked() *visitor {
	var oldestKey string
	var oldest *visitor
	for key, v := range s.visitors {
		if oldest == nil || v.lastSeen.Before(oldest.lastSeen) {
			oldestKey, oldest = key, v
		}
	}
	delete(s.visitors, oldestKey)
	return oldest
}

// visitor looks key up and marks the visitor as seen
func (s *service) visitor(key string) (*visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if util.IsBlank(key) {
		return nil, ErrUnknownVisitor
	}
	v, ok := s.visitors[key]
	if !ok {
		return nil, ErrUnknownVisitor
	}
	v.lastSeen = s.clock.Now()
	return v, nil
}

// RemoveIdle unmounts and drops visitors not seen for longer than the idle ttl
func (s *service) RemoveIdle() int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	now := s.clock.Now()
	var idle []*visitor
	for key, v := range s.visitors {
		if now.Sub(v.lastSeen) > s.opts.IdleTTL {
			idle = append(idle, v)
			delete(s.visitors, key)
		}
	}
	s.mu.Unlock()

	for _, v := range idle {
		v.close()
	}
	return len(idle)
}

func (s *service) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}
