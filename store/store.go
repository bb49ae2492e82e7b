package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/adammarchelino/portfolio/dao"
	"github.com/adammarchelino/portfolio/log"
	"github.com/adammarchelino/portfolio/model"
	"github.com/cskr/pubsub"
)

const (
	topicPrefix = "collection:"
	capacity    = 16
)

// Snapshot is a complete view of a collection, newest message first. Receivers must not modify it.
type Snapshot []model.Message

type MessageStore interface {
	// Append adds msg to collection; the store assigns id and timestamp
	Append(ctx context.Context, collection string, msg model.NewMessage) (model.Message, error)
	// Subscribe delivers the current snapshot of collection and a fresh one after every append
	Subscribe(collection string) (Subscription, error)
}

type Subscription interface {
	// Snapshots is closed once the subscription has been cancelled
	Snapshots() <-chan Snapshot
	Unsubscribe()
}

type Store struct {
	messageDao dao.MessageDao
	ps         *pubsub.PubSub

	// serializes load+publish so subscribers never receive an older snapshot after a newer one
	pubMu sync.Mutex

	closeMu sync.RWMutex
	closed  bool
}

func NewStore(messageDao dao.MessageDao) *Store {
	return &Store{messageDao: messageDao, ps: pubsub.New(capacity)}
}

func topic(collection string) string {
	return topicPrefix + collection
}

func (s *Store) Append(ctx context.Context, collection string, msg model.NewMessage) (model.Message, error) {
	if err := ctx.Err(); err != nil {
		return model.Message{}, err
	}

	record, err := s.messageDao.Create(collection, msg)
	if err != nil {
		return model.Message{}, fmt.Errorf("append to %s: %w", collection, err)
	}

	s.publish(collection)

	return record, nil
}

func (s *Store) publish(collection string) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		return
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	snapshot, err := s.load(collection)
	if err != nil {
		log.ErrIfErr("Error loading snapshot of "+collection, err)
		return
	}
	s.ps.Pub(snapshot, topic(collection))
}

func (s *Store) load(collection string) (Snapshot, error) {
	messages, err := s.messageDao.GetAllNewestFirst(collection)
	if err != nil {
		return nil, err
	}
	return Snapshot(messages), nil
}

func (s *Store) Subscribe(collection string) (Subscription, error) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	in := s.ps.Sub(topic(collection))
	initial, err := s.load(collection)
	if err != nil {
		s.ps.Unsub(in, topic(collection))
		return nil, fmt.Errorf("subscribe to %s: %w", collection, err)
	}

	sub := &subscription{
		store: s,
		topic: topic(collection),
		in:    in,
		out:   make(chan Snapshot, 1),
	}
	sub.out <- initial
	go sub.pump()

	return sub, nil
}

// Close stops change notification; open subscriptions see their channels closed
func (s *Store) Close() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.ps.Shutdown()
}

type subscription struct {
	store *Store
	topic string
	in    chan interface{}
	out   chan Snapshot
	once  sync.Once
}

func (s *subscription) Snapshots() <-chan Snapshot {
	return s.out
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.store.closeMu.RLock()
		defer s.store.closeMu.RUnlock()
		if s.store.closed {
			//shutdown already closed the channel
			return
		}
		s.store.ps.Unsub(s.in, s.topic)
	})
}

func (s *subscription) pump() {
	defer close(s.out)
	for val := range s.in {
		snapshot, ok := val.(Snapshot)
		if !ok {
			continue
		}
		//only the latest snapshot matters, drop an unread one
		select {
		case <-s.out:
		default:
		}
		s.out <- snapshot
	}
}
