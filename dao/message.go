package dao

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/adammarchelino/portfolio/model"
	"github.com/asdine/storm/v3"
	"github.com/google/uuid"
)

type MessageDao interface {
	// Create stores msg in collection and returns the record with its assigned id and timestamp
	Create(collection string, msg model.NewMessage) (model.Message, error)
	// GetOneById returns message of collection by id
	GetOneById(collection, id string) (model.Message, error)
	// GetAllNewestFirst returns all messages of collection, newest first
	GetAllNewestFirst(collection string) ([]model.Message, error)
}

func NewMessageDao(db Db) MessageDao {
	return &messageDao{db: db, now: time.Now, initialized: map[string]bool{}}
}

type messageDao struct {
	db  Db
	now func() time.Time

	mu          sync.Mutex
	initialized map[string]bool
}

func (d *messageDao) node(collection string) (storm.Node, error) {
	node := d.db.From(collection)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized[collection] {
		//creates buckets and indexes so reads on an empty collection do not fail
		if err := node.Init(&model.Message{}); err != nil {
			return nil, err
		}
		d.initialized[collection] = true
	}
	return node, nil
}

func (d *messageDao) Create(collection string, msg model.NewMessage) (model.Message, error) {
	node, err := d.node(collection)
	if err != nil {
		return model.Message{}, err
	}

	record := model.Message{
		Id:        uuid.NewString(),
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
		Timestamp: d.now().UTC(),
		UserId:    msg.UserId,
	}
	if err := node.Save(&record); err != nil {
		return model.Message{}, err
	}
	return record, nil
}

func (d *messageDao) GetOneById(collection, id string) (message model.Message, err error) {
	node, err := d.node(collection)
	if err != nil {
		return
	}
	err = node.One("Id", id, &message)
	return
}

func (d *messageDao) GetAllNewestFirst(collection string) ([]model.Message, error) {
	node, err := d.node(collection)
	if err != nil {
		return nil, err
	}

	messages := []model.Message{}
	err = node.All(&messages)
	if errors.Is(err, storm.ErrNotFound) {
		return []model.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	//storm indexes time.Time by its encoded form, which does not sort chronologically
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.After(messages[j].Timestamp)
	})
	return messages, nil
}
