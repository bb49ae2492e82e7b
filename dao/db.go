package dao

import (
	"sync"
	"time"

	"github.com/asdine/storm/v3"
	bolt "go.etcd.io/bbolt"
)

// Db is the part of a storm database the DAOs use; each collection is a node
type Db interface {
	From(addr ...string) storm.Node
	Close() error
}

var (
	once     sync.Once
	instance Db
)

// GetClient opens the storm database at dbFilePath once per process
func GetClient(dbFilePath string) (Db, error) {
	var err error

	once.Do(func() {
		instance, err = open(dbFilePath)
	})

	return instance, err
}

func open(dbFilePath string) (*storm.DB, error) {
	return storm.Open(dbFilePath, storm.BoltOptions(0600, &bolt.Options{Timeout: 10 * time.Second, ReadOnly: false}))
}
