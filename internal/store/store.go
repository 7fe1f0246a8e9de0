// Package store 会话持久化, 让多次命令行调用之间的枚举可以继续
package store

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrNoSession = errors.New("no saved session")

// Store keeps sessions in a badger database.
type Store struct {
	db *badger.DB
}

// Open opens, creating it if needed, the database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log.StandardLogger()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open session store %s", dir)
	}
	return &Store{db: db}, nil
}

func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(badgerLogger{log.StandardLogger()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open in-memory session store")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(key string, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Load returns the session saved under key, ErrNoSession if there is none.
func (s *Store) Load(key string) (*Session, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load session %s", key)
	}
	session := &Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, errors.Wrapf(err, "decode session %s", key)
	}
	return session, nil
}

func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// badgerLogger demotes badger's chatter by one level.
type badgerLogger struct {
	l *log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Errorf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warnf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debugf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Tracef(format, args...)
}
