package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// State is the engine's durable KV store. Repositories compose their record
// keys from a namespace prefix so that several repositories can share one
// database file.
type State interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	KeysWithPrefix(prefix string) ([]string, error)
	Close() error
}

type LevelDBState struct {
	sync.Mutex
	stateDb     *leveldb.DB
	stateDbPath string
}

func NewLevelDBState(stateDbPath string) (*LevelDBState, error) {
	db, err := leveldb.OpenFile(stateDbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open stateDB: %w", err)
	}

	return &LevelDBState{
		stateDb:     db,
		stateDbPath: stateDbPath,
	}, nil
}

// Get returns nil without an error when the key is absent; repositories treat
// a nil value as "no record".
func (s *LevelDBState) Get(key string) ([]byte, error) {
	s.Lock()
	defer s.Unlock()

	value, err := s.stateDb.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get value with key {%s} from leveldb storage: %w", key, err)
	}
	return value, nil
}

func (s *LevelDBState) Set(key string, value []byte) error {
	s.Lock()
	defer s.Unlock()

	if err := s.stateDb.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("failed to save value with key %s: %w", key, err)
	}
	return nil
}

func (s *LevelDBState) Delete(key string) error {
	s.Lock()
	defer s.Unlock()

	if err := s.stateDb.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("failed to delete value with key %s: %w", key, err)
	}
	return nil
}

// KeysWithPrefix lists every key under the given namespace prefix. The
// sweeper uses this to scan the proposal namespace without a secondary index.
func (s *LevelDBState) KeysWithPrefix(prefix string) ([]string, error) {
	s.Lock()
	defer s.Unlock()

	var keys []string
	iter := s.stateDb.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	iter.Release()

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate over prefix %s: %w", prefix, err)
	}
	return keys, nil
}

func (s *LevelDBState) Close() error {
	s.Lock()
	defer s.Unlock()

	return s.stateDb.Close()
}

// MakeCompositeKey joins a namespace and a record key into one storage key.
func MakeCompositeKey(namespace, key string) string {
	return fmt.Sprintf("%s_%s", namespace, key)
}
