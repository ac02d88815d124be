package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/juju/fslock"
)

const (
	defaultLockFile = "/tmp/ajo_msig_eventlog_lock"
)

var _ EventLog = (*FileEventLog)(nil)

// FileEventLog appends events as JSON lines to a local file. Meant for
// development and single-host setups; production uses the Kafka log.
type FileEventLog struct {
	lockFile *fslock.Lock
	dataFile *os.File
}

// NewFileEventLog opens an append-only event log. It takes two arguments:
// filename - path to a data file, lockFilename (optional) - path to a lock file.
func NewFileEventLog(filename string, lockFilename ...string) (*FileEventLog, error) {
	var (
		fl  FileEventLog
		err error
	)
	if len(lockFilename) > 0 {
		fl.lockFile = fslock.New(lockFilename[0])
	} else {
		fl.lockFile = fslock.New(defaultLockFile)
	}

	if fl.dataFile, err = os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644); err != nil {
		return nil, fmt.Errorf("failed to open a data file: %v", err)
	}
	return &fl, nil
}

func (l *FileEventLog) Publish(events ...Event) error {
	if err := l.lockFile.Lock(); err != nil {
		return fmt.Errorf("failed to lock a file: %v", err)
	}
	defer l.lockFile.Unlock()

	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal an event: %v", err)
		}

		if _, err = l.dataFile.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write event data: %v", err)
		}
	}

	return nil
}

func (l *FileEventLog) Close() error {
	return l.dataFile.Close()
}
