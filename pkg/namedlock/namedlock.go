// Package namedlock implements locks by name with lazy mutex creation. The
// engine uses one lock per proposal id so that concurrent sign/execute calls
// for the same proposal are linearized while distinct proposals proceed fully
// in parallel.
package namedlock

import (
	"sync"
)

type NamedLocker struct {
	locks sync.Map
}

func New() *NamedLocker {
	return &NamedLocker{}
}

// Lock locks the named lock for write access.
func (nl *NamedLocker) Lock(name string) {
	mut, _ := nl.locks.LoadOrStore(name, new(sync.RWMutex))
	mut.(*sync.RWMutex).Lock()
}

// Unlock unlocks the named lock for write access, panics on non existence.
func (nl *NamedLocker) Unlock(name string) {
	mut, _ := nl.locks.Load(name)
	mut.(*sync.RWMutex).Unlock()
}

// RLock locks the named lock for read access.
func (nl *NamedLocker) RLock(name string) {
	mut, _ := nl.locks.LoadOrStore(name, new(sync.RWMutex))
	mut.(*sync.RWMutex).RLock()
}

// RUnlock unlocks the named lock for read access, panics on non existence.
func (nl *NamedLocker) RUnlock(name string) {
	mut, _ := nl.locks.Load(name)
	mut.(*sync.RWMutex).RUnlock()
}
