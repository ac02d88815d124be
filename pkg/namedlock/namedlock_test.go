package namedlock_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/pkg/namedlock"
)

func TestNamedLocker_Exclusion(t *testing.T) {
	var (
		req     = require.New(t)
		locker  = namedlock.New()
		counter int
		wg      sync.WaitGroup
	)

	const workers = 50

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			locker.Lock("proposal_1")
			defer locker.Unlock("proposal_1")
			counter++
		}()
	}
	wg.Wait()

	req.Equal(workers, counter)
}

func TestNamedLocker_IndependentNames(t *testing.T) {
	var (
		req    = require.New(t)
		locker = namedlock.New()
	)

	locker.Lock("proposal_1")

	// A different name must not be blocked by the held lock.
	acquired := make(chan struct{})
	go func() {
		locker.Lock("proposal_2")
		locker.Unlock("proposal_2")
		close(acquired)
	}()

	<-acquired
	locker.Unlock("proposal_1")
	req.True(true)
}

func TestNamedLocker_ReadLock(t *testing.T) {
	var (
		locker = namedlock.New()
		wg     sync.WaitGroup
	)

	// Concurrent readers of the same name must not deadlock.
	wg.Add(10)
	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()
			locker.RLock("proposal_1")
			defer locker.RUnlock("proposal_1")
		}()
	}
	wg.Wait()
}
