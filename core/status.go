package orchestration

import (
	"sync"

	"github.com/jinzhu/copier"
)

type statusBoard struct {
	mu     sync.RWMutex
	status StatusV0
}

func newStatusBoard() *statusBoard {
	return &statusBoard{status: StatusV0{State: TurnStateIdle}}
}

func (b *statusBoard) update(apply func(*StatusV0)) {
	if b == nil || apply == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	apply(&b.status)
}

// Snapshot returns a detached copy of the current status.
func (b *statusBoard) Snapshot() StatusV0 {
	if b == nil {
		return StatusV0{}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot := StatusV0{}
	if err := copier.Copy(&snapshot, &b.status); err != nil {
		return b.status
	}
	return snapshot
}
