// Package keymutex is a keyed lock table: mutual exclusion per string
// key, parallelism across disjoint keys. Lock acquisition honors
// context cancellation; once acquired, the critical section owns the
// keys until release.
package keymutex

import (
	"context"
	"sort"
	"sync"
)

type KeyedMutex struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func New() *KeyedMutex {
	return &KeyedMutex{held: make(map[string]chan struct{})}
}

// Lock acquires every key (deduplicated, in sorted order so two
// multi-key callers can never deadlock) and returns the release func.
// If ctx is cancelled while waiting, nothing stays held.
func (m *KeyedMutex) Lock(ctx context.Context, keys ...string) (func(), error) {
	ks := dedupSorted(keys)
	for i, k := range ks {
		if err := m.lockOne(ctx, k); err != nil {
			for j := i - 1; j >= 0; j-- {
				m.unlockOne(ks[j])
			}
			return nil, err
		}
	}
	release := func() {
		for j := len(ks) - 1; j >= 0; j-- {
			m.unlockOne(ks[j])
		}
	}
	return release, nil
}

func (m *KeyedMutex) lockOne(ctx context.Context, key string) error {
	for {
		m.mu.Lock()
		ch, taken := m.held[key]
		if !taken {
			m.held[key] = make(chan struct{})
			m.mu.Unlock()
			return nil
		}
		m.mu.Unlock()

		select {
		case <-ch:
			// holder released, race for it again
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *KeyedMutex) unlockOne(key string) {
	m.mu.Lock()
	ch := m.held[key]
	delete(m.held, key)
	m.mu.Unlock()
	close(ch)
}

func dedupSorted(keys []string) []string {
	ks := append([]string(nil), keys...)
	sort.Strings(ks)
	out := ks[:0]
	for i, k := range ks {
		if i == 0 || ks[i-1] != k {
			out = append(out, k)
		}
	}
	return out
}
