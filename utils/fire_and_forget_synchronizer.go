package utils

import "sync"

// FireAndForgetSynchronizer runs side effects which are decoupled from the
// request/response cycle (like kicking off enrichment after an upload).
// Production code uses the async implementation; tests and daemons use the
// synchronous one so side effects finish before the next stage starts.
type FireAndForgetSynchronizer interface {
	FireAndForget(fn func())
}

type asyncFireAndForgetSynchronizer struct{}

func (asyncFireAndForgetSynchronizer) FireAndForget(fn func()) {
	go fn()
}

func NewFireAndForgetSynchronizer() FireAndForgetSynchronizer {
	return asyncFireAndForgetSynchronizer{}
}

type syncFireAndForgetSynchronizer struct {
	wg sync.WaitGroup
}

func (s *syncFireAndForgetSynchronizer) FireAndForget(fn func()) {
	s.wg.Add(1)
	defer s.wg.Done()
	fn()
}

func NewSyncFireAndForgetSynchronizer() FireAndForgetSynchronizer {
	return &syncFireAndForgetSynchronizer{}
}
