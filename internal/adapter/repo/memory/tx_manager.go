package memory

import (
	"context"
	"sync"
)

// TxManager serializes "transactions" against the in-memory store. The
// repos lock per call, so all the tx boundary buys here is that two
// concurrent RunInTx bodies do not interleave.
type TxManager struct {
	mu *sync.Mutex
}

func NewTxManager() TxManager {
	return TxManager{mu: &sync.Mutex{}}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
