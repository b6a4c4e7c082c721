// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sync"

	"currency-quote-bot/internal/domain"
	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memStateRepo is a small in-memory implementation used by unit tests.
type memStateRepo struct {
	mu     sync.Mutex
	states map[int64]*repository.ConversationState
	clears int
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{states: make(map[int64]*repository.ConversationState)}
}

func (m *memStateRepo) SetState(ctx context.Context, tgID int64, state *repository.ConversationState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := &repository.ConversationState{Step: state.Step, Data: map[string]string{}}
	for k, v := range state.Data {
		cp.Data[k] = v
	}
	m.states[tgID] = cp
	return nil
}

func (m *memStateRepo) GetState(ctx context.Context, tgID int64) (*repository.ConversationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (m *memStateRepo) ClearState(ctx context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, tgID)
	m.clears++
	return nil
}

type fakeSpot struct {
	ticker *model.SpotTicker
	err    error
	calls  []string
}

func (f *fakeSpot) SpotTicker(ctx context.Context, symbol string) (*model.SpotTicker, error) {
	f.calls = append(f.calls, symbol)
	if f.err != nil {
		return nil, f.err
	}
	t := *f.ticker
	t.Symbol = symbol
	return &t, nil
}

// fakeP2P records every request so tests can assert that no fetch happened.
type fakeP2P struct {
	market model.P2PMarket
	offers []model.P2POffer
	err    error

	mu    sync.Mutex
	calls int
	last  struct {
		side   model.Side
		amount float64
	}
}

func (f *fakeP2P) Market() model.P2PMarket { return f.market }

func (f *fakeP2P) P2POffers(ctx context.Context, side model.Side, amount float64) ([]model.P2POffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last.side = side
	f.last.amount = amount
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

func (f *fakeP2P) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeReference struct {
	price float64
	err   error
	calls int
}

func (f *fakeReference) TonRubPrice(ctx context.Context) (float64, error) {
	f.calls++
	return f.price, f.err
}

func offersWithPrices(prices ...string) []model.P2POffer {
	out := make([]model.P2POffer, 0, len(prices))
	for _, p := range prices {
		out = append(out, model.P2POffer{Price: p})
	}
	return out
}
