package memory

import (
	"context"
	"strconv"
	"time"

	"currency-quote-bot/internal/domain"
	"currency-quote-bot/internal/domain/ports/repository"
	"currency-quote-bot/internal/infra/metrics"

	"github.com/patrickmn/go-cache"
)

var _ repository.StateRepository = (*StateStore)(nil)

// StateStore keeps conversation state in process memory. Entries expire after
// ttl so abandoned flows do not accumulate.
type StateStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewStateStore(ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &StateStore{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

func (s *StateStore) stateKey(tgID int64) string {
	return "conv_state:" + strconv.FormatInt(tgID, 10)
}

func (s *StateStore) SetState(ctx context.Context, tgID int64, state *repository.ConversationState) error {
	if state == nil {
		return domain.ErrInvalidArgument
	}
	s.cache.Set(s.stateKey(tgID), cloneState(state), s.ttl)
	return nil
}

func (s *StateStore) GetState(ctx context.Context, tgID int64) (*repository.ConversationState, error) {
	v, ok := s.cache.Get(s.stateKey(tgID))
	if !ok {
		metrics.IncSessionLookup("memory", "miss")
		return nil, domain.ErrNotFound
	}
	metrics.IncSessionLookup("memory", "hit")
	return cloneState(v.(*repository.ConversationState)), nil
}

func (s *StateStore) ClearState(ctx context.Context, tgID int64) error {
	s.cache.Delete(s.stateKey(tgID))
	return nil
}

// cloneState copies the Data map so callers never share it with the store.
func cloneState(in *repository.ConversationState) *repository.ConversationState {
	out := &repository.ConversationState{Step: in.Step, Data: make(map[string]string, len(in.Data))}
	for k, v := range in.Data {
		out.Data[k] = v
	}
	return out
}
