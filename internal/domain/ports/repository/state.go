package repository

import (
	"context"
)

// ConversationState holds the user's progress in a multi-step input flow.
type ConversationState struct {
	Step string            `json:"step"` // e.g., "awaiting_ratio", "awaiting_amount"
	Data map[string]string `json:"data"` // flow-scoped fields like side or menu_message_id
}

// StateRepository is the port for managing a user's conversational state.
// GetState returns domain.ErrNotFound when the user has no stored state.
type StateRepository interface {
	SetState(ctx context.Context, tgID int64, state *ConversationState) error
	GetState(ctx context.Context, tgID int64) (*ConversationState, error)
	ClearState(ctx context.Context, tgID int64) error
}
