package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"currency-quote-bot/internal/domain"
	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/domain/ports/repository"
	"currency-quote-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Conversation steps stored in repository.ConversationState.Step.
const (
	StepIdle                   = ""
	StepAwaitingRatio          = "awaiting_ratio"
	StepAwaitingAmount         = "awaiting_amount"
	StepAwaitingRegionalAmount = "awaiting_regional_amount"
)

const (
	dataSide          = "side"
	dataVenue         = "venue"
	dataMenuMessageID = "menu_message_id"
)

// Outcome classifies how a free-text reply was handled.
type Outcome string

const (
	OutcomeNoFlow        Outcome = "no_flow"
	OutcomeInvalidInput  Outcome = "invalid_input"
	OutcomeBelowMinimum  Outcome = "below_minimum"
	OutcomeStarPrice     Outcome = "star_price"
	OutcomeP2PSummary    Outcome = "p2p_summary"
	OutcomeNoOffers      Outcome = "no_offers"
	OutcomeUpstreamError Outcome = "upstream_error"
)

// FlowPolicy says whether a flow ends on rejected input. Upstream errors and
// results always end the flow.
type FlowPolicy struct {
	ClearOnInvalid      bool
	ClearOnBelowMinimum bool
}

// The ratio and Bybit amount flows let the user retry; the regional flow
// gives up on unparseable input but keeps waiting after a too-small amount.
var flowPolicies = map[string]FlowPolicy{
	StepAwaitingRatio:          {ClearOnInvalid: false, ClearOnBelowMinimum: false},
	StepAwaitingAmount:         {ClearOnInvalid: false, ClearOnBelowMinimum: false},
	StepAwaitingRegionalAmount: {ClearOnInvalid: true, ClearOnBelowMinimum: false},
}

// PolicyFor returns the exit policy of a step.
func PolicyFor(step string) FlowPolicy { return flowPolicies[step] }

// Session is the typed view of a stored conversation state.
type Session struct {
	Step          string
	Side          model.Side
	Venue         model.Venue
	MenuMessageID int
}

func (s Session) Active() bool { return s.Step != StepIdle }

// FlowResult describes the handling of one free-text reply. Session is the
// flow as it was when the text arrived; Cleared reports whether it ended.
type FlowResult struct {
	Session Session
	Outcome Outcome
	Cleared bool
	Market  model.P2PMarket
	Star    *model.StarPrice
	Summary *model.P2PSummary
	Err     error
}

// ConversationUseCase owns the per-user input flows. Starting a flow replaces
// whatever flow was active before.
type ConversationUseCase interface {
	Current(ctx context.Context, tgID int64) (Session, error)
	StartRatio(ctx context.Context, tgID int64) error
	StartAmount(ctx context.Context, tgID int64, side model.Side) error
	StartRegionalAmount(ctx context.Context, tgID int64, side model.Side, venue model.Venue, menuMessageID int) error
	Reset(ctx context.Context, tgID int64) error
	HandleText(ctx context.Context, tgID int64, text string) (*FlowResult, error)
}

var _ ConversationUseCase = (*conversationUC)(nil)

type conversationUC struct {
	states repository.StateRepository
	quotes QuoteUseCase
	stars  StarsUseCase
	log    *zerolog.Logger
}

func NewConversationUseCase(states repository.StateRepository, quotes QuoteUseCase, stars StarsUseCase, logger *zerolog.Logger) ConversationUseCase {
	return &conversationUC{states: states, quotes: quotes, stars: stars, log: logger}
}

func (c *conversationUC) Current(ctx context.Context, tgID int64) (Session, error) {
	st, err := c.states.GetState(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, nil
		}
		return Session{}, err
	}
	return sessionFromState(st), nil
}

func (c *conversationUC) StartRatio(ctx context.Context, tgID int64) error {
	return c.states.SetState(ctx, tgID, &repository.ConversationState{
		Step: StepAwaitingRatio,
		Data: map[string]string{},
	})
}

func (c *conversationUC) StartAmount(ctx context.Context, tgID int64, side model.Side) error {
	if _, ok := model.ParseSide(string(side)); !ok {
		return domain.ErrInvalidArgument
	}
	return c.states.SetState(ctx, tgID, &repository.ConversationState{
		Step: StepAwaitingAmount,
		Data: map[string]string{
			dataSide:  string(side),
			dataVenue: string(model.VenueBybit),
		},
	})
}

func (c *conversationUC) StartRegionalAmount(ctx context.Context, tgID int64, side model.Side, venue model.Venue, menuMessageID int) error {
	if _, ok := model.ParseSide(string(side)); !ok {
		return domain.ErrInvalidArgument
	}
	if _, err := c.quotes.Market(venue); err != nil {
		return err
	}
	return c.states.SetState(ctx, tgID, &repository.ConversationState{
		Step: StepAwaitingRegionalAmount,
		Data: map[string]string{
			dataSide:          string(side),
			dataVenue:         string(venue),
			dataMenuMessageID: strconv.Itoa(menuMessageID),
		},
	})
}

func (c *conversationUC) Reset(ctx context.Context, tgID int64) error {
	return c.states.ClearState(ctx, tgID)
}

// HandleText feeds one free-text reply to the active flow. With no active flow
// the result is OutcomeNoFlow and nothing is touched.
func (c *conversationUC) HandleText(ctx context.Context, tgID int64, text string) (*FlowResult, error) {
	sess, err := c.Current(ctx, tgID)
	if err != nil {
		return nil, err
	}
	if !sess.Active() {
		return &FlowResult{Outcome: OutcomeNoFlow}, nil
	}

	var res *FlowResult
	switch sess.Step {
	case StepAwaitingRatio:
		res = c.handleRatio(ctx, text)
	case StepAwaitingAmount, StepAwaitingRegionalAmount:
		res = c.handleAmount(ctx, sess, text)
	default:
		// unknown step from an older deployment; drop it
		if err := c.states.ClearState(ctx, tgID); err != nil {
			return nil, err
		}
		return &FlowResult{Outcome: OutcomeNoFlow, Cleared: true}, nil
	}

	res.Session = sess
	res.Cleared = shouldClear(sess.Step, res.Outcome)
	metrics.IncFlow(sess.Step, string(res.Outcome))

	if res.Cleared {
		if err := c.states.ClearState(ctx, tgID); err != nil {
			return res, fmt.Errorf("clear state: %w", err)
		}
	}
	if res.Err != nil && c.log != nil {
		c.log.Warn().Err(res.Err).
			Int64("tg_id", tgID).
			Str("step", sess.Step).
			Str("outcome", string(res.Outcome)).
			Msg("input flow failed")
	}
	return res, nil
}

func (c *conversationUC) handleRatio(ctx context.Context, text string) *FlowResult {
	ratio, ok := parseNumber(text)
	if !ok || ratio <= 0 {
		return &FlowResult{Outcome: OutcomeInvalidInput}
	}
	star, err := c.stars.Quote(ctx, ratio)
	if err != nil {
		return &FlowResult{Outcome: OutcomeUpstreamError, Err: err}
	}
	return &FlowResult{Outcome: OutcomeStarPrice, Star: star}
}

func (c *conversationUC) handleAmount(ctx context.Context, sess Session, text string) *FlowResult {
	market, err := c.quotes.Market(sess.Venue)
	if err != nil {
		return &FlowResult{Outcome: OutcomeUpstreamError, Err: err}
	}
	res := &FlowResult{Market: market}

	amount, ok := parseNumber(text)
	if !ok {
		res.Outcome = OutcomeInvalidInput
		return res
	}
	if amount < market.MinAmount {
		res.Outcome = OutcomeBelowMinimum
		return res
	}

	summary, err := c.quotes.P2P(ctx, sess.Venue, sess.Side, amount)
	switch {
	case err == nil:
		res.Outcome = OutcomeP2PSummary
		res.Summary = summary
	case errors.Is(err, domain.ErrNoOffers):
		res.Outcome = OutcomeNoOffers
	case errors.Is(err, domain.ErrBelowMinimum):
		res.Outcome = OutcomeBelowMinimum
	default:
		res.Outcome = OutcomeUpstreamError
		res.Err = err
	}
	return res
}

func shouldClear(step string, outcome Outcome) bool {
	p := PolicyFor(step)
	switch outcome {
	case OutcomeInvalidInput:
		return p.ClearOnInvalid
	case OutcomeBelowMinimum:
		return p.ClearOnBelowMinimum
	default:
		return true
	}
}

// parseNumber accepts a plain decimal number; a comma decimal separator is
// tolerated.
func parseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func sessionFromState(st *repository.ConversationState) Session {
	if st == nil {
		return Session{}
	}
	s := Session{Step: st.Step}
	if side, ok := model.ParseSide(st.Data[dataSide]); ok {
		s.Side = side
	}
	s.Venue = model.Venue(st.Data[dataVenue])
	if st.Step == StepAwaitingAmount && s.Venue == "" {
		s.Venue = model.VenueBybit
	}
	if id, err := strconv.Atoi(st.Data[dataMenuMessageID]); err == nil {
		s.MenuMessageID = id
	}
	return s
}
