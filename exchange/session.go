package exchange

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/qmuntal/stateless"
	"go-currency-converter/currconv"
	"go-currency-converter/domain"
)

// State of a Session
type State string

const (
	Idle      State = "idle"
	Fetching  State = "fetching"
	Converted State = "converted"
	Failed    State = "failed"
)

const (
	triggerFetch   = "fetch"
	triggerReuse   = "reuse"
	triggerSucceed = "succeed"
	triggerFail    = "fail"
	triggerReset   = "reset"
)

// Session converts on behalf of a single user. The rate of the last successful fetch is
// reused until the user picks a different pair; a failed fetch forgets it.
// Conversions within a session are serialized, so at most one fetch is in flight.
type Session struct {
	mu sync.Mutex

	rates   currconv.Service
	machine *stateless.StateMachine

	// last successful quote, nil until one succeeds
	last *domain.Quote
}

// NewSession starts an idle Session
func NewSession(rates currconv.Service, logger log.Logger) *Session {
	machine := stateless.NewStateMachine(Idle)

	machine.Configure(Idle).
		Permit(triggerFetch, Fetching).
		Permit(triggerReuse, Converted)

	machine.Configure(Fetching).
		Permit(triggerSucceed, Converted).
		Permit(triggerFail, Failed)

	machine.Configure(Converted).
		Permit(triggerReset, Idle)

	machine.Configure(Failed).
		Permit(triggerReset, Idle)

	machine.OnTransitioned(func(_ context.Context, t stateless.Transition) {
		level.Debug(logger).Log("msg", "session transition", "from", t.Source, "to", t.Destination, "trigger", t.Trigger)
	})

	return &Session{
		rates:   rates,
		machine: machine,
	}
}

// State the current state; Idle whenever no conversion is running
func (s *Session) State() State {
	return s.machine.MustState().(State)
}

// Convert converts amount, fetching a rate only when the pair differs from the last successful one.
func (s *Session) Convert(ctx context.Context, amount *big.Int, from domain.Currency, to domain.Currency) (domain.Conversion, error) {
	if err := checkAmount(amount); err != nil {
		return domain.Conversion{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	quote, err := s.quote(ctx, domain.Pair{From: from, To: to})
	if err != nil {
		if resetErr := s.machine.Fire(triggerReset); resetErr != nil {
			return domain.Conversion{}, fmt.Errorf("session reset: %w", resetErr)
		}
		return domain.Conversion{}, err
	}

	result := conversion(amount, quote)

	if err := s.machine.Fire(triggerReset); err != nil {
		return domain.Conversion{}, fmt.Errorf("session reset: %w", err)
	}
	return result, nil
}

// quote moves the session to Converted or Failed
func (s *Session) quote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	if s.last != nil && s.last.Pair() == pair {
		if err := s.machine.Fire(triggerReuse); err != nil {
			return domain.Quote{}, fmt.Errorf("session reuse: %w", err)
		}
		return *s.last, nil
	}

	if err := s.machine.Fire(triggerFetch); err != nil {
		return domain.Quote{}, fmt.Errorf("session fetch: %w", err)
	}

	quote, err := s.rates.Rate(ctx, pair.From, pair.To)
	if err != nil {
		s.last = nil
		if fireErr := s.machine.Fire(triggerFail); fireErr != nil {
			return domain.Quote{}, fmt.Errorf("session fail: %w", fireErr)
		}
		return domain.Quote{}, fmt.Errorf("convert [%v]: %w", pair, err)
	}

	s.last = &quote
	if err := s.machine.Fire(triggerSucceed); err != nil {
		return domain.Quote{}, fmt.Errorf("session succeed: %w", err)
	}
	return quote, nil
}

// Forget drops the remembered rate so the next conversion fetches again
func (s *Session) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = nil
}
