package client

import (
	"fmt"

	"blackjack/internal/cards"
	"blackjack/internal/protocol"
)

// Seat says whose hand a dealt card joins.
type Seat int

const (
	SeatPlayer Seat = iota
	SeatDealer
)

func (s Seat) String() string {
	if s == SeatDealer {
		return "dealer"
	}
	return "player"
}

// Table is the presentation collaborator. It sees cards and outcomes
// and supplies decisions; it never touches sockets or wire bytes.
type Table interface {
	CardDealt(seat Seat, c cards.Card)
	Prompt() (protocol.Decision, error)
	Resolved(outcome protocol.Result)
}

// Tally accumulates outcomes across the rounds of a session.
type Tally struct {
	Wins   int
	Losses int
	Ties   int
}

func (t *Tally) add(outcome protocol.Result) {
	switch outcome {
	case protocol.ResultWin:
		t.Wins++
	case protocol.ResultLoss:
		t.Losses++
	case protocol.ResultTie:
		t.Ties++
	}
}

// The wire carries no phase tag: the driver infers phases purely from
// message position, tracked explicitly so the coupling to the server's
// emission order stays readable.
type phase int

const (
	phaseDealing phase = iota
	phaseAwaitingDecision
	phaseDealerPhase
	phaseDone
)

// Play runs the given number of rounds against the table and returns
// the tally. The handshake must have been sent first with the same
// round count.
func (s *Session) Play(rounds int, table Table) (Tally, error) {
	var tally Tally
	for i := 0; i < rounds; i++ {
		outcome, err := s.PlayRound(table)
		if err != nil {
			return tally, fmt.Errorf("round %d: %w", i+1, err)
		}
		tally.add(outcome)
	}
	return tally, nil
}

// PlayRound consumes one full round in the server's emission order:
// two player cards and the dealer up-card, then a card per hit, then
// the hidden card and dealer draws, then the terminal result.
func (s *Session) PlayRound(table Table) (protocol.Result, error) {
	var player, dealer []cards.Card

	current := phaseDealing
	for i := 0; i < 3; i++ {
		upd, err := s.readCard()
		if err != nil {
			return 0, err
		}
		if upd.Result != protocol.ResultNotOver {
			return 0, fmt.Errorf("%w: terminal result %s during dealing", protocol.ErrProtocol, upd.Result)
		}
		if i < 2 {
			player = append(player, upd.Card)
			table.CardDealt(SeatPlayer, upd.Card)
		} else {
			dealer = append(dealer, upd.Card)
			table.CardDealt(SeatDealer, upd.Card)
		}
	}
	current = phaseAwaitingDecision

	for current == phaseAwaitingDecision {
		decision, err := table.Prompt()
		if err != nil {
			return 0, err
		}
		if err := s.sendDecision(decision); err != nil {
			return 0, err
		}
		if decision == protocol.DecisionStand {
			current = phaseDealerPhase
			continue
		}

		upd, err := s.readCard()
		if err != nil {
			return 0, err
		}
		if upd.Result.Terminal() {
			table.Resolved(upd.Result)
			return upd.Result, nil
		}
		player = append(player, upd.Card)
		table.CardDealt(SeatPlayer, upd.Card)
		if cards.IsBust(player) {
			// No more prompting; the server resolves the round on
			// its own from here.
			current = phaseDealerPhase
		}
	}

	for current == phaseDealerPhase {
		upd, err := s.readCard()
		if err != nil {
			return 0, err
		}
		if upd.Result.Terminal() {
			current = phaseDone
			table.Resolved(upd.Result)
			return upd.Result, nil
		}
		dealer = append(dealer, upd.Card)
		table.CardDealt(SeatDealer, upd.Card)
	}
	return 0, fmt.Errorf("%w: round ended without a terminal result", protocol.ErrProtocol)
}
