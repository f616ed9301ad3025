package server

import (
	"io"

	"github.com/rs/zerolog"

	"blackjack/internal/cards"
	"blackjack/internal/protocol"
)

// round runs the dealing / player-turn / dealer-turn / resolved state
// machine for a single round. Message order is the protocol: the client
// infers phases purely from position, so nothing here may be reordered.
type round struct {
	log    zerolog.Logger
	deck   *cards.Deck
	stream io.ReadWriter

	player []cards.Card
	dealer []cards.Card

	// lastSent backs the terminal message, which must always carry
	// the most recently dealt card.
	lastSent cards.Card
}

func newRound(log zerolog.Logger, deck *cards.Deck, stream io.ReadWriter) *round {
	return &round{log: log, deck: deck, stream: stream}
}

// play runs the round to its terminal message and returns the player's
// outcome.
func (r *round) play() (protocol.Result, error) {
	hidden, err := r.deal()
	if err != nil {
		return 0, err
	}

	stood, err := r.playerTurn()
	if err != nil {
		return 0, err
	}
	if !stood {
		// Player bust: resolve immediately. The hidden dealer card
		// is never sent in this round.
		r.log.Info().Int("player", cards.HandValue(r.player)).Msg("player bust")
		return protocol.ResultLoss, r.finish(protocol.ResultLoss)
	}

	if err := r.dealerTurn(hidden); err != nil {
		return 0, err
	}

	outcome := r.resolve()
	r.log.Info().
		Int("player", cards.HandValue(r.player)).
		Int("dealer", cards.HandValue(r.dealer)).
		Str("outcome", outcome.String()).
		Msg("round resolved")
	return outcome, r.finish(outcome)
}

// deal draws two cards each, sends the player's pair and the dealer's
// up-card, and returns the held-back hidden card.
func (r *round) deal() (cards.Card, error) {
	r.player = append(r.player, r.deck.Draw(), r.deck.Draw())
	r.dealer = append(r.dealer, r.deck.Draw(), r.deck.Draw())

	for _, c := range []cards.Card{r.player[0], r.player[1], r.dealer[0]} {
		if err := r.sendCard(c); err != nil {
			return cards.Card{}, err
		}
	}
	return r.dealer[1], nil
}

// playerTurn consumes decisions until the player stands (true) or
// busts (false).
func (r *round) playerTurn() (bool, error) {
	for {
		raw, err := protocol.ReadExact(r.stream, protocol.DecisionMsgLen)
		if err != nil {
			return false, err
		}
		decision, err := protocol.ParseDecision(raw)
		if err != nil {
			return false, err
		}
		if decision == protocol.DecisionStand {
			return true, nil
		}

		c := r.deck.Draw()
		r.player = append(r.player, c)
		if err := r.sendCard(c); err != nil {
			return false, err
		}
		if cards.IsBust(r.player) {
			return false, nil
		}
	}
}

// dealerTurn reveals the hidden card, then draws to 17.
func (r *round) dealerTurn(hidden cards.Card) error {
	if err := r.sendCard(hidden); err != nil {
		return err
	}
	for cards.DealerShouldHit(r.dealer) {
		c := r.deck.Draw()
		r.dealer = append(r.dealer, c)
		if err := r.sendCard(c); err != nil {
			return err
		}
	}
	return nil
}

// resolve scores a round that ran to the dealer's stand.
func (r *round) resolve() protocol.Result {
	playerTotal := cards.HandValue(r.player)
	dealerTotal := cards.HandValue(r.dealer)
	switch {
	case dealerTotal > 21 || playerTotal > dealerTotal:
		return protocol.ResultWin
	case playerTotal < dealerTotal:
		return protocol.ResultLoss
	default:
		return protocol.ResultTie
	}
}

// sendCard emits one live card and records it as the last card sent.
func (r *round) sendCard(c cards.Card) error {
	raw, err := protocol.BuildCard(protocol.ResultNotOver, c)
	if err != nil {
		return err
	}
	if _, err := r.stream.Write(raw); err != nil {
		return err
	}
	r.lastSent = c
	return nil
}

// finish emits the terminal message, reusing the last card sent since
// the wire format has no "no card" representation.
func (r *round) finish(outcome protocol.Result) error {
	raw, err := protocol.BuildCard(outcome, r.lastSent)
	if err != nil {
		return err
	}
	_, err = r.stream.Write(raw)
	return err
}
