package server

import (
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackjack/internal/cards"
	"blackjack/internal/protocol"
)

func readCard(t *testing.T, conn net.Conn) protocol.CardUpdate {
	t.Helper()
	raw, err := protocol.ReadExact(conn, protocol.CardLen)
	require.NoError(t, err)
	upd, err := protocol.ParseCard(raw)
	require.NoError(t, err)
	return upd
}

func sendDecision(t *testing.T, conn net.Conn, d protocol.Decision) {
	t.Helper()
	raw, err := protocol.BuildDecision(d)
	require.NoError(t, err)
	_, err = conn.Write(raw)
	require.NoError(t, err)
}

// runRound plays one scripted round in the background and returns the
// peer end plus a channel with the engine's verdict.
func runRound(t *testing.T, stack ...cards.Card) (net.Conn, chan protocol.Result, chan error) {
	t.Helper()
	serverEnd, peer := net.Pipe()
	t.Cleanup(func() {
		serverEnd.Close()
		peer.Close()
	})

	outcomes := make(chan protocol.Result, 1)
	errs := make(chan error, 1)
	go func() {
		r := newRound(zerolog.Nop(), cards.NewStackedDeck(stack...), serverEnd)
		outcome, err := r.play()
		outcomes <- outcome
		errs <- err
	}()
	return peer, outcomes, errs
}

func TestRoundPlayerStandsDealerBusts(t *testing.T) {
	// Player draws 19 and stands; dealer sits on 13, must draw, and
	// busts with the nine.
	peer, outcomes, errs := runRound(t,
		cards.Card{Rank: 9, Suit: cards.Hearts},
		cards.Card{Rank: 10, Suit: cards.Spades},
		cards.Card{Rank: 3, Suit: cards.Hearts},    // dealer up-card
		cards.Card{Rank: 10, Suit: cards.Diamonds}, // hidden
		cards.Card{Rank: 9, Suit: cards.Clubs},     // dealer draw, 22
	)

	var dealt []protocol.CardUpdate
	for i := 0; i < 3; i++ {
		upd := readCard(t, peer)
		require.Equal(t, protocol.ResultNotOver, upd.Result)
		dealt = append(dealt, upd)
	}
	assert.Equal(t, cards.Card{Rank: 3, Suit: cards.Hearts}, dealt[2].Card)

	sendDecision(t, peer, protocol.DecisionStand)

	hidden := readCard(t, peer)
	require.Equal(t, protocol.ResultNotOver, hidden.Result)
	assert.Equal(t, cards.Card{Rank: 10, Suit: cards.Diamonds}, hidden.Card)

	// Exactly one dealer draw before the bust, then the terminal.
	draw := readCard(t, peer)
	require.Equal(t, protocol.ResultNotOver, draw.Result)
	assert.Equal(t, cards.Card{Rank: 9, Suit: cards.Clubs}, draw.Card)

	terminal := readCard(t, peer)
	assert.Equal(t, protocol.ResultWin, terminal.Result)
	assert.Equal(t, draw.Card, terminal.Card, "terminal message carries the last card dealt")

	assert.Equal(t, protocol.ResultWin, <-outcomes)
	assert.NoError(t, <-errs)
}

func TestRoundPlayerBustSkipsHiddenCard(t *testing.T) {
	hidden := cards.Card{Rank: 6, Suit: cards.Diamonds}
	peer, outcomes, errs := runRound(t,
		cards.Card{Rank: 10, Suit: cards.Hearts},
		cards.Card{Rank: 9, Suit: cards.Spades},
		cards.Card{Rank: 5, Suit: cards.Diamonds}, // dealer up-card
		hidden,
		cards.Card{Rank: 4, Suit: cards.Clubs}, // player hit, 23
	)

	for i := 0; i < 3; i++ {
		readCard(t, peer)
	}
	sendDecision(t, peer, protocol.DecisionHit)

	bustCard := readCard(t, peer)
	require.Equal(t, protocol.ResultNotOver, bustCard.Result)
	require.Equal(t, cards.Card{Rank: 4, Suit: cards.Clubs}, bustCard.Card)

	// The terminal loss follows immediately; the hidden dealer card is
	// never transmitted in this round.
	terminal := readCard(t, peer)
	assert.Equal(t, protocol.ResultLoss, terminal.Result)
	assert.Equal(t, bustCard.Card, terminal.Card)
	assert.NotEqual(t, hidden, terminal.Card)

	assert.Equal(t, protocol.ResultLoss, <-outcomes)
	assert.NoError(t, <-errs)
}

func TestRoundTieOnEqualTotals(t *testing.T) {
	peer, outcomes, errs := runRound(t,
		cards.Card{Rank: 9, Suit: cards.Hearts},
		cards.Card{Rank: 10, Suit: cards.Spades},
		cards.Card{Rank: 10, Suit: cards.Clubs},
		cards.Card{Rank: 9, Suit: cards.Diamonds}, // dealer 19, stands
	)

	for i := 0; i < 3; i++ {
		readCard(t, peer)
	}
	sendDecision(t, peer, protocol.DecisionStand)

	hidden := readCard(t, peer)
	require.Equal(t, protocol.ResultNotOver, hidden.Result)

	terminal := readCard(t, peer)
	assert.Equal(t, protocol.ResultTie, terminal.Result)
	assert.Equal(t, hidden.Card, terminal.Card)

	assert.Equal(t, protocol.ResultTie, <-outcomes)
	assert.NoError(t, <-errs)
}

func TestRoundDealerOutdrawsPlayer(t *testing.T) {
	peer, outcomes, errs := runRound(t,
		cards.Card{Rank: 8, Suit: cards.Hearts},
		cards.Card{Rank: 10, Suit: cards.Spades}, // player 18
		cards.Card{Rank: 10, Suit: cards.Clubs},
		cards.Card{Rank: 9, Suit: cards.Diamonds}, // dealer 19
	)

	for i := 0; i < 3; i++ {
		readCard(t, peer)
	}
	sendDecision(t, peer, protocol.DecisionStand)
	readCard(t, peer) // hidden

	terminal := readCard(t, peer)
	assert.Equal(t, protocol.ResultLoss, terminal.Result)

	assert.Equal(t, protocol.ResultLoss, <-outcomes)
	assert.NoError(t, <-errs)
}

func TestRoundRejectsMalformedDecision(t *testing.T) {
	peer, _, errs := runRound(t,
		cards.Card{Rank: 9, Suit: cards.Hearts},
		cards.Card{Rank: 10, Suit: cards.Spades},
		cards.Card{Rank: 3, Suit: cards.Hearts},
		cards.Card{Rank: 10, Suit: cards.Diamonds},
	)

	for i := 0; i < 3; i++ {
		readCard(t, peer)
	}

	// Valid header, garbage token.
	raw, err := protocol.BuildDecision(protocol.DecisionHit)
	require.NoError(t, err)
	copy(raw[5:], "nope!")
	_, err = peer.Write(raw)
	require.NoError(t, err)

	assert.ErrorIs(t, <-errs, protocol.ErrProtocol)
}

func TestRoundSurfacesPeerDisconnect(t *testing.T) {
	peer, _, errs := runRound(t,
		cards.Card{Rank: 9, Suit: cards.Hearts},
		cards.Card{Rank: 10, Suit: cards.Spades},
		cards.Card{Rank: 3, Suit: cards.Hearts},
		cards.Card{Rank: 10, Suit: cards.Diamonds},
	)

	for i := 0; i < 3; i++ {
		readCard(t, peer)
	}
	require.NoError(t, peer.Close())

	assert.ErrorIs(t, <-errs, protocol.ErrPeerClosed)
}
