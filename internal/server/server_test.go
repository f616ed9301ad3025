package server

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackjack/internal/cards"
	"blackjack/internal/client"
	"blackjack/internal/protocol"
)

// standingTable always stands and records what it saw.
type standingTable struct {
	playerCards int
	dealerCards int
	resolved    []protocol.Result
}

func (t *standingTable) CardDealt(seat client.Seat, c cards.Card) {
	if seat == client.SeatPlayer {
		t.playerCards++
	} else {
		t.dealerCards++
	}
}

func (t *standingTable) Prompt() (protocol.Decision, error) {
	return protocol.DecisionStand, nil
}

func (t *standingTable) Resolved(outcome protocol.Result) {
	t.resolved = append(t.resolved, outcome)
}

func startServer(t *testing.T) *Server {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(zerolog.Nop(), ln)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = srv.Serve(ctx)
	}()
	t.Cleanup(cancel)
	return srv
}

func playSession(t *testing.T, addr string, rounds int) (*standingTable, client.Tally) {
	t.Helper()
	sess, err := client.Dial(context.Background(), zerolog.Nop(), addr, client.Options{})
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.Handshake("integration", uint8(rounds)))
	table := &standingTable{}
	tally, err := sess.Play(rounds, table)
	require.NoError(t, err)
	return table, tally
}

func TestServerPlaysFullSession(t *testing.T) {
	srv := startServer(t)

	table, tally := playSession(t, srv.ln.Addr().String(), 3)

	assert.Len(t, table.resolved, 3)
	assert.Equal(t, 3, tally.Wins+tally.Losses+tally.Ties)
	// Two player cards per round when standing immediately.
	assert.Equal(t, 6, table.playerCards)
	// Up-card plus hidden card at minimum per round.
	assert.GreaterOrEqual(t, table.dealerCards, 6)
}

func TestServerIsolatesConcurrentSessions(t *testing.T) {
	srv := startServer(t)
	addr := srv.ln.Addr().String()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := client.Dial(context.Background(), zerolog.Nop(), addr, client.Options{})
			if !assert.NoError(t, err) {
				return
			}
			defer sess.Close()
			if !assert.NoError(t, sess.Handshake("concurrent", 2)) {
				return
			}
			table := &standingTable{}
			tally, err := sess.Play(2, table)
			assert.NoError(t, err)
			assert.Equal(t, 2, tally.Wins+tally.Losses+tally.Ties)
		}()
	}
	wg.Wait()
}

func TestServerSurvivesMisbehavingClient(t *testing.T) {
	srv := startServer(t)
	addr := srv.ln.Addr().String()

	// First client sends garbage and gets dropped.
	bad, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	_, err = bad.Write(make([]byte, protocol.RequestLen))
	require.NoError(t, err)
	buf := make([]byte, 1)
	_, err = bad.Read(buf)
	assert.Error(t, err, "server should close the misbehaving session")
	bad.Close()

	// The listener and fresh sessions are unaffected.
	table, tally := playSession(t, addr, 1)
	assert.Len(t, table.resolved, 1)
	assert.Equal(t, 1, tally.Wins+tally.Losses+tally.Ties)
}
