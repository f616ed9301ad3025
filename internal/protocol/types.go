package protocol

import (
	"fmt"

	"blackjack/internal/cards"
)

// MagicCookie opens every message on both transports.
const MagicCookie uint32 = 0xabcddcba

// Message type tags.
const (
	TypeOffer   byte = 0x2
	TypeRequest byte = 0x3
	TypePayload byte = 0x4
)

// Fixed field and message sizes in bytes.
const (
	NameLen     = 32
	DecisionLen = 5

	OfferLen       = 4 + 1 + 2 + NameLen    // 39
	RequestLen     = 4 + 1 + 1 + NameLen    // 38
	DecisionMsgLen = 4 + 1 + DecisionLen    // 10
	CardLen        = 4 + 1 + 1 + 3          // 9
)

// DiscoveryPort is the well-known UDP port offer datagrams are sent to.
const DiscoveryPort = 13122

// Result is the round status carried by every server payload.
type Result uint8

const (
	ResultNotOver Result = iota
	ResultTie
	ResultLoss
	ResultWin
)

// Valid reports whether the result code is within the wire domain.
func (r Result) Valid() bool {
	return r <= ResultWin
}

// Terminal reports whether the result ends the round.
func (r Result) Terminal() bool {
	return r.Valid() && r != ResultNotOver
}

func (r Result) String() string {
	switch r {
	case ResultNotOver:
		return "not_over"
	case ResultTie:
		return "tie"
	case ResultLoss:
		return "loss"
	case ResultWin:
		return "win"
	}
	return fmt.Sprintf("Result(%d)", uint8(r))
}

// Decision is the 5-byte ASCII token a client sends on its turn. The
// hit token is a 5-character wire literal; its spelling is part of the
// protocol contract and must not be corrected.
type Decision string

const (
	DecisionHit   Decision = "Hittt"
	DecisionStand Decision = "Stand"
)

// Valid reports whether the decision is one of the two wire tokens.
func (d Decision) Valid() bool {
	return d == DecisionHit || d == DecisionStand
}

// Offer is the UDP discovery advertisement.
type Offer struct {
	TCPPort    uint16
	ServerName string
}

// Request is the stream handshake sent once per connection.
type Request struct {
	Rounds   uint8
	TeamName string
}

// CardUpdate is the server payload: a dealt card while the round is
// live, or the terminal outcome. The card field is always populated,
// carrying the most recently dealt card even in the terminal case.
type CardUpdate struct {
	Result Result
	Card   cards.Card
}
