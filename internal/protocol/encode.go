package protocol

import (
	"encoding/binary"

	"blackjack/internal/cards"
)

// packName truncates the name to NameLen bytes and right-pads it with
// zero bytes.
func packName(name string) []byte {
	buf := make([]byte, NameLen)
	copy(buf, name)
	return buf
}

func header(tag byte, size int) []byte {
	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint32(buf, MagicCookie)
	return append(buf, tag)
}

// BuildOffer encodes a 39-byte discovery offer datagram.
func BuildOffer(tcpPort uint16, serverName string) []byte {
	buf := header(TypeOffer, OfferLen)
	buf = binary.BigEndian.AppendUint16(buf, tcpPort)
	return append(buf, packName(serverName)...)
}

// BuildRequest encodes a 38-byte handshake request.
func BuildRequest(rounds uint8, teamName string) []byte {
	buf := header(TypeRequest, RequestLen)
	buf = append(buf, rounds)
	return append(buf, packName(teamName)...)
}

// BuildDecision encodes a 10-byte client decision payload.
func BuildDecision(d Decision) ([]byte, error) {
	if !d.Valid() {
		return nil, violation("invalid decision token %q", string(d))
	}
	buf := header(TypePayload, DecisionMsgLen)
	return append(buf, d...), nil
}

// BuildCard encodes a 9-byte server payload carrying a result code and
// a card.
func BuildCard(result Result, c cards.Card) ([]byte, error) {
	if !result.Valid() {
		return nil, violation("invalid result code %d", uint8(result))
	}
	if !c.Valid() {
		return nil, violation("card out of domain: rank=%d suit=%d", c.Rank, uint8(c.Suit))
	}
	buf := header(TypePayload, CardLen)
	buf = append(buf, byte(result))
	buf = binary.BigEndian.AppendUint16(buf, uint16(c.Rank))
	return append(buf, byte(c.Suit)), nil
}
