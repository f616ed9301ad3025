package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"blackjack/internal/cards"
)

// unpackName decodes a fixed-width name field up to the first zero byte.
func unpackName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

// checkHeader validates exact length, magic cookie and type tag.
func checkHeader(b []byte, wantLen int, wantTag byte, what string) error {
	if len(b) != wantLen {
		return violation("invalid %s length: expected %d, got %d", what, wantLen, len(b))
	}
	if cookie := binary.BigEndian.Uint32(b[0:4]); cookie != MagicCookie {
		return violation("bad magic cookie %#x in %s", cookie, what)
	}
	if b[4] != wantTag {
		return violation("bad %s type tag: expected %#x, got %#x", what, wantTag, b[4])
	}
	return nil
}

// ParseOffer decodes a discovery offer datagram.
func ParseOffer(b []byte) (Offer, error) {
	if err := checkHeader(b, OfferLen, TypeOffer, "offer"); err != nil {
		return Offer{}, err
	}
	return Offer{
		TCPPort:    binary.BigEndian.Uint16(b[5:7]),
		ServerName: unpackName(b[7:]),
	}, nil
}

// ParseRequest decodes a handshake request.
func ParseRequest(b []byte) (Request, error) {
	if err := checkHeader(b, RequestLen, TypeRequest, "request"); err != nil {
		return Request{}, err
	}
	return Request{
		Rounds:   b[5],
		TeamName: unpackName(b[6:]),
	}, nil
}

// ParseDecision decodes a client decision payload.
func ParseDecision(b []byte) (Decision, error) {
	if err := checkHeader(b, DecisionMsgLen, TypePayload, "decision"); err != nil {
		return "", err
	}
	d := Decision(b[5:])
	if !d.Valid() {
		return "", violation("invalid decision token %q", string(d))
	}
	return d, nil
}

// ParseCard decodes a server payload.
func ParseCard(b []byte) (CardUpdate, error) {
	if err := checkHeader(b, CardLen, TypePayload, "card payload"); err != nil {
		return CardUpdate{}, err
	}
	result := Result(b[5])
	if !result.Valid() {
		return CardUpdate{}, violation("invalid result code %d", b[5])
	}
	rank := binary.BigEndian.Uint16(b[6:8])
	suit := cards.Suit(b[8])
	if rank < 1 || rank > 13 {
		return CardUpdate{}, violation("invalid rank %d in card payload", rank)
	}
	if !suit.Valid() {
		return CardUpdate{}, violation("invalid suit code %d in card payload", b[8])
	}
	return CardUpdate{
		Result: result,
		Card:   cards.Card{Rank: int(rank), Suit: suit},
	}, nil
}

// ReadExact accumulates stream reads until exactly n bytes are
// obtained. A peer close mid-message surfaces as ErrPeerClosed;
// deadline errors pass through unchanged.
func ReadExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrPeerClosed
		}
		return nil, err
	}
	return buf, nil
}
