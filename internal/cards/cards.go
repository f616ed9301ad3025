// Package cards holds the card and deck value types shared by the
// server engine and the client round driver.
package cards

import (
	"fmt"
	"math/rand"
	"time"
)

// Suit is one of the four suits, numbered to match the wire encoding.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suitSymbols = [...]string{"H", "D", "C", "S"}

// Valid reports whether the suit code is within the wire domain.
func (s Suit) Valid() bool {
	return s <= Spades
}

func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Suit(%d)", uint8(s))
	}
	return suitSymbols[s]
}

// Card is an immutable rank/suit pair. Rank runs 1..13.
type Card struct {
	Rank int
	Suit Suit
}

func (c Card) String() string {
	return fmt.Sprintf("%d%s", c.Rank, c.Suit)
}

// Valid reports whether rank and suit are within the wire domain.
func (c Card) Valid() bool {
	return c.Rank >= 1 && c.Rank <= 13 && c.Suit.Valid()
}

// Deck is an ordered pile of unique cards supporting draw without
// replacement. A drained deck reinitializes itself to a fresh shuffled
// 52 on the next draw rather than failing.
type Deck struct {
	rng   *rand.Rand
	cards []Card
}

// NewDeck returns a freshly shuffled deck seeded from the wall clock.
func NewDeck() *Deck {
	return NewDeckWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewDeckWithRand returns a freshly shuffled deck using the given source,
// which the deck keeps for later reshuffles.
func NewDeckWithRand(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.refill()
	return d
}

// NewStackedDeck returns a deck that deals the given cards in argument
// order, then falls back to shuffled refills. Round scripting for tests.
func NewStackedDeck(stack ...Card) *Deck {
	d := &Deck{
		rng:   rand.New(rand.NewSource(0)),
		cards: make([]Card, len(stack)),
	}
	for i, c := range stack {
		d.cards[len(stack)-1-i] = c
	}
	return d
}

func (d *Deck) refill() {
	d.cards = make([]Card, 0, 52)
	for s := Hearts; s <= Spades; s++ {
		for r := 1; r <= 13; r++ {
			d.cards = append(d.cards, Card{Rank: r, Suit: s})
		}
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card, reshuffling a full deck first
// if no cards remain.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		d.refill()
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c
}

// Remaining returns the number of cards left before the next reshuffle.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
