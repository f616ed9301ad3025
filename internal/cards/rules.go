package cards

// Value scores a single card: rank 1 always counts 11, 2..10 count
// face value, face cards count 10. There is no soft-ace re-scoring.
func Value(c Card) int {
	switch {
	case c.Rank == 1:
		return 11
	case c.Rank <= 10:
		return c.Rank
	default:
		return 10
	}
}

// HandValue sums the card values of a hand.
func HandValue(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += Value(c)
	}
	return total
}

// IsBust reports whether the hand value exceeds 21.
func IsBust(hand []Card) bool {
	return HandValue(hand) > 21
}

// DealerShouldHit reports whether the dealer must draw another card.
// The dealer draws strictly below 17 and stands on 17 or more,
// regardless of hand composition.
func DealerShouldHit(hand []Card) bool {
	return HandValue(hand) < 17
}
