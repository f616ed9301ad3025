package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"blackjack/internal/cards"
	"blackjack/internal/client"
	"blackjack/internal/protocol"
)

var suitGlyphs = map[cards.Suit]string{
	cards.Hearts:   pterm.Red("♥"),
	cards.Diamonds: pterm.Red("♦"),
	cards.Clubs:    pterm.White("♣"),
	cards.Spades:   pterm.White("♠"),
}

var rankNames = map[int]string{1: "A", 11: "J", 12: "Q", 13: "K"}

func cardLabel(c cards.Card) string {
	rank, ok := rankNames[c.Rank]
	if !ok {
		rank = fmt.Sprintf("%d", c.Rank)
	}
	return rank + suitGlyphs[c.Suit]
}

func handLabel(hand []cards.Card) string {
	labels := make([]string, len(hand))
	for i, c := range hand {
		labels[i] = cardLabel(c)
	}
	return fmt.Sprintf("%s (%d)", strings.Join(labels, " "), cards.HandValue(hand))
}

// termTable renders the table at the terminal and prompts for
// decisions. It implements client.Table.
type termTable struct {
	player []cards.Card
	dealer []cards.Card
}

func newTermTable() *termTable {
	return &termTable{}
}

func (t *termTable) CardDealt(seat client.Seat, c cards.Card) {
	if seat == client.SeatPlayer {
		t.player = append(t.player, c)
		pterm.Info.Printfln("You drew %s, your hand: %s", cardLabel(c), handLabel(t.player))
		if cards.IsBust(t.player) {
			pterm.Error.Println("Bust!")
		}
		return
	}
	t.dealer = append(t.dealer, c)
	pterm.Info.Printfln("Dealer shows %s, dealer hand: %s", cardLabel(c), handLabel(t.dealer))
}

func (t *termTable) Prompt() (protocol.Decision, error) {
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{"Hit", "Stand"}).
		WithDefaultText("Your move").
		Show()
	if err != nil {
		return "", err
	}
	if choice == "Hit" {
		return protocol.DecisionHit, nil
	}
	return protocol.DecisionStand, nil
}

func (t *termTable) Resolved(outcome protocol.Result) {
	switch outcome {
	case protocol.ResultWin:
		pterm.Success.Println("You win!")
	case protocol.ResultLoss:
		pterm.Error.Println("You lose.")
	case protocol.ResultTie:
		pterm.Warning.Println("Push.")
	}
	t.player = nil
	t.dealer = nil
}
