package models

import (
	"reflect"
	"testing"
)

func TestFoldReactions(t *testing.T) {
	reactions := []MessageReaction{
		{MessageID: 1, UserID: 10, Reaction: "thumbsup"},
		{MessageID: 1, UserID: 11, Reaction: "thumbsup"},
		{MessageID: 1, UserID: 10, Reaction: "heart"},
	}

	folded := FoldReactions(reactions)
	want := map[string][]uint{
		"thumbsup": {10, 11},
		"heart":    {10},
	}
	if !reflect.DeepEqual(folded, want) {
		t.Errorf("FoldReactions = %v, want %v", folded, want)
	}
}

func TestFoldReactionsEmpty(t *testing.T) {
	folded := FoldReactions(nil)
	if folded == nil || len(folded) != 0 {
		t.Errorf("Expected an empty non-nil map, got %v", folded)
	}
}

func TestCrisisItemExhausted(t *testing.T) {
	item := CrisisItem{Quantity: 2, ClaimedQuantity: 1}
	if item.Exhausted() {
		t.Error("Item with remaining units reported exhausted")
	}
	item.ClaimedQuantity = 2
	if !item.Exhausted() {
		t.Error("Fully claimed item not reported exhausted")
	}
}
