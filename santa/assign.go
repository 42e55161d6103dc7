// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package santa

import (
	"math/rand/v2"

	"github.com/danielhkuo/secret-santa/models"
)

// Pair is one santa → giftee assignment
type Pair struct {
	Santa  string
	Giftee string
}

// Generate builds a single gift-giving cycle over the participants.
//
// The IDs are shuffled uniformly (Fisher-Yates) and each one gives to the
// next, with the last wrapping around to the first. Every participant ends
// up with exactly one santa and one giftee, and nobody draws themselves.
// Duplicate and empty IDs are dropped before shuffling.
func Generate(participantIDs []string) ([]Pair, error) {
	return generate(participantIDs, rand.Shuffle)
}

func generate(participantIDs []string, shuffle func(n int, swap func(i, j int))) ([]Pair, error) {
	order := distinct(participantIDs)
	if len(order) < models.MinParticipants {
		return nil, ErrInsufficientParticipants
	}

	shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	pairs := make([]Pair, len(order))
	for i, santa := range order {
		pairs[i] = Pair{
			Santa:  santa,
			Giftee: order[(i+1)%len(order)],
		}
	}

	return pairs, nil
}

// distinct returns a copy of ids without blanks or repeats, keeping first-seen order
func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
