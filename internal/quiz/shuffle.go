package quiz

import "math/rand/v2"

// Shuffle returns the items in a uniformly random order, with the choices
// of every multiple-choice item independently permuted and its answer
// remapped to follow the correct option. True-false items are only moved.
// A nil r uses the global source.
func Shuffle(items []Item, r *rand.Rand) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}

	permute(r, len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	for i := range out {
		if out[i].Kind == KindMultipleChoice {
			out[i] = ShuffleChoices(out[i], r)
		}
	}
	return out
}

// ShuffleForDisplay shuffles items with the global random source.
func ShuffleForDisplay(items []Item) []Item {
	return Shuffle(items, nil)
}

// ShuffleChoices returns a copy of a multiple-choice item with its choices
// permuted and the answer moved with the correct option.
func ShuffleChoices(it Item, r *rand.Rand) Item {
	it = it.Clone()
	correct := it.CorrectIndex()

	order := make([]int, len(it.Choices))
	for i := range order {
		order[i] = i
	}
	permute(r, len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	choices := make([]string, len(order))
	for newIdx, oldIdx := range order {
		choices[newIdx] = it.Choices[oldIdx]
		if oldIdx == correct {
			it.Answer = MarkerAnswer(Position(newIdx))
		}
	}
	it.Choices = choices
	return it
}

// permute runs a Fisher-Yates shuffle.
func permute(r *rand.Rand, n int, swap func(i, j int)) {
	if r == nil {
		rand.Shuffle(n, swap)
		return
	}
	r.Shuffle(n, swap)
}
