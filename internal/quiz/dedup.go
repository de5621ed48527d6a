package quiz

import "github.com/edugen/edugen/internal/textsim"

// Deduplicate returns the items, in input order, whose key is not in seen
// and whose text is not a near-duplicate of any accepted or collected item
// or of any seen key. Items that survive earlier in the same call count as
// collected, so the output never holds two near-duplicates. Inputs are not
// modified.
func Deduplicate(items []Item, seen *KeySet, accepted, collected []Item, threshold float64) []Item {
	prior := make([]string, 0, seen.Len()+len(accepted)+len(collected)+len(items))
	prior = append(prior, seen.Keys()...)
	prior = append(prior, Texts(accepted)...)
	prior = append(prior, Texts(collected)...)
	cycleKeys := NewKeySet(KeysOf(collected)...)

	var out []Item
	for _, it := range items {
		key := textsim.Key(it.Text)
		if seen.Has(key) || cycleKeys.Has(key) {
			continue
		}
		if nearDuplicateOfAny(it.Text, prior, threshold) {
			continue
		}
		out = append(out, it)
		prior = append(prior, it.Text)
		cycleKeys.Add(key)
	}
	return out
}

func nearDuplicateOfAny(text string, others []string, threshold float64) bool {
	for _, o := range others {
		if textsim.IsNearDuplicate(text, o, threshold) {
			return true
		}
	}
	return false
}
