package quiz

import (
	"testing"

	"github.com/edugen/edugen/internal/textsim"
)

func tf(text string) Item {
	return Item{Kind: KindTrueFalse, Text: text, Answer: AnswerTrue}
}

func TestDeduplicate_SeenKeyAndNearDuplicate(t *testing.T) {
	a := "What is the capital city of France?"
	b := "What is the capital city of France today?"
	if textsim.Key(a) == textsim.Key(b) {
		t.Fatal("test needs different keys")
	}
	if !textsim.IsNearDuplicate(a, b, textsim.DefaultThreshold) {
		t.Fatalf("test needs near-duplicates, similarity %v", textsim.Similarity(a, b))
	}

	seen := NewKeySet(textsim.Key(a))
	out := Deduplicate([]Item{tf(b)}, seen, []Item{tf(a)}, nil, textsim.DefaultThreshold)
	if len(out) != 0 {
		t.Fatalf("expected near-duplicate to be dropped, got %+v", out)
	}

	// The seen key alone is enough.
	out = Deduplicate([]Item{tf(b)}, seen, nil, nil, textsim.DefaultThreshold)
	if len(out) != 0 {
		t.Fatalf("expected near-duplicate of a seen key to be dropped, got %+v", out)
	}
}

func TestDeduplicate_ExactKeyMatch(t *testing.T) {
	seen := NewKeySet(textsim.Key("Is water wet?"))
	out := Deduplicate([]Item{tf("is water, wet")}, seen, nil, nil, textsim.DefaultThreshold)
	if len(out) != 0 {
		t.Fatalf("expected exact key match to be dropped, got %+v", out)
	}
}

func TestDeduplicate_AgainstCollectedAndWithinBatch(t *testing.T) {
	collected := []Item{tf("How many legs does a spider have?")}
	items := []Item{
		tf("How many legs does a spider have ?"),
		tf("Which planet is closest to the sun?"),
		tf("Which planet is the closest to the sun?"),
		tf("Who wrote Romeo and Juliet?"),
	}
	out := Deduplicate(items, NewKeySet(), nil, collected, textsim.DefaultThreshold)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d: %+v", len(out), out)
	}
	if out[0].Text != items[1].Text || out[1].Text != items[3].Text {
		t.Fatalf("unexpected survivors or order: %q", Texts(out))
	}
}

func TestDeduplicate_DoesNotMutateInputs(t *testing.T) {
	seen := NewKeySet("x")
	items := []Item{tf("Who painted the Mona Lisa?")}
	_ = Deduplicate(items, seen, nil, nil, textsim.DefaultThreshold)
	if seen.Len() != 1 {
		t.Fatalf("seen set mutated: %d keys", seen.Len())
	}
}

func TestDeduplicate_NilSeen(t *testing.T) {
	out := Deduplicate([]Item{tf("Who painted the Mona Lisa?")}, nil, nil, nil, textsim.DefaultThreshold)
	if len(out) != 1 {
		t.Fatalf("expected item to survive, got %+v", out)
	}
}
