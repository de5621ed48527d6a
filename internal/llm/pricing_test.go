package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model   string
		wantNil bool
		input   float64
	}{
		{"gpt-4o-mini", false, 0.15},
		{"openai/gpt-4o-mini", false, 0.15},
		{"google/gemini-2.0-flash-exp", true, 0},
		{"mock", true, 0},
	}
	for _, tt := range tests {
		got := LookupCost(tt.model)
		if (got == nil) != tt.wantNil {
			t.Fatalf("LookupCost(%q) = %v", tt.model, got)
		}
		if got != nil && got.InputPerMTok != tt.input {
			t.Errorf("LookupCost(%q).InputPerMTok = %v", tt.model, got.InputPerMTok)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	if got := c.Cost(1_000_000, 200_000); math.Abs(got-2) > 1e-9 {
		t.Fatalf("cost = %v, want 2", got)
	}
}
