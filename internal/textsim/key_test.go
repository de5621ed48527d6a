package textsim

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "What Is Go?", "what is go"},
		{"collapses whitespace", "  what \t is\n\ngo  ", "what is go"},
		{"strips punctuation", "What, is: (Go)?!", "what is go"},
		{"keeps digits", "Is 2+2 = 4?", "is 22 4"},
		{"thai with marks", "ข้อใดคือ สัตว์เลี้ยงลูกด้วยนม?", "ข้อใดคือ สัตว์เลี้ยงลูกด้วยนม"},
		{"fullwidth normalised", "ＧＯ　ｌａｎｇ", "go lang"},
		{"empty", " ?! ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.in); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKey_PunctuationAndWhitespaceOnly(t *testing.T) {
	pairs := [][2]string{
		{"What is the capital of France?", "what is the capital of france"},
		{"What is the capital of France?", "What   is the capital, of France ?"},
		{"กรุงเทพ เป็นเมืองหลวงของไทย", "กรุงเทพ,  เป็นเมืองหลวงของไทย!"},
	}
	for _, p := range pairs {
		if Key(p[0]) != Key(p[1]) {
			t.Errorf("Key(%q) = %q, Key(%q) = %q; want equal", p[0], Key(p[0]), p[1], Key(p[1]))
		}
	}
}
