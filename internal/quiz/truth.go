package quiz

import "strings"

// truthWords maps lower-cased true-false answers to their value.
var truthWords = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "1": true,
	"correct": true, "right": true,
	"จริง": true, "ถูก": true, "ถูกต้อง": true, "ใช่": true,

	"false": false, "f": false, "no": false, "n": false, "0": false,
	"incorrect": false, "wrong": false,
	"เท็จ": false, "ผิด": false, "ไม่ถูก": false, "ไม่ถูกต้อง": false, "ไม่ใช่": false, "ไม่จริง": false,
}

// ParseTruth normalizes a true-false answer. Unrecognized input is false.
func ParseTruth(raw string) bool {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(raw), ".!"))
	return truthWords[s]
}

// IsTruthWord reports whether raw is a recognized true-false answer.
func IsTruthWord(raw string) bool {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(raw), ".!"))
	_, ok := truthWords[s]
	return ok
}
