package textsim

import "strings"

// stopWords are Thai function words with no value for telling two questions
// apart.
var stopWords = toSet(strings.Fields(`
	คือ ของ และ หรือ ที่ ใน เป็น ได้ มี ใด ใดๆ อะไร อย่างไร ใคร ไหน ข้อใด
	ต่อไปนี้ มาก น้อย ไม่ ใช่ จาก ตาม เพื่อ เช่น ดังนั้น ดังกล่าว ซึ่ง โดย
	เพราะ ดังนั้นจึง`))

// repetitionMark is the Thai repetition sign (ไม้ยมก). It is a letter in
// Unicode terms but separates words in practice.
const repetitionMark = 'ๆ'

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether the lower-cased token w is ignored by Tokenize.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
