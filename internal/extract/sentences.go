package extract

import "strings"

// Sentence is a contiguous span of the source text with its byte offsets.
// Offsets let numeric facts be attributed to their owning sentence without
// re-searching the text.
type Sentence struct {
	Index int
	Text  string
	Start int
	End   int
}

// SplitSentences splits text on sentence terminators while tracking byte
// offsets. Terminator runs (e.g. "?!" or "...") close a single sentence.
func SplitSentences(text string) []Sentence {
	var sentences []Sentence
	start := -1
	inTerminator := false

	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := text[start:end]
		trimmed := strings.TrimRight(strings.TrimSpace(raw), ".!?")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed != "" {
			// Offsets must point at the trimmed span.
			lead := strings.Index(raw, trimmed)
			sentences = append(sentences, Sentence{
				Index: len(sentences),
				Text:  trimmed,
				Start: start + lead,
				End:   start + lead + len(trimmed),
			})
		}
		start = -1
	}

	for i, r := range text {
		switch r {
		case '.', '!', '?':
			inTerminator = true
		default:
			if inTerminator {
				flush(i)
				inTerminator = false
			}
			if start < 0 && !isSpaceRune(r) {
				start = i
			}
		}
	}
	flush(len(text))

	return sentences
}

func isSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ' ':
		return true
	}
	return false
}
