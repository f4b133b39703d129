package chunk

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/akulenkov/konspekt/internal/extract"
)

// DefaultMaxChars bounds a Phase A chunk so one generation call sees a
// manageable slice of the source.
const DefaultMaxChars = 2800

// headerStart matches a blank-line boundary followed by a header-like
// line: an enumeration, a bullet, a markdown heading, or a capitalized
// label. Splitting here keeps document structure intact.
var headerStart = regexp.MustCompile(`\n\n+(?:[А-ЯЁA-Z][^\n]*:|\d+\.|\*|#)`)

// Split breaks text into ordered chunks of at most maxChars characters.
// Boundaries are chosen at headers first, then sentences, then words;
// maxChars is a hard ceiling and no returned chunk is empty.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	for _, section := range packSections(splitAtHeaders(text), maxChars) {
		if len(section) <= maxChars {
			chunks = append(chunks, section)
			continue
		}
		for _, part := range splitBySentences(section, maxChars) {
			if len(part) <= maxChars {
				chunks = append(chunks, part)
				continue
			}
			chunks = append(chunks, splitByWords(part, maxChars)...)
		}
	}

	return chunks
}

// splitAtHeaders cuts the text at header-like boundaries, keeping the
// header line with the section it opens.
func splitAtHeaders(text string) []string {
	locs := headerStart.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	var sections []string
	prev := 0
	for _, loc := range locs {
		// The boundary sits after the blank line, before the header char.
		cut := strings.LastIndexByte(text[loc[0]:loc[1]], '\n') + loc[0] + 1
		if cut <= prev {
			continue
		}
		if s := strings.TrimSpace(text[prev:cut]); s != "" {
			sections = append(sections, s)
		}
		prev = cut
	}
	if s := strings.TrimSpace(text[prev:]); s != "" {
		sections = append(sections, s)
	}
	return sections
}

// packSections greedily merges adjacent sections while they fit the limit,
// so short headers do not each become a chunk of their own.
func packSections(sections []string, maxChars int) []string {
	var packed []string
	var current strings.Builder

	for _, s := range sections {
		if current.Len() > 0 && current.Len()+len(s)+2 > maxChars {
			packed = append(packed, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		packed = append(packed, strings.TrimSpace(current.String()))
	}
	return packed
}

func splitBySentences(text string, maxChars int) []string {
	sentences := extract.SplitSentences(text)
	if len(sentences) == 0 {
		return []string{text}
	}

	var parts []string
	var current strings.Builder

	for _, s := range sentences {
		sentence := s.Text + "."
		if current.Len() > 0 && current.Len()+len(sentence)+1 > maxChars {
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}

// splitByWords is the last resort: a single sentence longer than the
// limit is cut at word boundaries, hard ceiling respected.
func splitByWords(text string, maxChars int) []string {
	words := strings.Fields(text)
	var parts []string
	var current strings.Builder

	for _, w := range words {
		if current.Len() > 0 && current.Len()+len(w)+1 > maxChars {
			parts = append(parts, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		// A single word longer than the limit is cut mid-word,
		// on rune boundaries.
		for len(w) > maxChars {
			cut := maxChars
			for cut > 0 && !utf8.RuneStart(w[cut]) {
				cut--
			}
			parts = append(parts, w[:cut])
			w = w[cut:]
		}
		current.WriteString(w)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
