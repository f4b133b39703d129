package quality

import (
	"regexp"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	"github.com/akulenkov/konspekt/internal/model"
)

// The detector is a read-mostly resource handle: built once, shared by
// all requests, bounded to exactly the two supported languages.
var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Russian, lingua.English).
			Build()
	})
	return detector
}

var (
	cyrillicRe = regexp.MustCompile(`[а-яё]`)
	latinRe    = regexp.MustCompile(`[a-z]`)
)

// AssertLanguage reports whether the dominant language of the text matches
// the expected one. When statistical detection yields nothing, a
// script-presence heuristic decides; it is intentionally coarse and only
// valid for the ru/en pair.
func AssertLanguage(expected model.Language, text string) bool {
	if detected, ok := languageDetector().DetectLanguageOf(text); ok {
		switch detected {
		case lingua.Russian:
			return expected == model.LangRussian
		case lingua.English:
			return expected == model.LangEnglish
		}
	}

	lower := strings.ToLower(text)
	hasCyrillic := cyrillicRe.MatchString(lower)
	if expected == model.LangRussian {
		return hasCyrillic
	}
	return !hasCyrillic && latinRe.MatchString(lower)
}
