package quality

import (
	"regexp"
	"sort"
	"strings"

	"github.com/akulenkov/konspekt/internal/model"
)

// Critical-token patterns mirror the fact extractor's pattern set plus
// years, clock times and long integers. Both source and summary run
// through the same set, so preservation is checked symmetrically.
var criticalPatterns = []*regexp.Regexp{
	// Percentages
	regexp.MustCompile(`(?i)\b\d+(?:[,.]\d+)?\s*%`),
	// Currencies, with an optional scale word between amount and unit
	regexp.MustCompile(`(?i)\d+(?:\s?\d{3})*(?:[,.]\d+)?\s*(?:млн\.?|млрд\.?|тыс\.?)?\s*(?:₽|руб\.?|рублей|рубля|рубль)`),
	regexp.MustCompile(`(?i)\$\s*\d+(?:\s?\d{3})*(?:[,.]\d+)?(?:\s*(?:млн|млрд|тыс|million|billion|thousand)\.?)?`),
	regexp.MustCompile(`(?i)€\s*\d+(?:\s?\d{3})*(?:[,.]\d+)?(?:\s*(?:млн|млрд|тыс|million|billion|thousand)\.?)?`),
	// Scaled quantities
	regexp.MustCompile(`(?i)\d+(?:[,.]\d+)?\s*(?:млн\.?|миллионов|миллиона|миллион|млрд\.?|миллиардов|миллиарда|миллиард|тыс\.?|тысячи|тысяч|million|billion|thousand)`),
	// Ranges
	regexp.MustCompile(`\d+(?:[,.]\d+)?\s*[-–—]\s*\d+(?:[,.]\d+)?`),
	// Dates
	regexp.MustCompile(`\b\d{1,2}[./]\d{1,2}[./]\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:january|february|march|april|may|june|july|august|september|october|november|december)`),
	// Clock times
	regexp.MustCompile(`\b\d{1,2}:\d{2}\b`),
	// Basis points
	regexp.MustCompile(`(?i)[+-]?\d+(?:[,.]\d+)?\s*(?:б\.п\.|bps)`),
	// Years
	regexp.MustCompile(`\b20\d{2}\b`),
	// Long integers (IDs, codes, amounts)
	regexp.MustCompile(`\b\d{3,}\b`),
}

// matchNormalizer strips everything outside digits, separators, percent
// and currency symbols, and letters. The comparison is deliberately
// coarse: reformatted numbers may not match, visually distinct ones may.
var matchNormalizer = regexp.MustCompile(`[^0-9,.\-–—%₽$€а-яёa-z]`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExtractCriticalTokens collects every critical numeric token in the text,
// whitespace-collapsed, as a set.
func ExtractCriticalTokens(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, re := range criticalPatterns {
		for _, m := range re.FindAllString(text, -1) {
			tokens[whitespaceRun.ReplaceAllString(strings.TrimSpace(m), " ")] = true
		}
	}
	return tokens
}

// ValidateNumbersPreserved reports whether every critical token of the
// source has a match in the summary, and lists the ones that do not.
func ValidateNumbersPreserved(source, summary string) (bool, []string) {
	sourceTokens := ExtractCriticalTokens(source)
	summaryTokens := ExtractCriticalTokens(summary)

	normalizedSummary := make(map[string]bool, len(summaryTokens))
	for t := range summaryTokens {
		normalizedSummary[normalizeToken(t)] = true
	}

	var missing []string
	for t := range sourceTokens {
		if summaryTokens[t] {
			continue
		}
		if !normalizedSummary[normalizeToken(t)] {
			missing = append(missing, t)
		}
	}
	sort.Strings(missing)

	return len(missing) == 0, missing
}

func normalizeToken(t string) string {
	return matchNormalizer.ReplaceAllString(strings.ToLower(t), "")
}

// Check scores a summary against its source: numeric fidelity, language
// correctness, length compliance and a weighted composite in [0,1].
func Check(source, summary string, lang model.Language, targetChars int) model.QualityReport {
	preserved, missing := ValidateNumbersPreserved(source, summary)
	langOK := AssertLanguage(lang, summary)

	actualLength := len([]rune(summary))
	lengthOK := actualLength <= targetChars*12/10

	report := model.QualityReport{
		NumbersPreserved:  preserved,
		MissingNumbers:    missing,
		LanguageCorrect:   langOK,
		LengthAppropriate: lengthOK,
		ActualLength:      actualLength,
		TargetLength:      targetChars,
	}
	report.QualityScore = score(source, summary, report)
	return report
}

// score computes the weighted composite: numbers 0.4, length 0.2,
// language 0.2, structural markers 0.1, content density 0.1.
func score(source, summary string, report model.QualityReport) float64 {
	if strings.TrimSpace(summary) == "" {
		return 0
	}

	numberScore := 1.0
	if !report.NumbersPreserved {
		sourceTokens := ExtractCriticalTokens(source)
		if len(sourceTokens) > 0 {
			numberScore = 1 - float64(len(report.MissingNumbers))/float64(len(sourceTokens))
			if numberScore < 0 {
				numberScore = 0
			}
		}
	}

	lengthScore := 0.0
	if report.LengthAppropriate {
		lengthScore = 1.0
	}

	langScore := 0.3
	if report.LanguageCorrect {
		langScore = 1.0
	}

	structureScore := 0.6
	if strings.ContainsAny(summary, "•—") || strings.Contains(summary, "\n") {
		structureScore = 0.8
	}

	contentWords := 0
	for _, w := range strings.Fields(summary) {
		if len([]rune(w)) > 3 {
			contentWords++
		}
	}
	contentScore := 0.4
	switch {
	case contentWords >= 10:
		contentScore = 1.0
	case contentWords >= 5:
		contentScore = 0.7
	}

	total := numberScore*0.4 + lengthScore*0.2 + langScore*0.2 + structureScore*0.1 + contentScore*0.1
	if total < 0 {
		return 0
	}
	if total > 1 {
		return 1
	}
	return total
}

// TrimToLength cuts text down to targetChars with a 10% tolerance,
// preferring sentence boundaries, hard-cutting with an ellipsis otherwise.
func TrimToLength(text string, targetChars int) string {
	maxLen := targetChars * 11 / 10
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	var trimmed strings.Builder
	count := 0
	for _, s := range splitOnTerminators(text) {
		step := len([]rune(s)) + 2
		if count+step > targetChars {
			break
		}
		trimmed.WriteString(s)
		trimmed.WriteString(". ")
		count += step
	}

	if strings.TrimSpace(trimmed.String()) == "" {
		return string(runes[:targetChars]) + "…"
	}
	return strings.TrimSpace(trimmed.String())
}

func splitOnTerminators(text string) []string {
	parts := regexp.MustCompile(`[.!?]+`).Split(text, -1)
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
