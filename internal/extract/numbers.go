package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/akulenkov/konspekt/internal/model"
)

// numberPattern pairs a compiled regex with the kind of fact it yields.
// Patterns are applied in order; a match fully contained in the span of an
// earlier match is dropped, so "38%" never also produces a bare "38".
type numberPattern struct {
	kind model.NumberKind
	re   *regexp.Regexp
}

var numberPatterns = []numberPattern{
	{model.KindPercentage, regexp.MustCompile(`(?i)(\d+(?:[,.]\d+)?)\s*%`)},
	{model.KindCurrencyRUB, regexp.MustCompile(`(?i)(\d+(?:\s?\d{3})*(?:[,.]\d+)?)\s*(?:₽|руб\.?|рублей|рубля|рубль)`)},
	{model.KindCurrencyUSD, regexp.MustCompile(`(?i)(?:\$|USD\s*)(\d+(?:\s?\d{3})*(?:[,.]\d+)?)`)},
	{model.KindCurrencyEUR, regexp.MustCompile(`(?i)(?:€|EUR\s*)(\d+(?:\s?\d{3})*(?:[,.]\d+)?)`)},
	{model.KindBillions, regexp.MustCompile(`(?i)(\d+(?:[,.]\d+)?)\s*(?:млрд\.?|миллиардов|миллиарда|миллиард|billion|bn)`)},
	{model.KindMillions, regexp.MustCompile(`(?i)(\d+(?:[,.]\d+)?)\s*(?:млн\.?|миллионов|миллиона|миллион|million)`)},
	{model.KindThousands, regexp.MustCompile(`(?i)(\d+(?:[,.]\d+)?)\s*(?:тыс\.?|тысячи|тысяч|thousand)`)},
	{model.KindBasisPoints, regexp.MustCompile(`(?i)([+-]?\d+(?:[,.]\d+)?)\s*(?:б\.п\.|bps|basis points)`)},
	{model.KindRange, regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*[-–—]\s*(\d+(?:[,.]\d+)?)`)},
	{model.KindDecimal, regexp.MustCompile(`\b(\d+[,.]\d+)\b`)},
}

// scale multipliers for the quantity kinds
var kindMultiplier = map[model.NumberKind]float64{
	model.KindThousands: 1_000,
	model.KindMillions:  1_000_000,
	model.KindBillions:  1_000_000_000,
}

var kindCurrency = map[model.NumberKind]string{
	model.KindCurrencyRUB: "RUB",
	model.KindCurrencyUSD: "USD",
	model.KindCurrencyEUR: "EUR",
}

// ExtractNumbers finds every numeric fact in the text. The raw span of
// each fact is a verbatim substring of the input.
func ExtractNumbers(text string) []model.Fact {
	var facts []model.Fact
	var claimed [][2]int

	for _, p := range numberPatterns {
		matches := p.re.FindAllStringSubmatchIndex(text, -1)
		for _, m := range matches {
			start, end := m[0], m[1]
			if containedIn(claimed, start, end) {
				continue
			}

			raw := text[start:end]
			fact := model.Fact{
				Raw:   raw,
				Kind:  p.kind,
				Start: start,
				End:   end,
			}

			first := text[m[2]:m[3]]
			switch p.kind {
			case model.KindPercentage:
				fact.Value = parseNumber(first) / 100
				fact.Unit = "%"
			case model.KindCurrencyRUB, model.KindCurrencyUSD, model.KindCurrencyEUR:
				fact.Value = parseNumber(first)
				fact.Unit = kindCurrency[p.kind]
			case model.KindThousands, model.KindMillions, model.KindBillions:
				fact.Value = parseNumber(first) * kindMultiplier[p.kind]
				fact.Unit = "count"
			case model.KindRange:
				fact.Value = parseNumber(first)
				end := parseNumber(text[m[4]:m[5]])
				fact.RangeEnd = &end
				fact.Unit = "range"
			case model.KindBasisPoints:
				fact.Value = parseNumber(first) / 10000
				fact.Unit = "bp"
			default:
				fact.Value = parseNumber(first)
			}

			facts = append(facts, fact)
			claimed = append(claimed, [2]int{start, end})
		}
	}

	return facts
}

func containedIn(spans [][2]int, start, end int) bool {
	for _, s := range spans {
		if start >= s[0] && end <= s[1] {
			return true
		}
	}
	return false
}

// parseNumber reads a number as it appears in prose: thousands groups may
// be space-separated and the decimal separator may be a comma.
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
