package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/akulenkov/konspekt/internal/model"
)

// Calendar expressions recognized per language. Normalization to ISO is
// best-effort: a raw span with an empty Normalized field is still a fact.
var datePatternsRU = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,2})\s+(января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)(?:\s+(\d{4}))?`),
	regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})[./](\d{2,4})\b`),
	regexp.MustCompile(`(?i)\b(?:к|до)\s+(\d{1,2})\s+(января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)`),
	regexp.MustCompile(`(?i)\b(январь|января|февраль|февраля|март|марта|апрель|апреля|май|мая|июнь|июня|июль|июля|август|августа|сентябрь|сентября|октябрь|октября|ноябрь|ноября|декабрь|декабря)\s+(\d{4})`),
	regexp.MustCompile(`(?i)\b(понедельник|вторник|среда|среду|четверг|пятница|пятницу|суббота|субботу|воскресенье)\b`),
	regexp.MustCompile(`(?i)\b(завтра|послезавтра|вчера|позавчера|сегодня)\b`),
	regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`),
}

var datePatternsEN = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(january|february|march|april|may|june|july|august|september|october|november|december)(?:\s+(\d{4}))?`),
	regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?`),
	regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})[./](\d{2,4})\b`),
	regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	regexp.MustCompile(`(?i)\b(today|tomorrow|yesterday)\b`),
	regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`),
}

var monthsRU = map[string]time.Month{
	"январ": time.January, "феврал": time.February, "март": time.March,
	"апрел": time.April, "ма": time.May, "июн": time.June, "июл": time.July,
	"август": time.August, "сентябр": time.September, "октябр": time.October,
	"ноябр": time.November, "декабр": time.December,
}

var monthsEN = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var relativeDays = map[string]int{
	"сегодня": 0, "завтра": 1, "послезавтра": 2, "вчера": -1, "позавчера": -2,
	"today": 0, "tomorrow": 1, "yesterday": -1,
}

// ExtractDates finds calendar expressions and normalizes the ones it can.
// It never fails: unparseable spans keep their raw text only.
func ExtractDates(text string, lang model.Language) []model.DateFact {
	patterns := datePatternsRU
	if lang == model.LangEnglish {
		patterns = datePatternsEN
	}

	var dates []model.DateFact
	var claimed [][2]int

	for _, re := range patterns {
		for _, m := range re.FindAllStringIndex(text, -1) {
			if containedIn(claimed, m[0], m[1]) {
				continue
			}
			raw := text[m[0]:m[1]]
			dates = append(dates, model.DateFact{
				Raw:        raw,
				Normalized: normalizeDate(raw, lang),
				Start:      m[0],
				End:        m[1],
			})
			claimed = append(claimed, [2]int{m[0], m[1]})
		}
	}

	return dates
}

// normalizeDate attempts to turn a raw calendar expression into YYYY-MM-DD.
// Returns "" when the expression carries no resolvable day (weekday names,
// clock times, bare months).
func normalizeDate(raw string, lang model.Language) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	now := time.Now()

	if offset, ok := relativeDays[lower]; ok {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}

	// dd.mm.yyyy and dd/mm/yy
	if m := regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{2,4})$`).FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
		return ""
	}

	// day + month name (+year), either word order
	day, month, year := 0, time.Month(0), 0
	for _, field := range strings.Fields(strings.Trim(lower, ",.")) {
		if n, err := strconv.Atoi(strings.TrimRight(field, ",.")); err == nil {
			switch {
			case n >= 1000:
				year = n
			case day == 0 && n >= 1 && n <= 31:
				day = n
			}
			continue
		}
		if m := lookupMonth(field, lang); m != 0 {
			month = m
		}
	}
	if day == 0 || month == 0 {
		return ""
	}
	if year == 0 {
		year = now.Year()
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

func lookupMonth(word string, lang model.Language) time.Month {
	word = strings.Trim(word, ",.")
	// English suffixes like "1st" never reach here; ordinals are numeric.
	word = strings.TrimSuffix(word, "th")
	if lang == model.LangEnglish {
		return monthsEN[word]
	}
	// Russian month names decline; match on the stem.
	for stem, m := range monthsRU {
		if strings.HasPrefix(word, stem) {
			// "ма" is a prefix of "марта"; require the exact declined forms for May.
			if stem == "ма" && word != "мая" && word != "мае" && word != "май" {
				continue
			}
			return m
		}
	}
	return 0
}
