package extract

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/akulenkov/konspekt/internal/model"
)

func findByRaw(dates []model.DateFact, raw string) *model.DateFact {
	for i := range dates {
		if dates[i].Raw == raw {
			return &dates[i]
		}
	}
	return nil
}

func TestExtractDates_RussianDayMonthYear(t *testing.T) {
	dates := ExtractDates("Сделку закроют 15 сентября 2025 года", model.LangRussian)

	d := findByRaw(dates, "15 сентября 2025")
	if d == nil {
		t.Fatalf("expected date fact, got %+v", dates)
	}
	if d.Normalized != "2025-09-15" {
		t.Errorf("expected 2025-09-15, got %q", d.Normalized)
	}
}

func TestExtractDates_RussianNoYear(t *testing.T) {
	dates := ExtractDates("Отчёт сдадут 3 марта", model.LangRussian)

	d := findByRaw(dates, "3 марта")
	if d == nil {
		t.Fatalf("expected date fact, got %+v", dates)
	}
	want := fmt.Sprintf("%d-03-03", time.Now().Year())
	if d.Normalized != want {
		t.Errorf("expected %s, got %q", want, d.Normalized)
	}
}

func TestExtractDates_May(t *testing.T) {
	// "мая" must resolve to May and never swallow "марта".
	dates := ExtractDates("Встреча 5 мая 2025", model.LangRussian)

	d := findByRaw(dates, "5 мая 2025")
	if d == nil {
		t.Fatalf("expected date fact, got %+v", dates)
	}
	if d.Normalized != "2025-05-05" {
		t.Errorf("expected 2025-05-05, got %q", d.Normalized)
	}
}

func TestExtractDates_Numeric(t *testing.T) {
	dates := ExtractDates("Договор подписан 10.05.2024 в офисе", model.LangRussian)

	d := findByRaw(dates, "10.05.2024")
	if d == nil {
		t.Fatalf("expected date fact, got %+v", dates)
	}
	if d.Normalized != "2024-05-10" {
		t.Errorf("expected 2024-05-10, got %q", d.Normalized)
	}
}

func TestExtractDates_WeekdayNotNormalized(t *testing.T) {
	dates := ExtractDates("Встретимся в пятницу в офисе", model.LangRussian)

	d := findByRaw(dates, "пятницу")
	if d == nil {
		t.Fatalf("expected weekday fact, got %+v", dates)
	}
	if d.Normalized != "" {
		t.Errorf("weekday should not normalize, got %q", d.Normalized)
	}
}

func TestExtractDates_Relative(t *testing.T) {
	dates := ExtractDates("Сделаем это завтра утром", model.LangRussian)

	d := findByRaw(dates, "завтра")
	if d == nil {
		t.Fatalf("expected relative date fact, got %+v", dates)
	}
	want := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	if d.Normalized != want {
		t.Errorf("expected %s, got %q", want, d.Normalized)
	}
}

func TestExtractDates_ClockTime(t *testing.T) {
	dates := ExtractDates("Звонок назначен на 14:30 по Москве", model.LangRussian)

	d := findByRaw(dates, "14:30")
	if d == nil {
		t.Fatalf("expected clock time fact, got %+v", dates)
	}
	if d.Normalized != "" {
		t.Errorf("clock time should not normalize, got %q", d.Normalized)
	}
}

func TestExtractDates_English(t *testing.T) {
	dates := ExtractDates("The office opens on March 3, 2026 in Berlin", model.LangEnglish)

	var found *model.DateFact
	for i := range dates {
		if strings.Contains(strings.ToLower(dates[i].Raw), "march") {
			found = &dates[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("expected english date fact, got %+v", dates)
	}
	if found.Normalized != "2026-03-03" {
		t.Errorf("expected 2026-03-03, got %q", found.Normalized)
	}
}

func TestExtractDates_OffsetsAreVerbatim(t *testing.T) {
	text := "Срок — 15 сентября 2025, потом отпуск"
	dates := ExtractDates(text, model.LangRussian)
	if len(dates) == 0 {
		t.Fatal("expected at least one date")
	}
	for _, d := range dates {
		if text[d.Start:d.End] != d.Raw {
			t.Errorf("raw %q is not the substring at [%d:%d]", d.Raw, d.Start, d.End)
		}
	}
}
