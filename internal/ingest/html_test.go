package ingest

import (
	"strings"
	"testing"
)

func TestExtractText_TitleAndBlocks(t *testing.T) {
	page := `<html><head><title>Итоги квартала</title></head><body>
		<h1>Итоги квартала</h1>
		<p>Выручка выросла на <b>38%</b> за квартал.</p>
		<p>Прогноз сохранен.</p>
	</body></html>`

	title, text, err := ExtractText(page)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if title != "Итоги квартала" {
		t.Errorf("expected title, got %q", title)
	}
	if !strings.Contains(text, "Выручка выросла на 38% за квартал.") {
		t.Errorf("inline elements must join with spaces:\n%s", text)
	}
	if !strings.Contains(text, "за квартал.\n\nПрогноз сохранен.") {
		t.Errorf("paragraphs must separate with a blank line:\n%s", text)
	}
}

func TestExtractText_SkipsScriptsAndChrome(t *testing.T) {
	page := `<html><body>
		<nav>Главная | Новости</nav>
		<script>var secret = "not text";</script>
		<style>p { color: red }</style>
		<p>Видимый текст.</p>
		<footer>Контакты</footer>
	</body></html>`

	_, text, err := ExtractText(page)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "Видимый текст.") {
		t.Errorf("visible text missing:\n%s", text)
	}
	for _, hidden := range []string{"secret", "color: red", "Главная", "Контакты"} {
		if strings.Contains(text, hidden) {
			t.Errorf("non-content %q leaked into text:\n%s", hidden, text)
		}
	}
}

func TestExtractText_ListItems(t *testing.T) {
	page := `<ul><li>Первый пункт</li><li>Второй пункт</li></ul>`

	_, text, err := ExtractText(page)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "Первый пункт\n\nВторой пункт") {
		t.Errorf("list items must become separate blocks:\n%s", text)
	}
}

func TestExtractText_NoTitle(t *testing.T) {
	title, text, err := ExtractText(`<p>Только текст.</p>`)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if title != "" {
		t.Errorf("expected empty title, got %q", title)
	}
	if text != "Только текст." {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://example.com/article", true},
		{"http://example.com", true},
		{"./notes.txt", false},
		{"-", false},
		{"ftp://example.com", false},
		{"example.com/article", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.source); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}
