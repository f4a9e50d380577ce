package services

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"skin-watcher/utils"
)

func newTestLogger() (*utils.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return utils.NewLoggerTo(&buf, &buf, utils.LevelDebug), &buf
}

func parseLines(t *testing.T, lines ...string) ([]int, ParseStats, string) {
	t.Helper()
	logger, buf := newTestLogger()
	p := NewSectionParser(logger)
	sections := p.Parse(utils.SliceLines(lines))

	ids := make([]int, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.OrderID)
	}
	return ids, p.Stats(), buf.String()
}

func TestSectionParserWellFormed(t *testing.T) {
	ids, stats, logs := parseLines(t,
		"ナイフ・スキン販売",
		"  ★  ",
		"AK-47 | Redline (Field-Tested) #123",
		"",
		"販売価格: 15,000円",
		"ignored text between blocks",
		"★",
		"(売約済み) #77",
		" ",
		"販売価格: 3,000円",
		"★",
		"★ Karambit (Vanilla) #5",
		"\n",
		"販売価格: 100,000円 ",
	)

	if got := join(ids); got != "123,77,5" {
		t.Errorf("order ids: got %s, want 123,77,5", got)
	}
	if stats != (ParseStats{Blocks: 3, Parsed: 3}) {
		t.Errorf("stats: got %+v", stats)
	}
	if strings.Contains(logs, "WARN") {
		t.Errorf("unexpected warnings: %s", logs)
	}
}

func TestSectionParserSkipsMalformedBlock(t *testing.T) {
	ids, stats, logs := parseLines(t,
		"★",
		"AK-47 | Redline | Extra (FT) #1",
		"",
		"販売価格: 1円",
		"★",
		"AWP | Asiimov (FT) #2",
		"",
		"販売価格: 2円",
	)

	if got := join(ids); got != "2" {
		t.Errorf("order ids: got %s, want 2", got)
	}
	if stats.Dropped != 1 || stats.Parsed != 1 {
		t.Errorf("stats: got %+v", stats)
	}
	if !strings.Contains(logs, "Found corrupted item section, invalid item format") {
		t.Errorf("missing corruption warning: %s", logs)
	}
}

func TestSectionParserMissingBlankLine(t *testing.T) {
	ids, stats, logs := parseLines(t,
		"★",
		"AK-47 | Redline (FT) #1",
		"販売価格: 1円",
		"★",
		"AWP | Asiimov (FT) #2",
		"",
		"販売価格: 2円",
	)

	if got := join(ids); got != "2" {
		t.Errorf("order ids: got %s, want 2", got)
	}
	if stats.Blocks != 2 || stats.Dropped != 1 {
		t.Errorf("stats: got %+v", stats)
	}
	if !strings.Contains(logs, "no price line found.") {
		t.Errorf("missing truncation warning: %s", logs)
	}
}

func TestSectionParserMarkerInsteadOfName(t *testing.T) {
	ids, _, logs := parseLines(t,
		"★",
		"★",
		"AWP | Asiimov (FT) #2",
		"",
		"販売価格: 2円",
	)
	if got := join(ids); got != "2" {
		t.Errorf("order ids: got %s, want 2", got)
	}
	if !strings.Contains(logs, "no item name line found.") {
		t.Errorf("missing warning: %s", logs)
	}
}

func TestSectionParserTruncatedStream(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		warn  string
	}{
		{"after marker", []string{"★"}, "no item name line found."},
		{"after name", []string{"★", "AWP | Asiimov (FT) #2"}, "no blank line found."},
		{"after blank", []string{"★", "AWP | Asiimov (FT) #2", ""}, "no price line found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, stats, logs := parseLines(t, tt.lines...)
			if len(ids) != 0 {
				t.Errorf("expected no sections, got %v", ids)
			}
			if stats.Dropped != 1 {
				t.Errorf("Dropped: got %d, want 1", stats.Dropped)
			}
			if !strings.Contains(logs, tt.warn) {
				t.Errorf("expected warning %q in %s", tt.warn, logs)
			}
		})
	}
}

func TestSectionParserEmptyInput(t *testing.T) {
	ids, stats, _ := parseLines(t)
	if len(ids) != 0 || stats != (ParseStats{}) {
		t.Errorf("empty input: got %v / %+v", ids, stats)
	}
}

func TestSectionParserResetsStats(t *testing.T) {
	logger, _ := newTestLogger()
	p := NewSectionParser(logger)

	p.Parse(utils.SliceLines([]string{"★", "bad", "", "販売価格: 1円"}))
	p.Parse(utils.SliceLines([]string{"★", "AWP | Asiimov (FT) #2", "", "販売価格: 2円"}))

	if got := p.Stats(); got != (ParseStats{Blocks: 1, Parsed: 1}) {
		t.Errorf("stats after second run: got %+v", got)
	}
}

func join(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
