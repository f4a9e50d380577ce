package utils

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSliceLines(t *testing.T) {
	src := SliceLines([]string{"a", "", "b"})
	var got []string
	for {
		line, ok := src.Next()
		if !ok {
			break
		}
		got = append(got, line)
	}
	if strings.Join(got, ",") != "a,,b" {
		t.Errorf("lines: got %q", got)
	}
	if _, ok := src.Next(); ok {
		t.Error("exhausted source should stay exhausted")
	}
}

func TestScanLines(t *testing.T) {
	src := ScanLines(strings.NewReader("★\nAK-47 | Redline (FT) #1\n\n販売価格: 100円\n"))
	n := 0
	for {
		if _, ok := src.Next(); !ok {
			break
		}
		n++
	}
	if n != 4 {
		t.Errorf("line count: got %d, want 4", n)
	}
	if src.Err() != nil {
		t.Errorf("unexpected error: %v", src.Err())
	}
}

func TestLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, LevelWarn)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	if strings.Contains(out.String(), "debug 1") || strings.Contains(out.String(), "info 2") {
		t.Errorf("messages below WARN should be dropped, got %q", out.String())
	}
	if !strings.Contains(out.String(), "warn 3") {
		t.Errorf("missing warning in %q", out.String())
	}
	if !strings.Contains(errOut.String(), "error 4") {
		t.Errorf("missing error in %q", errOut.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{" DEBUG ", LevelDebug},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestRetryEventuallySucceeds(t *testing.T) {
	var out bytes.Buffer
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLoggerTo(&out, &out, LevelInfo)}

	calls := 0
	err := r.Do(context.Background(), "flaky", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
	if !strings.Contains(out.String(), "flaky failed (attempt 1/3)") {
		t.Errorf("missing retry warning in %q", out.String())
	}
}

func TestRetryGivesUp(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond}
	boom := errors.New("boom")

	err := r.Do(context.Background(), "always", func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
