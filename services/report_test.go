package services

import (
	"bytes"
	"strings"
	"testing"

	"skin-watcher/notify"
)

func TestReportGenerate(t *testing.T) {
	logger, logs := newTestLogger()
	svc := NewReportService(logger)

	r := svc.Generate(
		ParseStats{Blocks: 5, Parsed: 4, Dropped: 1},
		&ReconcileResult{NewListings: 2, PriceChanges: 1, Sold: 1, Removed: 1},
		notify.DispatchResult{Submitted: 5, Failed: 2},
	)

	if r.BlocksSeen != 5 || r.BlocksParsed != 4 || r.BlocksDropped != 1 {
		t.Errorf("block counts: got %+v", r)
	}
	if r.NotificationsSent != 3 || r.NotificationsFailed != 2 {
		t.Errorf("notification counts: got sent %d failed %d, want 3 / 2", r.NotificationsSent, r.NotificationsFailed)
	}
	if r.NewListings != 2 || r.Removed != 1 {
		t.Errorf("change counts: got %+v", r)
	}
	if !strings.Contains(logs.String(), "1 of 5 block(s) dropped") {
		t.Errorf("missing dropped-block warning: %s", logs.String())
	}
}

func TestReportPrint(t *testing.T) {
	logger, _ := newTestLogger()
	svc := NewReportService(logger)
	var out bytes.Buffer
	svc.out = &out

	svc.Print(svc.Generate(ParseStats{Blocks: 1, Parsed: 1}, nil, notify.DispatchResult{Submitted: 4}))

	if !strings.Contains(out.String(), "Notifications dispatched: \033[1;32m4\033[0m") {
		t.Errorf("summary line missing: %q", out.String())
	}
	if strings.Contains(out.String(), "failed") {
		t.Errorf("no failures expected in %q", out.String())
	}
}
