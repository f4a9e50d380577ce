package services

import (
	"fmt"
	"io"
	"os"
	"strings"

	"skin-watcher/models"
	"skin-watcher/notify"
	"skin-watcher/utils"
)

type ReportService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger, out: os.Stdout}
}

// Generate folds the outputs of one run into a RunReport.
func (s *ReportService) Generate(stats ParseStats, res *ReconcileResult, sent notify.DispatchResult) *models.RunReport {
	report := &models.RunReport{
		BlocksSeen:          stats.Blocks,
		BlocksParsed:        stats.Parsed,
		BlocksDropped:       stats.Dropped,
		NotificationsSent:   sent.Submitted - sent.Failed,
		NotificationsFailed: sent.Failed,
	}

	if res != nil {
		report.NewListings = res.NewListings
		report.PriceChanges = res.PriceChanges
		report.Sold = res.Sold
		report.Removed = res.Removed
		report.Synced = res.Synced
		report.Unchanged = res.Unchanged
	}

	if report.BlocksDropped > 0 {
		s.logger.Warn("[report] %d of %d block(s) dropped as corrupted", report.BlocksDropped, report.BlocksSeen)
	}
	return report
}

func (s *ReportService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(s.out, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(s.out, "\033[1;35m  ★ SKINBUY WATCH RUN\033[0m\n")
	fmt.Fprintf(s.out, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(s.out, "\033[1;33m  Catalog\033[0m\n")
	fmt.Fprintf(s.out, "  %s\n", thin)
	fmt.Fprintf(s.out, "  Blocks found   : \033[1m%d\033[0m\n", r.BlocksSeen)
	fmt.Fprintf(s.out, "  Blocks parsed  : \033[1m%d\033[0m\n", r.BlocksParsed)
	if r.BlocksDropped > 0 {
		fmt.Fprintf(s.out, "  Blocks dropped : \033[1;31m%d\033[0m\n", r.BlocksDropped)
	} else {
		fmt.Fprintf(s.out, "  Blocks dropped : 0\n")
	}
	fmt.Fprintln(s.out)

	fmt.Fprintf(s.out, "\033[1;33m  Changes\033[0m\n")
	fmt.Fprintf(s.out, "  %s\n", thin)
	rows := []struct {
		label string
		count int
	}{
		{"New listings", r.NewListings},
		{"Price changes", r.PriceChanges},
		{"Sold", r.Sold},
		{"Removed", r.Removed},
		{"Details synced", r.Synced},
		{"Unchanged", r.Unchanged},
	}
	for _, row := range rows {
		bar := strings.Repeat("█", min(row.count, 40))
		fmt.Fprintf(s.out, "  %-16s %s (%d)\n", row.label, bar, row.count)
	}
	fmt.Fprintln(s.out)

	fmt.Fprintf(s.out, "  Notifications dispatched: \033[1;32m%d\033[0m", r.NotificationsSent+r.NotificationsFailed)
	if r.NotificationsFailed > 0 {
		fmt.Fprintf(s.out, " (\033[1;31m%d failed\033[0m)", r.NotificationsFailed)
	}
	fmt.Fprintf(s.out, "\n\033[1;35m%s\033[0m\n\n", sep)
}
