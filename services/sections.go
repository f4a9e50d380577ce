package services

import (
	"strings"

	"skin-watcher/models"
	"skin-watcher/utils"
)

// blockMarker is the line that opens every item block on the catalog page.
const blockMarker = "★"

type sectionState int

const (
	stateSeeking sectionState = iota
	stateExpectName
	stateExpectBlank
	stateExpectPrice
	stateEmit
)

// ParseStats counts what the last Parse call saw.
type ParseStats struct {
	Blocks  int
	Parsed  int
	Dropped int
}

// SectionParser splits the flattened catalog text into item blocks.
// A block is: marker, name line, blank line, price line.
type SectionParser struct {
	logger *utils.Logger
	stats  ParseStats
}

// NewSectionParser creates a SectionParser with the given logger.
func NewSectionParser(logger *utils.Logger) *SectionParser {
	return &SectionParser{logger: logger}
}

// Parse consumes lines and returns the well-formed blocks in source order.
// Malformed or truncated blocks are logged and skipped; Parse never fails.
// A marker met where a block line was expected abandons the current block
// and opens a new one.
func (p *SectionParser) Parse(lines utils.LineSource) []*models.ParsedSection {
	p.stats = ParseStats{}

	var (
		sections  []*models.ParsedSection
		state     = stateSeeking
		nameLine  string
		priceLine string
	)

	for {
		switch state {
		case stateSeeking:
			line, ok := lines.Next()
			if !ok {
				return sections
			}
			if isMarker(line) {
				p.stats.Blocks++
				state = stateExpectName
			}

		case stateExpectName:
			line, ok := lines.Next()
			if !ok {
				p.corrupted("no item name line found.")
				state = stateSeeking
				continue
			}
			if isMarker(line) {
				p.corrupted("no item name line found.")
				p.stats.Blocks++
				continue
			}
			nameLine = line
			state = stateExpectBlank

		case stateExpectBlank:
			line, ok := lines.Next()
			if !ok {
				p.corrupted("no blank line found.")
				state = stateSeeking
				continue
			}
			if isMarker(line) {
				p.corrupted("no blank line found.")
				p.stats.Blocks++
				state = stateExpectName
				continue
			}
			state = stateExpectPrice

		case stateExpectPrice:
			line, ok := lines.Next()
			if !ok {
				p.corrupted("no price line found.")
				state = stateSeeking
				continue
			}
			if isMarker(line) {
				p.corrupted("no price line found.")
				p.stats.Blocks++
				state = stateExpectName
				continue
			}
			priceLine = line
			state = stateEmit

		case stateEmit:
			section, err := ParseSection(nameLine, priceLine)
			if err != nil {
				p.corrupted(err.Error())
			} else {
				sections = append(sections, section)
				p.stats.Parsed++
			}
			state = stateSeeking
		}
	}
}

// Stats returns the counters of the last Parse call.
func (p *SectionParser) Stats() ParseStats {
	return p.stats
}

func (p *SectionParser) corrupted(why string) {
	p.stats.Dropped++
	p.logger.Warn("[parser] Found corrupted item section, %s", why)
}

func isMarker(line string) bool {
	return strings.TrimSpace(line) == blockMarker
}
