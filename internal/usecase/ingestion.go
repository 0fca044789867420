package usecase

import (
	"regexp"
	"strings"

	"manifest-reconciliation/internal/domain"
)

var trackingPattern = regexp.MustCompile(`^\d{12}$`)

// Ingestion is the result of parsing scanner input.
type Ingestion struct {
	// Candidates are well-formed tracking numbers, in first-seen order.
	Candidates []string
	// Malformed lines never reach the backend.
	Malformed []domain.TrackingEntry
}

// IsTrackingNumber reports whether s is a 12-digit tracking number.
func IsTrackingNumber(s string) bool {
	return trackingPattern.MatchString(s)
}

// ParseScans splits a multi-line blob into trimmed, non-empty, unique lines.
func ParseScans(raw string) []string {
	return ParseScanEvents(strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r'
	}))
}

// ParseScanEvents deduplicates discrete scan events, keeping first-seen order.
func ParseScanEvents(events []string) []string {
	seen := make(map[string]struct{}, len(events))
	lines := make([]string, 0, len(events))
	for _, e := range events {
		line := strings.TrimSpace(e)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines
}

// Classify partitions parsed lines into candidates and malformed entries.
func Classify(lines []string) Ingestion {
	in := Ingestion{
		Candidates: make([]string, 0, len(lines)),
		Malformed:  make([]domain.TrackingEntry, 0),
	}
	for _, line := range lines {
		if IsTrackingNumber(line) {
			in.Candidates = append(in.Candidates, line)
			continue
		}
		in.Malformed = append(in.Malformed, domain.TrackingEntry{
			TrackingNumber: line,
			Reason:         domain.ReasonMalformed,
		})
	}
	return in
}

// Ingest parses and classifies raw input. Input that is empty after trimming
// yields domain.ErrNoValidNumbers.
func Ingest(raw string) (Ingestion, error) {
	lines := ParseScans(raw)
	if len(lines) == 0 {
		return Ingestion{}, domain.ErrNoValidNumbers
	}
	return Classify(lines), nil
}
