package domain

// Tracking is a tracking number as listed inside a consolidated manifest.
type Tracking struct {
	TrackingNumber string `json:"trackingNumber"`
}

// ManifestEntry is one consolidated batch for a transport mode.
type ManifestEntry struct {
	ID               string     `json:"id,omitempty"`
	ConsNumber       string     `json:"consNumber,omitempty"`
	Type             string     `json:"type"`
	NumberOfPackages int        `json:"numberOfPackages"`
	Added            []Tracking `json:"added"`
	NotFound         []Tracking `json:"notFound"`
}

// Reference identifies the entry in reports, preferring the consolidated number.
func (e ManifestEntry) Reference() string {
	if e.ConsNumber != "" {
		return e.ConsNumber
	}
	if e.ID != "" {
		return e.ID
	}
	return e.Type
}

// ManifestSet holds the expected shipments of a branch, one list per transport mode.
type ManifestSet struct {
	Air    []ManifestEntry `json:"airConsolidated"`
	Ground []ManifestEntry `json:"groundConsolidated"`
	F2     []ManifestEntry `json:"f2Consolidated"`
}

// Flatten returns every entry across transport modes: air, ground, then F2.
func (s *ManifestSet) Flatten() []ManifestEntry {
	if s == nil {
		return nil
	}
	entries := make([]ManifestEntry, 0, len(s.Air)+len(s.Ground)+len(s.F2))
	entries = append(entries, s.Air...)
	entries = append(entries, s.Ground...)
	entries = append(entries, s.F2...)
	return entries
}

// IsEmpty reports whether the set carries no entries at all.
func (s *ManifestSet) IsEmpty() bool {
	return s == nil || len(s.Air)+len(s.Ground)+len(s.F2) == 0
}
