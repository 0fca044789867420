package usecase

import (
	"sync"
	"time"

	"manifest-reconciliation/internal/domain"
)

// ExpirationWatch queues valid packages whose commit date is today so the
// operator can be alerted one package at a time. A tracking number is
// queued at most once per watch.
type ExpirationWatch struct {
	loc *time.Location
	now func() time.Time

	mu    sync.Mutex
	shown map[string]struct{}
	queue []domain.ValidatedPackage
}

// NewExpirationWatch compares dates in loc. now defaults to time.Now.
func NewExpirationWatch(loc *time.Location, now func() time.Time) *ExpirationWatch {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ExpirationWatch{
		loc:   loc,
		now:   now,
		shown: make(map[string]struct{}),
	}
}

// DaysUntil is the number of calendar days from now to t, both taken in loc.
func DaysUntil(t, now time.Time, loc *time.Location) int {
	ty, tm, td := t.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	a := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

// Observe queues newly seen packages that expire today and returns them.
func (w *ExpirationWatch) Observe(pkgs []domain.ValidatedPackage) []domain.ValidatedPackage {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	var flagged []domain.ValidatedPackage
	for _, pkg := range pkgs {
		if !pkg.IsValid || pkg.CommitDateTime == nil {
			continue
		}
		if _, ok := w.shown[pkg.TrackingNumber]; ok {
			continue
		}
		if DaysUntil(*pkg.CommitDateTime, now, w.loc) != 0 {
			continue
		}
		w.shown[pkg.TrackingNumber] = struct{}{}
		w.queue = append(w.queue, pkg)
		flagged = append(flagged, pkg)
	}
	return flagged
}

// Next pops the oldest queued package.
func (w *ExpirationWatch) Next() (domain.ValidatedPackage, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return domain.ValidatedPackage{}, false
	}
	pkg := w.queue[0]
	w.queue = w.queue[1:]
	return pkg, true
}

// Pending is the number of queued alerts.
func (w *ExpirationWatch) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Drop discards queued alerts. Already shown tracking numbers stay shown.
func (w *ExpirationWatch) Drop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue = nil
}
