package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/usecase"
)

var hermosillo = time.FixedZone("MST", -7*60*60)

func commitAt(tn string, t time.Time) domain.ValidatedPackage {
	return domain.ValidatedPackage{TrackingNumber: tn, IsValid: true, CommitDateTime: &t}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 5, 10, 23, 30, 0, 0, hermosillo)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{name: "same local morning", t: time.Date(2024, 5, 10, 8, 0, 0, 0, hermosillo), want: 0},
		{name: "next UTC day, same local day", t: time.Date(2024, 5, 11, 1, 0, 0, 0, time.UTC), want: 0},
		{name: "tomorrow", t: time.Date(2024, 5, 11, 0, 5, 0, 0, hermosillo), want: 1},
		{name: "yesterday", t: time.Date(2024, 5, 9, 23, 59, 0, 0, hermosillo), want: -1},
		{name: "across month", t: time.Date(2024, 6, 1, 12, 0, 0, 0, hermosillo), want: 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.DaysUntil(tt.t, now, hermosillo))
		})
	}
}

func TestExpirationWatch_Observe(t *testing.T) {
	now := time.Date(2024, 5, 10, 23, 30, 0, 0, hermosillo)
	watch := usecase.NewExpirationWatch(hermosillo, func() time.Time { return now })

	today := commitAt("111111111111", time.Date(2024, 5, 10, 8, 0, 0, 0, hermosillo))
	todayUTC := commitAt("222222222222", time.Date(2024, 5, 11, 1, 0, 0, 0, time.UTC))
	tomorrow := commitAt("333333333333", time.Date(2024, 5, 11, 9, 0, 0, 0, hermosillo))
	invalid := commitAt("444444444444", now)
	invalid.IsValid = false
	noDate := domain.ValidatedPackage{TrackingNumber: "555555555555", IsValid: true}

	flagged := watch.Observe([]domain.ValidatedPackage{today, tomorrow, invalid, noDate, todayUTC})
	assert.Equal(t, []string{"111111111111", "222222222222"}, packageNumbers(flagged))
	assert.Equal(t, 2, watch.Pending())

	assert.Empty(t, watch.Observe([]domain.ValidatedPackage{today}), "a tracking number is flagged once")

	next, ok := watch.Next()
	assert.True(t, ok)
	assert.Equal(t, "111111111111", next.TrackingNumber)

	watch.Drop()
	_, ok = watch.Next()
	assert.False(t, ok)
	assert.Empty(t, watch.Observe([]domain.ValidatedPackage{todayUTC}))
}

func packageNumbers(pkgs []domain.ValidatedPackage) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.TrackingNumber)
	}
	return out
}
