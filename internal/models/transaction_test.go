package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecurringIntervalNext(t *testing.T) {
	base := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		interval RecurringInterval
		want     time.Time
		ok       bool
	}{
		{IntervalDaily, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC), true},
		{IntervalWeekly, time.Date(2025, 2, 7, 9, 0, 0, 0, time.UTC), true},
		// time.AddDate normalizes Feb 31 to Mar 3.
		{IntervalMonthly, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), true},
		{RecurringInterval("yearly"), base, false},
	}
	for _, tt := range tests {
		got, ok := tt.interval.Next(base)
		assert.Equal(t, tt.ok, ok, "Next(%q) ok", tt.interval)
		assert.True(t, tt.want.Equal(got), "Next(%q) = %v, want %v", tt.interval, got, tt.want)
	}
}

func TestTransactionClone(t *testing.T) {
	iv := IntervalWeekly
	next := time.Now()
	orig := &Transaction{Category: "food", RecurringInterval: &iv, NextExecutionDate: &next}

	c := orig.Clone()
	*c.RecurringInterval = IntervalDaily
	*c.NextExecutionDate = next.Add(time.Hour)
	c.Category = "rent"

	assert.Equal(t, IntervalWeekly, *orig.RecurringInterval)
	assert.True(t, next.Equal(*orig.NextExecutionDate))
	assert.Equal(t, "food", orig.Category)
}
