package utils

import (
	"testing"
	"time"
)

func TestAddMonths_Simple(t *testing.T) {
	start := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	got := AddMonths(start, 6)
	want := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAddMonths_ClampsToEndOfMonth(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	got := AddMonths(start, 1)
	want := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("expected clamp to %v, got %v", want, got)
	}
}

func TestAddMonths_LeapYear(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	got := AddMonths(start, 1)
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("expected leap-year clamp to %v, got %v", want, got)
	}
}

func TestAddMonths_CrossesYear(t *testing.T) {
	start := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	got := AddMonths(start, 3)
	want := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAddMonths_TwelveMonths(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got := AddMonths(start, 12)
	want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDaysUntil_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2025, 5, 1, 23, 59, 0, 0, time.UTC)
	to := time.Date(2025, 5, 2, 0, 1, 0, 0, time.UTC)

	if got := DaysUntil(from, to); got != 1 {
		t.Errorf("expected 1 calendar day, got %d", got)
	}
}

func TestDaysUntil_AcrossDSTTransition(t *testing.T) {
	// Rentang yang melewati pergantian DST cuma 23 jam wall-clock,
	// tapi tetap satu hari kalender
	est := time.FixedZone("EST", -5*3600)
	edt := time.FixedZone("EDT", -4*3600)

	from := time.Date(2025, 3, 8, 0, 0, 0, 0, est)
	to := time.Date(2025, 3, 9, 0, 0, 0, 0, edt)

	if got := DaysUntil(from, to); got != 1 {
		t.Errorf("expected 1 calendar day across DST change, got %d", got)
	}
}

func TestDaysUntil_Negative(t *testing.T) {
	from := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 3, 20, 0, 0, 0, time.UTC)

	if got := DaysUntil(from, to); got != -7 {
		t.Errorf("expected -7, got %d", got)
	}
}
