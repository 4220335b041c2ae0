package domain

import (
	"testing"
	"time"
)

func TestVersionFields_Windows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v := NewVersionFields("v-1", now, "alice")

	if !v.IsCurrent() {
		t.Error("fresh version should be current")
	}
	if v.PreviousVersionID != "" {
		t.Errorf("fresh version should have no predecessor, got %q", v.PreviousVersionID)
	}
	if !v.ValidTo.Equal(MaxTime) || !v.SystemTo.Equal(MaxTime) {
		t.Error("fresh version should be open on both axes")
	}
}

func TestVersionFields_HalfOpenWindows(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	v := VersionFields{ValidFrom: from, ValidTo: to, SystemFrom: from, SystemTo: to}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before window", from.Add(-time.Second), false},
		{"at valid_from", from, true},
		{"inside window", from.AddDate(0, 0, 15), true},
		{"at valid_to", to, false},
		{"after window", to.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsValidAt(tt.at); got != tt.want {
				t.Errorf("IsValidAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
			if got := v.IsKnownAt(tt.at); got != tt.want {
				t.Errorf("IsKnownAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestNextVersionFields(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.AddDate(0, 0, 1)

	current := NewVersionFields("v-1", t0, "alice")
	current.MarkDeleted(t0, "alice")

	next := NextVersionFields(current, "v-2", t1, "bob")

	if next.PreviousVersionID != "v-1" {
		t.Errorf("previous version = %q, want v-1", next.PreviousVersionID)
	}
	if next.ChangedBy != "bob" {
		t.Errorf("changed by = %q, want bob", next.ChangedBy)
	}
	if next.IsDeleted || next.DeletedAt != nil || next.DeletedBy != "" {
		t.Error("delete markers must not carry forward to the successor")
	}
	if !next.IsCurrent() {
		t.Error("successor should be current")
	}
}

func TestVersionFields_MarkDeleted(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	v := NewVersionFields("v-1", now, "alice")

	v.MarkDeleted(now, "carol")

	if !v.IsDeleted {
		t.Error("expected IsDeleted")
	}
	if v.DeletedAt == nil || !v.DeletedAt.Equal(now) {
		t.Errorf("DeletedAt = %v, want %v", v.DeletedAt, now)
	}
	if v.DeletedBy != "carol" {
		t.Errorf("DeletedBy = %q, want carol", v.DeletedBy)
	}
	if v.IsCurrent() {
		t.Error("deleted version must not be current")
	}
}

func TestVersionFields_IsBitemporalAt(t *testing.T) {
	// Version valid for March but only recorded (and later superseded)
	// during the first half of March.
	validFrom := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	validTo := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	sysFrom := validFrom
	sysTo := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	v := VersionFields{ValidFrom: validFrom, ValidTo: validTo, SystemFrom: sysFrom, SystemTo: sysTo}

	mid := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	if !v.IsBitemporalAt(mid, mid) {
		t.Error("version should be visible while both windows cover the instant")
	}
	if v.IsBitemporalAt(mid, late) {
		t.Error("superseded version must not be visible at a later system time")
	}
}
