package domain

import "time"

// MaxTime is the sentinel upper bound of an open temporal window. A
// version whose valid_to or system_to equals MaxTime is still open on
// that axis.
var MaxTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// VersionFields is the bitemporal envelope embedded by every versioned
// entity. Valid* is business time (when the fact holds), System* is
// recording time (when the database knew it). Both windows are half-open:
// [from, to).
type VersionFields struct {
	VersionID         string
	PreviousVersionID string
	ValidFrom         time.Time
	ValidTo           time.Time
	SystemFrom        time.Time
	SystemTo          time.Time
	IsDeleted         bool
	DeletedAt         *time.Time
	DeletedBy         string
	ChangedBy         string
}

// NewVersionFields returns the envelope for a brand-new entity's first
// version, open on both axes.
func NewVersionFields(versionID string, now time.Time, actor string) VersionFields {
	return VersionFields{
		VersionID:  versionID,
		ValidFrom:  now,
		ValidTo:    MaxTime,
		SystemFrom: now,
		SystemTo:   MaxTime,
		ChangedBy:  actor,
	}
}

// NextVersionFields returns the envelope for the successor of current:
// same entity, new version ID, previous pointer set, windows reopened.
// Delete markers never carry forward.
func NextVersionFields(current VersionFields, versionID string, now time.Time, actor string) VersionFields {
	return VersionFields{
		VersionID:         versionID,
		PreviousVersionID: current.VersionID,
		ValidFrom:         now,
		ValidTo:           MaxTime,
		SystemFrom:        now,
		SystemTo:          MaxTime,
		ChangedBy:         actor,
	}
}

// IsCurrent reports whether this version is the entity's live one.
func (v VersionFields) IsCurrent() bool {
	return v.ValidTo.Equal(MaxTime) && !v.IsDeleted
}

// IsValidAt reports whether the business window covers at.
func (v VersionFields) IsValidAt(at time.Time) bool {
	return !v.ValidFrom.After(at) && v.ValidTo.After(at)
}

// IsKnownAt reports whether the system window covers at.
func (v VersionFields) IsKnownAt(at time.Time) bool {
	return !v.SystemFrom.After(at) && v.SystemTo.After(at)
}

// IsBitemporalAt reports whether both windows cover their respective
// instants, reconstructing what the system believed at systemAt about
// the state at validAt.
func (v VersionFields) IsBitemporalAt(validAt, systemAt time.Time) bool {
	return v.IsValidAt(validAt) && v.IsKnownAt(systemAt)
}

// MarkDeleted stamps the delete markers on a tombstone version.
func (v *VersionFields) MarkDeleted(now time.Time, actor string) {
	v.IsDeleted = true
	t := now
	v.DeletedAt = &t
	v.DeletedBy = actor
}
