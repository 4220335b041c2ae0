package domain

// PeriodCheck is the answer from the fiscal-period collaborator. When Closed
// is true, PeriodName names the closed period the date falls into.
type PeriodCheck struct {
	Closed     bool
	PeriodName string
}
