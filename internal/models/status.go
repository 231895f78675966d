package models

import "fmt"

// Status is the single lifecycle enum shared by vendors and products.
// Every mutation path goes through ParseVendorTarget / ParseProductTarget
// instead of validating ad hoc per handler.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPending         Status = "pending"
	StatusSentForApproval Status = "sent_for_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusResubmission    Status = "resubmission"
)

// vendorTargets are the statuses a manager/admin may set on a vendor.
// sent_for_approval is a stored/filterable state but never a review
// outcome, so it is deliberately absent here.
var vendorTargets = map[Status]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

// productTargets are the statuses a manager/admin may set on a product.
var productTargets = map[Status]bool{
	StatusPending:      true,
	StatusApproved:     true,
	StatusRejected:     true,
	StatusResubmission: true,
}

// vendorStates and productStates are every value the column may hold,
// used to validate list filters.
var vendorStates = map[Status]bool{
	StatusPending:         true,
	StatusSentForApproval: true,
	StatusApproved:        true,
	StatusRejected:        true,
}

var productStates = map[Status]bool{
	StatusDraft:        true,
	StatusPending:      true,
	StatusApproved:     true,
	StatusRejected:     true,
	StatusResubmission: true,
}

// ParseVendorTarget validates a requested vendor status transition target.
func ParseVendorTarget(s string) (Status, error) {
	st := Status(s)
	if !vendorTargets[st] {
		return "", fmt.Errorf("invalid vendor status %q", s)
	}
	return st, nil
}

// ParseProductTarget validates a requested product status transition target.
func ParseProductTarget(s string) (Status, error) {
	st := Status(s)
	if !productTargets[st] {
		return "", fmt.Errorf("invalid product status %q", s)
	}
	return st, nil
}

// IsVendorState reports whether s is a value the vendors.status column
// may hold (list filters accept these).
func IsVendorState(s string) bool { return vendorStates[Status(s)] }

// IsProductState reports whether s is a value the products.status column
// may hold.
func IsProductState(s string) bool { return productStates[Status(s)] }

// KeepsReason reports whether a rejection reason is retained for the
// target status. Approve and pending clear it.
func (s Status) KeepsReason() bool {
	return s == StatusRejected || s == StatusResubmission
}
