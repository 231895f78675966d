package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVendorTarget(t *testing.T) {
	for _, valid := range []string{"pending", "approved", "rejected"} {
		st, err := ParseVendorTarget(valid)
		assert.NoError(t, err)
		assert.Equal(t, Status(valid), st)
	}

	for _, invalid := range []string{"", "published", "sent_for_approval", "resubmission", "draft", "APPROVED"} {
		_, err := ParseVendorTarget(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestParseProductTarget(t *testing.T) {
	for _, valid := range []string{"pending", "approved", "rejected", "resubmission"} {
		st, err := ParseProductTarget(valid)
		assert.NoError(t, err)
		assert.Equal(t, Status(valid), st)
	}

	// draft is a state a vendor saves into, not a review outcome
	for _, invalid := range []string{"", "draft", "sent_for_approval", "active"} {
		_, err := ParseProductTarget(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestVendorStatesIncludeSentForApproval(t *testing.T) {
	assert.True(t, IsVendorState("sent_for_approval"))
	assert.True(t, IsVendorState("pending"))
	assert.False(t, IsVendorState("draft"))
	assert.False(t, IsVendorState("resubmission"))
}

func TestProductStates(t *testing.T) {
	for _, s := range []string{"draft", "pending", "approved", "rejected", "resubmission"} {
		assert.True(t, IsProductState(s), s)
	}
	assert.False(t, IsProductState("sent_for_approval"))
}

func TestKeepsReason(t *testing.T) {
	assert.True(t, StatusRejected.KeepsReason())
	assert.True(t, StatusResubmission.KeepsReason())
	assert.False(t, StatusApproved.KeepsReason())
	assert.False(t, StatusPending.KeepsReason())
}
