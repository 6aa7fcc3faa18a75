package services

import (
	"testing"

	"trainer-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCanActOnVolume(t *testing.T) {
	volume := &models.SessionVolume{TrainerID: 10, CustomerID: 20}

	cases := []struct {
		name     string
		role     models.Role
		callerID uint
		action   PolicyAction
		want     bool
	}{
		{"admin can do anything", models.RoleAdmin, 99, PolicyDelete, true},
		{"owning trainer views", models.RoleTrainer, 10, PolicyView, true},
		{"owning customer views", models.RoleCustomer, 20, PolicyView, true},
		{"outsider cannot view", models.RoleTrainer, 11, PolicyView, false},
		{"owning trainer edits", models.RoleTrainer, 10, PolicyEdit, true},
		{"customer cannot edit", models.RoleCustomer, 20, PolicyEdit, false},
		{"owning trainer submits", models.RoleTrainer, 10, PolicySubmit, true},
		{"other trainer cannot submit", models.RoleTrainer, 11, PolicySubmit, false},
		{"owning customer approves", models.RoleCustomer, 20, PolicyApprove, true},
		{"trainer cannot approve own volume", models.RoleTrainer, 10, PolicyApprove, false},
		{"owning customer rejects", models.RoleCustomer, 20, PolicyReject, true},
		{"customer cannot reopen", models.RoleCustomer, 20, PolicyReopen, false},
		{"owning trainer reopens", models.RoleTrainer, 10, PolicyReopen, true},
		{"trainer cannot delete", models.RoleTrainer, 10, PolicyDelete, false},
		{"customer cannot delete", models.RoleCustomer, 20, PolicyDelete, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanActOnVolume(tc.role, tc.callerID, tc.action, volume))
		})
	}
}

func TestCanTrackSession(t *testing.T) {
	assert.True(t, CanTrackSession(models.RoleTrainer))
	assert.True(t, CanTrackSession(models.RoleAdmin))
	assert.False(t, CanTrackSession(models.RoleCustomer))
}

func TestCanViewSession(t *testing.T) {
	assert.True(t, CanViewSession(models.RoleAdmin, 99, 10, 20))
	assert.True(t, CanViewSession(models.RoleTrainer, 10, 10, 20))
	assert.True(t, CanViewSession(models.RoleCustomer, 20, 10, 20))
	assert.False(t, CanViewSession(models.RoleTrainer, 11, 10, 20))
}
