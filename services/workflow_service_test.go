package services

import (
	"testing"
	"time"

	"trainer-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVolume(t *testing.T, env *testEnv) *models.SessionVolume {
	t.Helper()
	trainer := seedUser(t, env.DB, models.RoleTrainer, "Trainer T", true)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	volume, err := env.Volumes.Create(trainer.ID, customer.ID, day(2026, time.March, 1))
	require.NoError(t, err)
	return volume
}

func TestSubmitOnlyFromDraft(t *testing.T) {
	env := newTestEnv(t)
	volume := seedVolume(t, env)

	submitted, err := env.Workflow.Submit(volume.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, submitted.Status)

	// submit ซ้ำจาก submitted ต้องพัง
	_, err = env.Workflow.Submit(volume.ID)
	var invalid *models.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.StatusSubmitted, invalid.From)
	assert.Equal(t, models.ActionSubmit, invalid.Action)
}

func TestApproveSkipsReadState(t *testing.T) {
	env := newTestEnv(t)
	volume := seedVolume(t, env)

	_, err := env.Workflow.Submit(volume.ID)
	require.NoError(t, err)

	// approve ตรงจาก submitted ได้เลย ไม่ต้อง mark_as_read ก่อน
	approved, err := env.Workflow.Approve(volume.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Empty(t, approved.Notes)
}

func TestApproveWithNoteAppendsHeader(t *testing.T) {
	env := newTestEnv(t)
	volume := seedVolume(t, env)

	_, err := env.Workflow.Submit(volume.ID)
	require.NoError(t, err)

	approved, err := env.Workflow.Approve(volume.ID, "great month")
	require.NoError(t, err)
	assert.Contains(t, approved.Notes, "--- Customer Approval (")
	assert.Contains(t, approved.Notes, "great month")
}

func TestRejectRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	volume := seedVolume(t, env)

	_, err := env.Workflow.Submit(volume.ID)
	require.NoError(t, err)

	_, err = env.Workflow.Reject(volume.ID, "   ")
	assert.ErrorIs(t, err, ErrReasonRequired)

	// reason ว่างต้องไม่แตะ status
	current, err := env.Volumes.GetByID(volume.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, current.Status)

	rejected, err := env.Workflow.Reject(volume.ID, "numbers do not match my calendar")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Contains(t, rejected.Notes, "--- Customer Rejection (")
	assert.Contains(t, rejected.Notes, "numbers do not match my calendar")
}

func TestReopenOnlyFromRejected(t *testing.T) {
	env := newTestEnv(t)
	volume := seedVolume(t, env)

	_, err := env.Workflow.Reopen(volume.ID)
	var invalid *models.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.StatusDraft, invalid.From)

	_, err = env.Workflow.Submit(volume.ID)
	require.NoError(t, err)
	_, err = env.Workflow.Reject(volume.ID, "fix it")
	require.NoError(t, err)

	reopened, err := env.Workflow.Reopen(volume.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, reopened.Status)
	assert.Contains(t, reopened.Notes, "--- Volume Reopened (")
}

func TestWorkflowNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Workflow.Submit(9999)
	assert.ErrorIs(t, err, ErrVolumeNotFound)
}

// ไล่ทั้งวงจร: track → submit → reject → reopen → แก้ → submit → approve
func TestFullApprovalCycle(t *testing.T) {
	env := newTestEnv(t)
	trainer := seedUser(t, env.DB, models.RoleTrainer, "Trainer T", true)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	qr, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)

	var volumeID uint
	for _, d := range []int{3, 10, 17} {
		result, tErr := env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.May, d)))
		require.NoError(t, tErr)
		volumeID = result.Volume.ID
	}

	volume, err := env.Volumes.GetByID(volumeID)
	require.NoError(t, err)
	assert.Equal(t, 3, volume.SessionCount)
	assert.Equal(t, models.StatusDraft, volume.Status)

	_, err = env.Workflow.Submit(volumeID)
	require.NoError(t, err)

	_, err = env.Workflow.Reject(volumeID, "missing the May 24 session")
	require.NoError(t, err)

	_, err = env.Workflow.Reopen(volumeID)
	require.NoError(t, err)

	// หลัง reopen แก้ไขได้อีกครั้ง
	plans := "updated plan after feedback"
	_, err = env.Volumes.EditContent(volumeID, VolumeContentUpdate{Plans: &plans})
	require.NoError(t, err)

	_, err = env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.May, 24)))
	require.NoError(t, err)

	_, err = env.Workflow.Submit(volumeID)
	require.NoError(t, err)
	approved, err := env.Workflow.Approve(volumeID, "all good now")
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, 4, approved.SessionCount)
	assert.Contains(t, approved.Notes, "missing the May 24 session")
	assert.Contains(t, approved.Notes, "all good now")

	// approved แล้ว แก้ไม่ได้ ลบไม่ได้
	_, err = env.Volumes.EditContent(volumeID, VolumeContentUpdate{Plans: &plans})
	assert.ErrorIs(t, err, ErrVolumeNotEditable)
	assert.ErrorIs(t, env.Volumes.SoftDelete(volumeID), ErrVolumeImmutable)
}
