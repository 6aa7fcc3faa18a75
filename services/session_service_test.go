package services

import (
	"errors"
	"testing"
	"time"

	"trainer-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackCreatesVolumeAndCountsSessions(t *testing.T) {
	env := newTestEnv(t)
	trainer := seedUser(t, env.DB, models.RoleTrainer, "Trainer T", true)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	qr, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)

	result, err := env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.March, 5)))
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	require.NotNil(t, result.Volume)
	assert.Equal(t, 1, result.Volume.SessionCount)
	assert.Equal(t, "Customer C", result.CustomerName)
	assert.Empty(t, result.Warning)

	// period ถูก normalize เป็นวันที่ 1 ของเดือน
	assert.Equal(t, "2026-03-01", time.Time(result.Volume.Period).Format("2006-01-02"))

	// วันถัดไปนับเพิ่ม ใน volume เดิม
	result2, err := env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.March, 6)))
	require.NoError(t, err)
	assert.Equal(t, result.Volume.ID, result2.Volume.ID)
	assert.Equal(t, 2, result2.Volume.SessionCount)
}

func TestTrackDuplicateSameDay(t *testing.T) {
	env := newTestEnv(t)
	trainer := seedUser(t, env.DB, models.RoleTrainer, "Trainer T", true)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	qr, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)

	first, err := env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.March, 5)))
	require.NoError(t, err)

	_, err = env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.March, 5)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateScan)

	var dup *DuplicateScanError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.Session.ID, dup.SessionID)
	assert.Equal(t, first.Volume.ID, dup.VolumeID)

	// ไม่มี row เพิ่ม และ count ไม่ขยับ
	var rows int64
	require.NoError(t, env.DB.Model(&models.SessionTracking{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	volume, err := env.Volumes.GetByID(first.Volume.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, volume.SessionCount)
}

func TestTrackSameDayDifferentTrainers(t *testing.T) {
	env := newTestEnv(t)
	trainerA := seedUser(t, env.DB, models.RoleTrainer, "Trainer A", true)
	trainerB := seedUser(t, env.DB, models.RoleTrainer, "Trainer B", true)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	qr, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)

	resA, err := env.Sessions.Track(trainerA.ID, qr.Token, datePtr(day(2026, time.March, 5)))
	require.NoError(t, err)
	resB, err := env.Sessions.Track(trainerB.ID, qr.Token, datePtr(day(2026, time.March, 5)))
	require.NoError(t, err)

	// คนละเทรนเนอร์ = คนละ volume, dedup แยกกัน
	assert.NotEqual(t, resA.Volume.ID, resB.Volume.ID)
	assert.Equal(t, 1, resA.Volume.SessionCount)
	assert.Equal(t, 1, resB.Volume.SessionCount)
}

func TestTrackUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	trainer := seedUser(t, env.DB, models.RoleTrainer, "Trainer T", true)

	_, err := env.Sessions.Track(trainer.ID, "no-such-token", nil)
	assert.ErrorIs(t, err, ErrQRCodeNotFound)
}

func TestTrackInactiveCustomer(t *testing.T) {
	env := newTestEnv(t)
	trainer := seedUser(t, env.DB, models.RoleTrainer, "Trainer T", true)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	qr, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)

	require.NoError(t, env.DB.Model(&models.User{}).Where("id = ?", customer.ID).Update("active", false).Error)

	_, err = env.Sessions.Track(trainer.ID, qr.Token, nil)
	assert.ErrorIs(t, err, ErrCustomerInactive)

	var rows int64
	require.NoError(t, env.DB.Model(&models.SessionTracking{}).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestTrackAssignedTrainerMismatchWarning(t *testing.T) {
	env := newTestEnv(t)
	assigned := seedUser(t, env.DB, models.RoleTrainer, "Assigned Trainer", true)
	other := seedUser(t, env.DB, models.RoleTrainer, "Other Trainer", true)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	seedCustomerProfile(t, env.DB, customer.ID, &assigned.ID)
	qr, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)

	// เทรนเนอร์คนละคนสแกน: สำเร็จ แต่มี warning
	result, err := env.Sessions.Track(other.ID, qr.Token, datePtr(day(2026, time.March, 5)))
	require.NoError(t, err)
	assert.Contains(t, result.Warning, "Assigned Trainer")

	// เทรนเนอร์ประจำเองสแกน: ไม่มี warning
	result2, err := env.Sessions.Track(assigned.ID, qr.Token, datePtr(day(2026, time.March, 5)))
	require.NoError(t, err)
	assert.Empty(t, result2.Warning)
}

func TestRemoveRecomputesCountAndFreesTheDay(t *testing.T) {
	env := newTestEnv(t)
	trainer := seedUser(t, env.DB, models.RoleTrainer, "Trainer T", true)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	qr, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)

	res1, err := env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.March, 5)))
	require.NoError(t, err)
	_, err = env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.March, 6)))
	require.NoError(t, err)

	require.NoError(t, env.Sessions.Remove(res1.Session.ID))

	volume, err := env.Volumes.GetByID(res1.Volume.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, volume.SessionCount)

	// ลบซ้ำ = not found (soft deleted ไปแล้ว)
	assert.ErrorIs(t, env.Sessions.Remove(res1.Session.ID), ErrSessionNotFound)

	// วันเดิมสแกนใหม่ได้หลังลบ (unique key ผูกเฉพาะ row ที่ active)
	res3, err := env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.March, 5)))
	require.NoError(t, err)
	assert.Equal(t, 2, res3.Volume.SessionCount)
}

func TestGetFilteredByDateRange(t *testing.T) {
	env := newTestEnv(t)
	trainer := seedUser(t, env.DB, models.RoleTrainer, "Trainer T", true)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	qr, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)

	for _, d := range []int{3, 10, 20} {
		_, err = env.Sessions.Track(trainer.ID, qr.Token, datePtr(day(2026, time.April, d)))
		require.NoError(t, err)
	}

	start := day(2026, time.April, 5)
	end := day(2026, time.April, 15)
	sessions, err := env.Sessions.GetFiltered(SessionFilter{TrainerID: trainer.ID, StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "2026-04-10", time.Time(sessions[0].SessionDate).Format("2006-01-02"))
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Sessions.GetByID(12345)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}
