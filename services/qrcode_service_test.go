package services

import (
	"testing"

	"trainer-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateForUserIdempotent(t *testing.T) {
	env := newTestEnv(t)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)

	first, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)
	assert.Len(t, first.Token, 32)

	second, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Token, second.Token)
}

func TestGetOrCreateForUserUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.QRCodes.GetOrCreateForUser(404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolveToken(t *testing.T) {
	env := newTestEnv(t)
	customer := seedUser(t, env.DB, models.RoleCustomer, "Customer C", true)
	qr, err := env.QRCodes.GetOrCreateForUser(customer.ID)
	require.NoError(t, err)

	resolved, err := env.QRCodes.ResolveToken(qr.Token)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, resolved.UserID)
	assert.Equal(t, "Customer C", resolved.User.FullName)

	_, err = env.QRCodes.ResolveToken("bogus")
	assert.ErrorIs(t, err, ErrQRCodeNotFound)
}

func TestTokensDifferAcrossUsers(t *testing.T) {
	env := newTestEnv(t)
	a := seedUser(t, env.DB, models.RoleCustomer, "Customer A", true)
	b := seedUser(t, env.DB, models.RoleCustomer, "Customer B", true)

	qrA, err := env.QRCodes.GetOrCreateForUser(a.ID)
	require.NoError(t, err)
	qrB, err := env.QRCodes.GetOrCreateForUser(b.ID)
	require.NoError(t, err)
	assert.NotEqual(t, qrA.Token, qrB.Token)
}
