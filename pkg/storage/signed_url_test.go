package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSignedURLSignerSignAndVerify(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	signer := NewSignedURLSigner("secret", time.Hour).WithClock(fixedClock(now))

	token, expiresAt, err := signer.Sign("job-1", "workload/job-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := signer.Verify(token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", claims.JobID)
	assert.Equal(t, "workload/job-1.pdf", claims.Path)
	assert.True(t, expiresAt.Equal(claims.ExpiresAt))
}

func TestSignedURLSignerExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	signer := NewSignedURLSigner("secret", time.Minute).WithClock(fixedClock(now))
	token, _, err := signer.Sign("job-1", "workload/job-1.csv")
	require.NoError(t, err)

	signer.WithClock(fixedClock(now.Add(2 * time.Minute)))
	_, err = signer.Verify(token, false)
	require.ErrorIs(t, err, ErrTokenExpired)

	claims, err := signer.Verify(token, true)
	require.NoError(t, err)
	assert.Equal(t, "workload/job-1.csv", claims.Path)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Sign("job-1", "workload/job-1.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "job-2"
	_, err = signer.Verify(strings.Join(parts, "."), false)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewSignedURLSigner("other", time.Hour).Verify(token, false)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = signer.Verify("garbage", false)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignedURLSignerRequiresSecret(t *testing.T) {
	_, _, err := NewSignedURLSigner("", time.Hour).Sign("job-1", "a.csv")
	require.Error(t, err)
}
