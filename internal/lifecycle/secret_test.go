package lifecycle_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/lifecycle"
)

type stubSecretIndex struct {
	inUse map[string]bool
	calls int
}

func (s *stubSecretIndex) SecretCodeInUse(_ context.Context, code string) (bool, error) {
	s.calls++
	return s.inUse[code], nil
}

// collideOnceIndex 前 n 次查询一律报告占用，之后放行
type collideOnceIndex struct {
	collisions int
	calls      int
}

func (c *collideOnceIndex) SecretCodeInUse(_ context.Context, _ string) (bool, error) {
	c.calls++
	return c.calls <= c.collisions, nil
}

func TestNewSecretCode_SixDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := lifecycle.NewSecretCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestIssueSecretCode_FirstDrawFree(t *testing.T) {
	idx := &stubSecretIndex{}
	code, err := lifecycle.IssueSecretCode(context.Background(), idx)

	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, 1, idx.calls)
}

func TestIssueSecretCode_RetriesOnCollision(t *testing.T) {
	idx := &collideOnceIndex{collisions: 3}
	code, err := lifecycle.IssueSecretCode(context.Background(), idx)

	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, 4, idx.calls)
}

func TestIssueSecretCode_ExhaustsDraws(t *testing.T) {
	idx := &collideOnceIndex{collisions: 1 << 20}
	_, err := lifecycle.IssueSecretCode(context.Background(), idx)

	assert.Error(t, err)
}

func TestMatchSecretCode(t *testing.T) {
	stored := "482193"

	assert.True(t, lifecycle.MatchSecretCode(&stored, "482193"))
	assert.False(t, lifecycle.MatchSecretCode(&stored, "000000"))
	assert.False(t, lifecycle.MatchSecretCode(&stored, "48219"))
	assert.False(t, lifecycle.MatchSecretCode(&stored, "4821930"))
	assert.False(t, lifecycle.MatchSecretCode(nil, "482193"))

	// 数字等值不算匹配
	padded := "001230"
	assert.False(t, lifecycle.MatchSecretCode(&padded, "01230"))
}
