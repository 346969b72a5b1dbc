package notice

import (
	"testing"

	"estate-admin/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	_, ok := r.Last()
	assert.False(t, ok)

	r.Success("Request approved successfully")
	r.Error("Failed to delete franchisee")

	notices := r.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, LevelSuccess, notices[0].Level)
	assert.Equal(t, LevelError, notices[1].Level)

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "Failed to delete franchisee", last.Message)
	assert.False(t, last.At.IsZero())
}

func TestMulti_FansOut(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi{a, NewLogNotifier(logger.NewTestLogger(t)), b}

	m.Success("ok")
	m.Error("bad")

	assert.Len(t, a.Notices(), 2)
	assert.Len(t, b.Notices(), 2)
}
