package service

import (
	"testing"

	"github.com/reshetovitsme/termbot/internal/modules/channel/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhitelist(t *testing.T) {
	t.Parallel()

	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	svc := New(repo)

	assert.False(t, svc.IsWhitelisted("c1"))

	assert.True(t, svc.AddChannel("c1"))
	assert.False(t, svc.AddChannel("c1"), "second add reports already active")
	assert.True(t, svc.AddChannel("c2"))
	assert.True(t, svc.IsWhitelisted("c1"))

	persisted, err := repo.LoadChannels()
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, persisted)

	assert.True(t, svc.RemoveChannel("c1"))
	assert.False(t, svc.RemoveChannel("c1"), "second remove reports already inactive")
	assert.False(t, svc.IsWhitelisted("c1"))
	assert.Equal(t, []string{"c2"}, svc.GetAllChannels())
}

func TestNew_DeduplicatesPersistedChannels(t *testing.T) {
	t.Parallel()

	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, repo.SaveChannels([]string{"a", "b", "a", ""}))

	svc := New(repo)
	assert.Equal(t, []string{"a", "b"}, svc.GetAllChannels())
}
