package riddle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowPolicy(t *testing.T) {
	p := NewChannelPolicy(PolicyAllow, newTestStore(t))

	// an empty allow-list places no restriction
	assert.True(t, p.Allowed("general"))

	require.NoError(t, p.Listen("riddles"))
	assert.True(t, p.Allowed("riddles"))
	assert.False(t, p.Allowed("general"))

	require.NoError(t, p.Ignore("riddles"))
	assert.True(t, p.Allowed("general"))
}

func TestDenyPolicy(t *testing.T) {
	p := NewChannelPolicy(PolicyDeny, newTestStore(t))

	assert.True(t, p.Allowed("general"))

	require.NoError(t, p.Ignore("general"))
	assert.False(t, p.Allowed("general"))
	assert.True(t, p.Allowed("riddles"))

	require.NoError(t, p.Listen("general"))
	assert.True(t, p.Allowed("general"))
}

func TestPolicyPersistsAcrossRestart(t *testing.T) {
	st := newTestStore(t)

	p := NewChannelPolicy(PolicyAllow, st)
	require.NoError(t, p.Listen("riddles"))

	reloaded := NewChannelPolicy(PolicyAllow, st)
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.Allowed("riddles"))
	assert.False(t, reloaded.Allowed("general"))
}
