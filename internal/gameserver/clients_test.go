package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/skyroute/internal/testutil"
)

func TestClientManager(t *testing.T) {
	cm := NewClientManager()
	first := newTestClient(t, testutil.NewMockConn(), nil, 1)
	second := newTestClient(t, testutil.NewMockConn(), nil, 1)

	assert.True(t, cm.Register(7, first))
	assert.False(t, cm.Register(7, second), "duplicate login refused")
	assert.Same(t, first, cm.GetClient(7))

	// Устаревшее соединение не выселяет текущее
	cm.Unregister(7, second)
	assert.Equal(t, 1, cm.Count())

	assert.True(t, cm.Register(8, second))
	assert.ElementsMatch(t, []*GameClient{first, second}, cm.Snapshot())

	cm.Unregister(7, first)
	assert.Nil(t, cm.GetClient(7))
	assert.Equal(t, 1, cm.Count())
}
