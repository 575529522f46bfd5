package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProbeService_Check(t *testing.T) {
	f := &fakeAPI{}
	p, err := NewProbeService(f, "@every 1h", time.Second, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Status().Checked)

	st := p.Check(context.Background())
	assert.True(t, st.Reachable)
	assert.Equal(t, st, p.Status())

	f.pingErr = errors.New("connection refused")
	st = p.Check(context.Background())
	assert.False(t, st.Reachable)
	assert.Equal(t, "connection refused", st.Error)
}

func TestProbeService_BadSchedule(t *testing.T) {
	_, err := NewProbeService(&fakeAPI{}, "whenever", time.Second, zap.NewNop())
	assert.Error(t, err)
}

func TestProbeService_StartStop(t *testing.T) {
	f := &fakeAPI{}
	p, err := NewProbeService(f, "@every 1h", time.Second, zap.NewNop())
	require.NoError(t, err)

	p.Start()
	require.Eventually(t, func() bool { return p.Status().Checked }, time.Second, 5*time.Millisecond)
	p.Stop()
}
