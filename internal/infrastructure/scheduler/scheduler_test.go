package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdd_InvalidSpec(t *testing.T) {
	s := New(zap.NewNop(), time.Second)
	err := s.Add("accrue", "not a schedule", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestAdd_EmptySpecDisables(t *testing.T) {
	s := New(zap.NewNop(), time.Second)
	require.NoError(t, s.Add("accrue", "", func(context.Context) error { return nil }))
	assert.Equal(t, 0, s.Len())
}

func TestRunsJobOnSchedule(t *testing.T) {
	s := New(zap.NewNop(), time.Second)
	ran := make(chan struct{}, 4)
	require.NoError(t, s.Add("check-defaults", "@every 1s", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("job context has no deadline")
		}
		ran <- struct{}{}
		return errors.New("failures are logged, not fatal")
	}))
	assert.Equal(t, 1, s.Len())

	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
