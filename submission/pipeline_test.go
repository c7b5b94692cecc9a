// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkFunc func(ctx context.Context, p Payload) (Result, error)

func (f sinkFunc) Send(ctx context.Context, p Payload) (Result, error) { return f(ctx, p) }

func TestPipelineOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		sink        sinkFunc
		wantSuccess bool
		wantWarning string
		wantError   string
	}{
		{
			name: "both delivered",
			sink: func(context.Context, Payload) (Result, error) {
				return Result{Success: true}, nil
			},
			wantSuccess: true,
		},
		{
			name: "partial delivery",
			sink: func(context.Context, Payload) (Result, error) {
				return Result{Success: true, Warning: "Confirmation email failed"}, nil
			},
			wantSuccess: true,
			wantWarning: "Confirmation email failed",
		},
		{
			name: "both failed",
			sink: func(context.Context, Payload) (Result, error) {
				return Result{Success: false, Error: "smtp: 550 mailbox unavailable"}, nil
			},
			wantError: MsgDeliveryFailed,
		},
		{
			name: "transport failure",
			sink: func(context.Context, Payload) (Result, error) {
				return Result{}, errors.New("dial tcp: connection refused")
			},
			wantError: MsgNetworkFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewPipeline(tt.sink, 0).Submit(context.Background(), Payload{Respondent: alice})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantWarning, res.Warning)
			assert.Equal(t, tt.wantError, res.Error)
		})
	}
}

func TestPipelineRejectsConcurrentSubmit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	sink := sinkFunc(func(context.Context, Payload) (Result, error) {
		close(entered)
		<-release
		return Result{Success: true}, nil
	})
	p := NewPipeline(sink, 0)

	done := make(chan Result)
	go func() {
		res, _ := p.Submit(context.Background(), Payload{Respondent: alice})
		done <- res
	}()

	<-entered
	assert.True(t, p.InFlight())
	_, err := p.Submit(context.Background(), Payload{Respondent: alice})
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	res := <-done
	assert.True(t, res.Success)
	assert.False(t, p.InFlight())
}

func TestPipelineTimeoutIsFailure(t *testing.T) {
	sink := sinkFunc(func(ctx context.Context, _ Payload) (Result, error) {
		<-ctx.Done()
		return Result{}, ctx.Err()
	})

	res, err := NewPipeline(sink, 20*time.Millisecond).Submit(context.Background(), Payload{Respondent: alice})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, MsgNetworkFailed, res.Error)
}
