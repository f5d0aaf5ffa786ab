package otpflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flowHarness struct {
	dispatches  int
	completions int
	lastOTP     string
	dispatchErr error
	completeErr error
}

func (h *flowHarness) dispatch(context.Context) error {
	h.dispatches++
	return h.dispatchErr
}

func (h *flowHarness) complete(_ context.Context, otp string) error {
	h.completions++
	h.lastOTP = otp
	return h.completeErr
}

func (h *flowHarness) flow() *Flow {
	return New(h.dispatch, h.complete, 30, zap.NewNop())
}

func TestRequestOTP_AdvancesAndStartsCooldown(t *testing.T) {
	h := &flowHarness{}
	f := h.flow()

	require.Equal(t, StepAwaitingRequest, f.Step())
	require.NoError(t, f.RequestOTP(context.Background()))
	assert.Equal(t, StepOTPEntry, f.Step())
	assert.Equal(t, 30, f.Cooldown())
	assert.Equal(t, 1, h.dispatches)
}

func TestRequestOTP_FailureKeepsStep(t *testing.T) {
	h := &flowHarness{dispatchErr: errors.New("smtp down")}
	f := h.flow()

	require.Error(t, f.RequestOTP(context.Background()))
	assert.Equal(t, StepAwaitingRequest, f.Step())
	assert.Equal(t, 0, f.Cooldown())
}

func TestResend_CooldownScenario(t *testing.T) {
	h := &flowHarness{}
	f := h.flow()
	require.NoError(t, f.RequestOTP(context.Background()))

	err := f.Resend(context.Background())
	require.Error(t, err, "resend while the cooldown runs is rejected")
	assert.Equal(t, 1, h.dispatches, "no network call fired for the rejected resend")

	for i := 0; i < 30; i++ {
		f.Tick()
	}
	require.Equal(t, 0, f.Cooldown())
	require.True(t, f.CanResend())

	require.NoError(t, f.Resend(context.Background()))
	assert.Equal(t, 2, h.dispatches)
	assert.Equal(t, 30, f.Cooldown(), "a successful resend restarts the cooldown")
}

func TestTick_StopsAtZero(t *testing.T) {
	h := &flowHarness{}
	f := h.flow()
	require.NoError(t, f.RequestOTP(context.Background()))

	for i := 0; i < 100; i++ {
		f.Tick()
	}
	assert.Equal(t, 0, f.Cooldown())
}

func TestComplete_RequiresEnteredCode(t *testing.T) {
	h := &flowHarness{}
	f := h.flow()
	require.NoError(t, f.RequestOTP(context.Background()))

	require.Error(t, f.Complete(context.Background(), "   "))
	assert.Equal(t, 0, h.completions, "an empty code never reaches the server")
	assert.Equal(t, StepOTPEntry, f.Step())
}

func TestComplete_SuccessFinishesFlow(t *testing.T) {
	h := &flowHarness{}
	f := h.flow()
	require.NoError(t, f.RequestOTP(context.Background()))

	require.NoError(t, f.Complete(context.Background(), "482913"))
	assert.Equal(t, StepCompleted, f.Step())
	assert.Equal(t, "482913", h.lastOTP)
}

func TestComplete_ServerRejectionKeepsStep(t *testing.T) {
	h := &flowHarness{completeErr: errors.New("invalid otp")}
	f := h.flow()
	require.NoError(t, f.RequestOTP(context.Background()))

	require.Error(t, f.Complete(context.Background(), "000000"))
	assert.Equal(t, StepOTPEntry, f.Step(), "the operator may retry the same step")
}

func TestComplete_BeforeRequestRejected(t *testing.T) {
	h := &flowHarness{}
	f := h.flow()

	require.Error(t, f.Complete(context.Background(), "123456"))
	assert.Equal(t, 0, h.completions)
}
