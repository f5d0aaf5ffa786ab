// Package otpflow drives the OTP-gated flows (create admin, forgot
// password, user creation): request a code, enter it, complete the action.
// The flow only moves forward on success; any failure keeps the current
// step so the operator retries in place.
package otpflow

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/pradhanfinservdev/pradhanportal-client/pkg/errors"
)

type Step int

const (
	StepAwaitingRequest Step = iota
	StepOTPEntry
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepAwaitingRequest:
		return "awaiting_request"
	case StepOTPEntry:
		return "otp_entry"
	case StepCompleted:
		return "completed"
	}
	return "unknown"
}

// DispatchFunc asks the server to send a code.
type DispatchFunc func(ctx context.Context) error

// CompleteFunc performs the terminal action with the entered code. The code
// is opaque to the flow; the server alone judges it.
type CompleteFunc func(ctx context.Context, otp string) error

type Flow struct {
	mu       sync.Mutex
	step     Step
	cooldown int
	// full cooldown in seconds, restored on every successful dispatch
	cooldownFull int
	dispatch     DispatchFunc
	complete     CompleteFunc
	logger       *zap.Logger
}

func New(dispatch DispatchFunc, complete CompleteFunc, cooldownSeconds int, logger *zap.Logger) *Flow {
	return &Flow{
		step:         StepAwaitingRequest,
		cooldownFull: cooldownSeconds,
		dispatch:     dispatch,
		complete:     complete,
		logger:       logger.Named("otpflow"),
	}
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Cooldown reports the seconds remaining before resend is allowed.
func (f *Flow) Cooldown() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cooldown
}

func (f *Flow) CanResend() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step == StepOTPEntry && f.cooldown == 0
}

// Tick counts the cooldown down by one second, driven by the view's timer.
func (f *Flow) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cooldown > 0 {
		f.cooldown--
	}
}

// RequestOTP dispatches the first code. On success the flow advances to
// code entry and the resend cooldown starts.
func (f *Flow) RequestOTP(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepAwaitingRequest {
		f.mu.Unlock()
		return apperrors.NewInvalidInputError("code already requested")
	}
	f.mu.Unlock()

	if err := f.dispatch(ctx); err != nil {
		f.logger.Warn("otp dispatch failed", zap.Error(err))
		return err
	}

	f.mu.Lock()
	f.step = StepOTPEntry
	f.cooldown = f.cooldownFull
	f.mu.Unlock()
	return nil
}

// Resend dispatches a fresh code. Rejected without a network call while the
// cooldown is running; a successful resend restarts it. The code the
// operator already typed is theirs to keep or overwrite.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepOTPEntry {
		f.mu.Unlock()
		return apperrors.NewInvalidInputError("no code to resend yet")
	}
	if f.cooldown > 0 {
		remaining := f.cooldown
		f.mu.Unlock()
		return apperrors.NewInvalidInputError("wait %d seconds before resending", remaining)
	}
	f.mu.Unlock()

	if err := f.dispatch(ctx); err != nil {
		f.logger.Warn("otp resend failed", zap.Error(err))
		return err
	}

	f.mu.Lock()
	f.cooldown = f.cooldownFull
	f.mu.Unlock()
	return nil
}

// Complete runs the terminal action with the entered code and finishes the
// flow on success.
func (f *Flow) Complete(ctx context.Context, otp string) error {
	f.mu.Lock()
	if f.step != StepOTPEntry {
		f.mu.Unlock()
		return apperrors.NewInvalidInputError("request a code first")
	}
	f.mu.Unlock()

	if strings.TrimSpace(otp) == "" {
		return apperrors.NewInvalidInputError("enter the code you received")
	}
	if err := f.complete(ctx, otp); err != nil {
		f.logger.Warn("otp completion failed", zap.Error(err))
		return err
	}

	f.mu.Lock()
	f.step = StepCompleted
	f.mu.Unlock()
	return nil
}
