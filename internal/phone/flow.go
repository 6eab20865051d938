package phone

import (
	"context"
	"errors"
	"sync"
)

// State identifies the current step of the verification sub-flow.
type State string

const (
	StatePhoneEntry State = "phone-entry"
	StateCodeEntry  State = "code-entry"
	StateVerified   State = "verified"
	StateClosed     State = "closed"
)

var (
	// ErrClosed is returned when an operation arrives after the flow was
	// cancelled or completed, including when an in-flight collaborator call
	// finishes after cancellation. Its outcome is discarded.
	ErrClosed = errors.New("verification flow closed")
	// ErrBadState is returned when an operation is not valid in the current
	// step.
	ErrBadState = errors.New("operation not allowed in current step")
)

// Verifier is the external OTP collaborator.
type Verifier interface {
	// SendVerification delivers a code to the given E.164 number. The
	// returned code is non-empty only in development setups that echo it.
	SendVerification(ctx context.Context, number string) (string, error)
	// VerifyPhone checks the submitted code. ok reports the explicit success
	// flag; message carries the collaborator's failure reason when not ok.
	VerifyPhone(ctx context.Context, number, code string) (ok bool, message string, err error)
}

// Flow is the phone verification state machine: phone-entry <-> code-entry,
// exiting upward through onVerified on success. A generation counter guards
// against collaborator calls completing after Cancel.
type Flow struct {
	mu         sync.Mutex
	state      State
	gen        uint64
	number     string
	verifier   Verifier
	onVerified func(number string)
	onCancel   func()
}

// NewFlow starts a sub-flow in phone-entry. onVerified receives the
// normalized E.164 number; onCancel fires on explicit cancellation. Either
// callback may be nil.
func NewFlow(verifier Verifier, onVerified func(string), onCancel func()) *Flow {
	return &Flow{
		state:      StatePhoneEntry,
		verifier:   verifier,
		onVerified: onVerified,
		onCancel:   onCancel,
	}
}

// State returns the current step.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Number returns the normalized number once a code has been sent.
func (f *Flow) Number() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.number
}

// SendCode validates raw, normalizes it and asks the collaborator to deliver
// a code. On success the flow advances to code-entry; on validation or
// collaborator failure it stays in phone-entry. The returned string is the
// development echo of the code, if any.
func (f *Flow) SendCode(ctx context.Context, raw string) (string, error) {
	f.mu.Lock()
	if f.state != StatePhoneEntry {
		f.mu.Unlock()
		return "", ErrBadState
	}
	number, err := NormalizePK(raw)
	if err != nil {
		f.mu.Unlock()
		return "", err
	}
	gen := f.gen
	f.mu.Unlock()

	code, err := f.verifier.SendVerification(ctx, number)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return "", ErrClosed
	}
	if err != nil {
		return "", err
	}
	f.number = number
	f.state = StateCodeEntry
	return code, nil
}

// SubmitCode passes the stored number and the submitted code to the
// collaborator. An explicit success invokes onVerified and completes the
// flow; any other outcome keeps the flow in code-entry.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	f.mu.Lock()
	if f.state != StateCodeEntry {
		f.mu.Unlock()
		return ErrBadState
	}
	number := f.number
	gen := f.gen
	f.mu.Unlock()

	ok, message, err := f.verifier.VerifyPhone(ctx, number, code)

	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		f.mu.Unlock()
		return err
	}
	if !ok {
		f.mu.Unlock()
		if message == "" {
			message = "invalid verification code"
		}
		return errors.New(message)
	}
	f.state = StateVerified
	onVerified := f.onVerified
	f.mu.Unlock()

	if onVerified != nil {
		onVerified(number)
	}
	return nil
}

// Back returns from code-entry to phone-entry so a different number can be
// entered.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateCodeEntry {
		return ErrBadState
	}
	f.state = StatePhoneEntry
	f.number = ""
	return nil
}

// Cancel abandons the sub-flow from phone-entry or code-entry. Results of
// calls still in flight are discarded.
func (f *Flow) Cancel() {
	f.mu.Lock()
	if f.state != StatePhoneEntry && f.state != StateCodeEntry {
		f.mu.Unlock()
		return
	}
	f.state = StateClosed
	f.gen++
	onCancel := f.onCancel
	f.mu.Unlock()

	if onCancel != nil {
		onCancel()
	}
}
