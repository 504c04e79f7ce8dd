// Package portal drives the school portal's SMS interface. The fragile
// page interactions sit behind the Page interface as named steps, so a
// failed step is a typed result rather than a crash mid-sequence.
package portal

import (
	"context"
	"fmt"
)

// Page is one logged-in portal session. Every method is a single named
// step; implementations return a *StepError so callers can tell which
// step broke.
type Page interface {
	Login(ctx context.Context) error
	OpenComposer(ctx context.Context) error
	ClearSelections(ctx context.Context) error
	SelectStaff(ctx context.Context, name string) error
	SelectStudent(ctx context.Context, grade int, class string, number int, name string) error
	SelectRecipients(ctx context.Context, labels ...string) error
	FillMessage(ctx context.Context, title, body string) error
	Submit(ctx context.Context) error
	Close() error
}

// PageFactory opens a fresh portal session. One session per dispatch
// request, closed when the dispatch finishes.
type PageFactory func(ctx context.Context) (Page, error)

// StepError names the portal step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("portal step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(step string, err error) *StepError {
	return &StepError{Step: step, Err: err}
}
