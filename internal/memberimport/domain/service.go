package domain

import (
	"context"
	"errors"
	"io"
)

type Service interface {
	// Template renders the import template workbook, with one fixed column
	// block and two dynamic columns per allowance type.
	Template(ctx context.Context) ([]byte, error)
	// Upload parses and validates a spreadsheet, returning a new session.
	Upload(ctx context.Context, fileName string, file io.Reader) (*ImportSession, error)
	Get(ctx context.Context, sessionID string) (*ImportSession, error)
	// Advance moves the wizard one step forward. Advancing off the
	// validation step is refused while any row is invalid.
	Advance(ctx context.Context, sessionID string) (*ImportSession, error)
	// Dispatch runs the sequential invitation sweep over the session's rows.
	Dispatch(ctx context.Context, sessionID string) (*ImportSession, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrSessionNotFound     = errors.New("import_session_not_found")
	ErrUnreadableFile      = errors.New("unreadable_spreadsheet")
	ErrTooManyRows         = errors.New("too_many_rows")
	ErrInvalidRowsRemain   = errors.New("invalid_rows_remain")
	ErrWizardComplete      = errors.New("wizard_already_complete")
	ErrWrongStep           = errors.New("wrong_wizard_step")
)
