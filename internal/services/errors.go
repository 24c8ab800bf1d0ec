package services

import "errors"

// Messages shown to users. They are part of the page contract, so they keep
// their sentence form.
const (
	MsgSongNotFound    = "Song not found in the dataset."
	MsgEmptyCluster    = "No songs found in the same cluster."
	MsgUnexpectedError = "An unexpected error occurred"
)

// NotFoundError means the query cannot be answered from the dataset.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

var (
	ErrInvalidCount        = errors.New("number of recommendations must be positive")
	ErrNoDataset           = errors.New("no dataset loaded")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAdminDisabled       = errors.New("admin login is not configured")
	ErrDatabaseUnavailable = errors.New("dataset import needs a database connection")
)

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
