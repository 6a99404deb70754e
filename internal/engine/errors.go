package engine

import (
	"errors"
	"fmt"
)

var (
	ErrEntryExists            = errors.New("entry already exists")
	ErrEntryNotFound          = errors.New("entry not found")
	ErrDeleteFailed           = errors.New("delete failed")
	ErrIconNotFound           = errors.New("icon not found")
	ErrStorageRootUnavailable = errors.New("storage root unavailable")
)

// DeleteError reports why an entry's directory could not be removed.
type DeleteError struct {
	Name string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("deleting %s: %v", e.Name, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

func (e *DeleteError) Is(target error) bool {
	return target == ErrDeleteFailed
}
