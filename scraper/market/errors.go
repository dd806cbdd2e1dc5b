package market

import (
	"errors"
	"fmt"
)

// ErrNoItems means a listing page yielded no item links after retries.
var ErrNoItems = errors.New("no item links on listing page")

// NavigationError is returned when the listing page never rendered its rows.
type NavigationError struct {
	Op  string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation: %s: %v", e.Op, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
