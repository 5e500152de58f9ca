package store

import "errors"

// ErrNotFound is returned when a record does not exist or is not
// owned by the requesting principal.
var ErrNotFound = errors.New("not found")

// ErrInsufficientStock is returned when a cart write would exceed the
// product's current stock. The stock check and the write happen in a
// single conditional statement, so two concurrent writers cannot
// jointly oversell.
var ErrInsufficientStock = errors.New("insufficient stock")
