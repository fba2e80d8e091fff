// Package storage holds what the reading stores share.
package storage

import "errors"

var ErrNotFound = errors.New("reading not found")
