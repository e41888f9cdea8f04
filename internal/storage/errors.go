package storage

import "errors"

var ErrNotFound = errors.New("run not found")
