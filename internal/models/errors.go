package models

import "errors"

// ErrNotFound is wrapped by every lookup of a missing task, project, event or notification
var ErrNotFound = errors.New("not found")
