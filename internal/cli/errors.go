package cli

import (
	"errors"
	"fmt"
)

var (
	errEmptyTask = errors.New("task text must not be empty")
	errRmArgs    = errors.New("pass either task text or --id, not both")
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}
