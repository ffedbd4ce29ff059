package app

import (
	"time"

	"github.com/google/uuid"
)

// Operation tracks one CLI invocation. Its ID tags every log record the
// invocation writes.
type Operation struct {
	ID         string
	Name       string
	Parameters string
	Status     string // "success" or "error"
	StartedAt  time.Time
}

// NewOperation creates an operation with a fresh random ID.
func NewOperation(name, parameters string) *Operation {
	return &Operation{
		ID:         uuid.New().String(),
		Name:       name,
		Parameters: parameters,
		Status:     "success",
		StartedAt:  time.Now(),
	}
}

// Track marks the operation failed when err is non-nil and returns err unchanged.
func (op *Operation) Track(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}
