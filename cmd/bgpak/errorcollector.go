package main

import (
	"errors"
	"fmt"
)

// errorCollector aggregates failures from a batch operation (packing or
// unpacking many files) so the whole run can report every problem instead
// of stopping at the first one.
type errorCollector struct {
	Errors []error
}

// Add records err if non-nil.
func (c *errorCollector) Add(err error) {
	if err != nil {
		c.Errors = append(c.Errors, err)
	}
}

// Addf records a formatted error.
func (c *errorCollector) Addf(format string, args ...interface{}) {
	if len(args) > 0 {
		c.Errors = append(c.Errors, fmt.Errorf(format, args...))
	} else {
		c.Errors = append(c.Errors, errors.New(format))
	}
}

// HasErrors reports whether anything was collected.
func (c *errorCollector) HasErrors() bool { return len(c.Errors) > 0 }

// ShowAll prints every collected error via showError.
func (c *errorCollector) ShowAll() {
	for _, err := range c.Errors {
		showError(err)
	}
}
