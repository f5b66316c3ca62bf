package main

import (
	"context"
	"errors"
	"io"

	"github.com/AshleyF/brief/internal/panicerr"
)

// New builds a Driver with its compiler freshly initialized and populated
// (NewCompiler's dictionary initializer), applying opts over the defaults.
func New(opts ...DriverOption) *Driver {
	d := &Driver{compiler: NewCompiler()}
	DriverOptions(defaultOptions...).apply(d)
	DriverOptions(opts...).apply(d)
	return d
}

// Run drives the interactive line processor to completion, recovering any
// panic or abnormal goroutine exit as a plain error (the teacher's own
// api.go convention, built on internal/panicerr). `exit` and a clean EOF on
// stdin both report success.
func (d *Driver) Run(ctx context.Context) error {
	err := panicerr.Recover("driver", func() error {
		return d.run(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, errExit) {
		return nil
	}
	return err
}
