//go:build nocgo

package audio

import (
	"context"
	"errors"
)

// Stub implementations for builds without CGO

var errNoCgo = errors.New("audio not available in nocgo build")

// OtoOutput stub for nocgo builds.
type OtoOutput struct{}

// NewOtoOutput always fails in nocgo builds.
func NewOtoOutput(OutputConfig) (*OtoOutput, error) {
	return nil, errNoCgo
}

func (o *OtoOutput) State() State                        { return StateClosed }
func (o *OtoOutput) Suspend() error                      { return errNoCgo }
func (o *OtoOutput) Resume() error                       { return errNoCgo }
func (o *OtoOutput) Play(context.Context, *Buffer) error { return errNoCgo }
func (o *OtoOutput) Playing() int                        { return 0 }
func (o *OtoOutput) Close() error                        { return nil }
