package vm

import (
	"io"
	"os"
)

// Config holds interpreter limits and I/O.
type Config struct {
	// MaxCallDepth bounds nested invocations; exceeding it fails with
	// ErrStackOverflow. Zero means unlimited.
	MaxCallDepth int

	// MaxSteps bounds the total number of instructions executed; exceeding
	// it fails with ErrStepLimit. Zero means unlimited.
	MaxSteps int64

	// CheckMaxStack enforces each method's declared max stack.
	CheckMaxStack bool

	// Trace logs every executed instruction at debug level.
	Trace bool

	// Stdout receives output from native print methods.
	Stdout io.Writer
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		MaxCallDepth:  512,
		CheckMaxStack: true,
		Stdout:        os.Stdout,
	}
}
