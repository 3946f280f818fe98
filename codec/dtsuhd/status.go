/*
DESCRIPTION
  status.go provides the frame-parse status taxonomy and a FrameError type
  carrying both the status and the underlying wrapped error.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dtsuhd

import "fmt"

// Status classifies the outcome of ParseFrame.
type Status int

const (
	// StatusOK indicates the frame was parsed successfully.
	StatusOK Status = iota

	// StatusIncomplete indicates the buffer does not yet contain the entire
	// frame; the caller should retry with more bytes at the same offset.
	StatusIncomplete

	// StatusInvalidFrame indicates a CRC failure or a malformed field; the
	// caller may drop the frame and scan for the next syncword.
	StatusInvalidFrame

	// StatusNoSync indicates the first frame seen was not a sync frame, or
	// the syncword is unrecognised.
	StatusNoSync

	// StatusNullArg indicates a required argument was missing.
	StatusNullArg
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusIncomplete:
		return "INCOMPLETE"
	case StatusInvalidFrame:
		return "INVALID_FRAME"
	case StatusNoSync:
		return "NOSYNC"
	case StatusNullArg:
		return "NULL_ARG"
	default:
		return "UNKNOWN"
	}
}

// FrameError wraps a Status with the underlying cause, if any. A nil Err is
// valid (e.g. StatusIncomplete rarely has an interesting cause).
type FrameError struct {
	Status Status
	Err    error
}

// Error implements the error interface.
func (e *FrameError) Error() string {
	if e.Err == nil {
		return e.Status.String()
	}
	return fmt.Sprintf("%s: %v", e.Status, e.Err)
}

// Unwrap allows errors.Is/errors.As to reach the wrapped cause.
func (e *FrameError) Unwrap() error {
	return e.Err
}

func statusErr(s Status, err error) *FrameError {
	return &FrameError{Status: s, Err: err}
}
