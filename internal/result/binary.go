// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package result

import (
	"encoding/gob"
	"errors"
	"io"
	"time"
)

var (
	// ErrWriteGob is returned when writing the results to a binary format fails.
	ErrWriteGob = errors.New("failed to write binary results")
	// ErrReadGob is returned when reading results from a binary format fails.
	ErrReadGob = errors.New("failed to read binary results")
)

// binaryResult is the gob wire form of ExecutionResult. Errors are flattened to
// strings since arbitrary error values cannot be gob encoded.
type binaryResult struct {
	WorkerID int
	ExitCode int
	Output   string
	Duration time.Duration
	Error    string
}

// WriteBinary gob-encodes the set to w.
func WriteBinary(w io.Writer, s Set) error {
	wire := make([]binaryResult, 0, len(s))

	for _, id := range s.IDs() {
		r := s[id]
		br := binaryResult{
			WorkerID: r.WorkerID,
			ExitCode: r.ExitCode,
			Output:   r.Output,
			Duration: r.Duration,
		}

		if r.Err != nil {
			br.Error = r.Err.Error()
		}

		wire = append(wire, br)
	}

	if err := gob.NewEncoder(w).Encode(wire); err != nil {
		return errors.Join(ErrWriteGob, err)
	}

	return nil
}

// ReadBinary decodes a set written by WriteBinary.
func ReadBinary(r io.Reader) (Set, error) {
	var wire []binaryResult

	if err := gob.NewDecoder(r).Decode(&wire); err != nil {
		return nil, errors.Join(ErrReadGob, err)
	}

	results := make([]ExecutionResult, 0, len(wire))

	for _, br := range wire {
		er := ExecutionResult{
			WorkerID: br.WorkerID,
			ExitCode: br.ExitCode,
			Output:   br.Output,
			Duration: br.Duration,
		}

		if br.Error != "" {
			er.Err = errors.New(br.Error)
		}

		results = append(results, er)
	}

	return Collect(results...), nil
}
