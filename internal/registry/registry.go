// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrWorkerNotFound is returned when a worker ID is not in the registry.
	ErrWorkerNotFound = errors.New("worker not found")
	// ErrInvalidWorker is returned when a worker definition fails validation.
	ErrInvalidWorker = errors.New("invalid worker")
	// ErrDuplicateWorker is returned when two workers share an ID.
	ErrDuplicateWorker = errors.New("duplicate worker id")
)

// NotFoundError is returned by Lookup when the ID is not registered.
type NotFoundError struct {
	ID int
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %d", ErrWorkerNotFound, e.ID)
}

// Is reports whether target is ErrWorkerNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrWorkerNotFound
}

// Registry is an immutable, ordered set of workers.
type Registry struct {
	workers []Worker
	index   map[int]int
}

// New creates a registry from the given workers, preserving their order.
// Every invalid or duplicate worker is reported in the returned error.
func New(workers ...Worker) (*Registry, error) {
	var err error

	r := &Registry{
		workers: make([]Worker, 0, len(workers)),
		index:   make(map[int]int, len(workers)),
	}

	for i, w := range workers {
		if verr := validate(w); verr != nil {
			err = multierror.Append(err, fmt.Errorf("entry %d: %w", i, verr))
			continue
		}

		if _, ok := r.index[w.ID]; ok {
			err = multierror.Append(err, fmt.Errorf("entry %d: %w: %d", i, ErrDuplicateWorker, w.ID))
			continue
		}

		r.index[w.ID] = len(r.workers)
		r.workers = append(r.workers, w)
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return r, nil
}

func validate(w Worker) error {
	var err error

	if w.ID <= 0 {
		err = multierror.Append(err, fmt.Errorf("%w: id must be positive, got %d", ErrInvalidWorker, w.ID))
	}

	if w.Address == "" {
		err = multierror.Append(err, fmt.Errorf("%w: worker %d has no address", ErrInvalidWorker, w.ID))
	}

	if w.RemoteWorkingDir == "" {
		err = multierror.Append(err, fmt.Errorf("%w: worker %d has no working directory", ErrInvalidWorker, w.ID))
	}

	if w.Role == RoleUnknown {
		err = multierror.Append(err, fmt.Errorf("%w: worker %d: %w", ErrInvalidWorker, w.ID, ErrUnknownRole))
	}

	return err
}

// Lookup returns the worker with the given ID.
func (r *Registry) Lookup(id int) (Worker, error) {
	i, ok := r.index[id]
	if !ok {
		return Worker{}, &NotFoundError{ID: id}
	}

	return r.workers[i], nil
}

// All returns every worker in registration order.
// The returned slice is a copy and may be modified by the caller.
func (r *Registry) All() []Worker {
	return slices.Clone(r.workers)
}

// IDs returns the worker IDs in registration order.
func (r *Registry) IDs() []int {
	ids := make([]int, len(r.workers))
	for i, w := range r.workers {
		ids[i] = w.ID
	}

	return ids
}

// Len returns the number of registered workers.
func (r *Registry) Len() int {
	return len(r.workers)
}
