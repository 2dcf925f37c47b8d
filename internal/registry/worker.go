// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package registry

import (
	"fmt"
	"net"
)

// Worker is the identity and connection profile of a remote host.
type Worker struct {
	ID               int    // Unique, positive identifier.
	Address          string // Host name or IP, optionally with a port.
	User             string // Remote login user.
	Role             Role   // Descriptive role tag.
	CredentialRef    string // Path to the private key used to authenticate.
	RemoteWorkingDir string // Directory on the remote host commands run inside.
}

// String implements the Stringer interface for Worker.
func (w Worker) String() string {
	return fmt.Sprintf("Worker %d (%s) - %s", w.ID, w.Address, w.Role)
}

// Host returns the address without any port.
func (w Worker) Host() string {
	host, _, err := net.SplitHostPort(w.Address)
	if err != nil {
		return w.Address
	}

	return host
}

// Port returns the port from the address, or an empty string if none was given.
func (w Worker) Port() string {
	_, port, err := net.SplitHostPort(w.Address)
	if err != nil {
		return ""
	}

	return port
}

// Target returns the user@host login string.
func (w Worker) Target() string {
	if w.User == "" {
		return w.Host()
	}

	return w.User + "@" + w.Host()
}
