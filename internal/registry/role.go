// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned when a role name cannot be parsed.
var ErrUnknownRole = errors.New("unknown worker role")

// Role describes what a worker is used for. It does not restrict which commands may run.
type Role int

const (
	// RoleUnknown is the zero value and is rejected by the registry.
	RoleUnknown Role = iota
	// RoleBuild workers resolve build and type errors.
	RoleBuild
	// RoleUI workers build the user interface and website.
	RoleUI
	// RoleInfra workers handle infrastructure and databases.
	RoleInfra
)

// String implements the Stringer interface for Role.
func (r Role) String() string {
	switch r {
	case RoleBuild:
		return "Build/Error Resolution"
	case RoleUI:
		return "UX/UI and Website Builder"
	case RoleInfra:
		return "Infrastructure/Database"
	default:
		return "Unknown"
	}
}

// Key returns the short configuration name of the role.
func (r Role) Key() string {
	switch r {
	case RoleBuild:
		return "build"
	case RoleUI:
		return "ui"
	case RoleInfra:
		return "infra"
	default:
		return ""
	}
}

// ParseRole converts a configuration name (e.g. "build", "ui", "infra") into a Role.
// Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "build":
		return RoleBuild, nil
	case "ui":
		return RoleUI, nil
	case "infra":
		return RoleInfra, nil
	default:
		return RoleUnknown, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}
