// Package repository implements the application user store on MySQL.
// Sentinel errors defined here let higher layers such as the identity
// resolver and the HTTP handlers distinguish failure scenarios without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrUserNotFound is returned when no user record exists for the given
// email or id.  The resolver treats it as "first sign-in" and creates the
// record; handlers translate it into HTTP 404.
var ErrUserNotFound = errors.New("user not found")
