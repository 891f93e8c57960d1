// Package utils provides general-purpose helper utilities used across
// different parts of the application: context keys, JSON response writing,
// JWT token generation and validation, UUID generation, and password
// hashing.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the authenticated user id in the
// context. Set by the auth middleware, read via GetUserIDFromContext.
var UserIDCtxKey = contextKey("userID")

// DeviceIDCtxKey is the key used to store the calling device id in the
// context. The id comes from the X-Device-Id header when present, falling
// back to the deviceId claim of the access token.
var DeviceIDCtxKey = contextKey("deviceID")

// GetUserIDFromContext retrieves the authenticated user id from the context.
//
// Returns the user id and an ok flag:
//   - ok == true  - value is found and has the correct string type
//   - ok == false - value is missing or has an unexpected type
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// GetDeviceIDFromContext retrieves the calling device id from the context.
// An empty string with ok == false means no device identified itself.
func GetDeviceIDFromContext(ctx context.Context) (string, bool) {
	deviceID, ok := ctx.Value(DeviceIDCtxKey).(string)
	return deviceID, ok && deviceID != ""
}
