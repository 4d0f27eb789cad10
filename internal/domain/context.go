// Package domain provides core business types and context helpers for Festa.
//
// Context helpers centralize request-scoped data access so handlers and services
// read the shopper session, admin identity and request ID the same way.
package domain

import (
	"context"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// sessionContextKey stores the shopper session ID.
	sessionContextKey contextKey = iota

	// adminContextKey stores the signed-in administrator.
	adminContextKey

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Admin identifies the administrator behind an admin request.
type Admin struct {
	Email     string
	SessionID string
}

// --- Shopper Session Helpers ---

// NewContextWithSession returns a new context carrying the shopper session ID.
func NewContextWithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

// SessionFromContext returns the shopper session ID, or "" when absent.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey).(string)
	return id
}

// --- Admin Context Helpers ---

// NewContextWithAdmin returns a new context with the admin attached.
func NewContextWithAdmin(ctx context.Context, admin *Admin) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

// AdminFromContext retrieves the admin from context.
// Returns nil if no admin is present.
func AdminFromContext(ctx context.Context) *Admin {
	admin, _ := ctx.Value(adminContextKey).(*Admin)
	return admin
}

// MustAdmin retrieves the admin from context, panicking if not present.
// The panic will be caught by the recovery middleware.
func MustAdmin(ctx context.Context) *Admin {
	admin := AdminFromContext(ctx)
	if admin == nil {
		panic("admin required in context but not found")
	}
	return admin
}

// IsAdmin returns true if there is an admin in context.
func IsAdmin(ctx context.Context) bool {
	return AdminFromContext(ctx) != nil
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
