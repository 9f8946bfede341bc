// Package auth handles access tokens, password hashing, and the request
// subject carried through context.
package auth

import (
	"context"

	"contactManagement/internal/policy"
)

type subjectKey struct{}

// WithSubject stores the resolved subject in context.
func WithSubject(ctx context.Context, s *policy.Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// SubjectFromContext retrieves the subject from context (if any).
func SubjectFromContext(ctx context.Context) (*policy.Subject, bool) {
	s, ok := ctx.Value(subjectKey{}).(*policy.Subject)
	return s, ok
}
