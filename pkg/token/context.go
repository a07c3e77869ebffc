package token

import "context"

type subjectContextKey struct{}

// WithSubject binds the verified subject id to the request context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subject)
}

// SubjectFromContext returns the verified subject id bound by the session
// guard. The second return is false when the request never passed the
// guard.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectContextKey{}).(string)
	return subject, ok && subject != ""
}
