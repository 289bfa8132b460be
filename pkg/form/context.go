package form

import "context"

type submissionKey struct{}

// ContextWithSubmissionID tags ctx with the id of the submission in flight so
// submit handlers can correlate their work with the caller's response.
func ContextWithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionKey{}, id)
}

// SubmissionIDFromContext returns the id set by ContextWithSubmissionID.
func SubmissionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(submissionKey{}).(string)
	return id, ok && id != ""
}
