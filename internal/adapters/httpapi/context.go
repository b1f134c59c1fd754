package httpapi

import (
	"context"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

type subjectKey struct{}

// WithSubject stores the authenticated subject for downstream handlers.
func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subjectID)
}

func SubjectFromContext(ctx context.Context) (domain.SubjectID, bool) {
	v, ok := ctx.Value(subjectKey{}).(string)
	return domain.SubjectID(v), ok && v != ""
}
