package authz

import (
	"context"
	"log/slog"

	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

// Authorizer evaluates attributes for the caller whose token travels in the context.
type Authorizer struct {
	validators []Validator
	recorder   DecisionRecorder
	logger     *slog.Logger
}

// NewAuthorizer builds an Authorizer over the given validators.
// The first validator supporting an attribute decides it.
func NewAuthorizer(logger *slog.Logger, recorder DecisionRecorder, validators ...Validator) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{validators: validators, recorder: recorder, logger: logger}
}

// Can reports whether the current caller holds attribute.
func (a *Authorizer) Can(ctx context.Context, attribute string) bool {
	return a.CanOn(ctx, attribute, nil)
}

// CanOn reports whether the current caller holds attribute against target.
func (a *Authorizer) CanOn(ctx context.Context, attribute string, target any) bool {
	allowed := false
	supported := false
	for _, v := range a.validators {
		if !v.SupportsAttribute(attribute) {
			continue
		}
		supported = true
		allowed = v.Validate(ctx, shared.TokenFromContext(ctx), attribute, target)
		break
	}
	if !supported {
		a.logger.Warn("authz unsupported attribute", slog.String("attribute", attribute))
	}
	if a.recorder != nil {
		a.recorder.ObserveDecision(attribute, allowed)
	}
	return allowed
}
