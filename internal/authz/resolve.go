package authz

import (
	"context"
	"log/slog"
	"reflect"
)

// resolveActor returns nil when the token does not map to an actor.
func resolveActor(ctx context.Context, resolver TokenResolver, logger *slog.Logger, token string) Actor {
	if resolver == nil || token == "" {
		return nil
	}
	actor, err := resolver.Resolve(ctx, token)
	if err != nil {
		logger.Debug("authz resolve token", slog.Any("error", err))
		return nil
	}
	if isNil(actor) {
		return nil
	}
	return actor
}

func roleCodes(actor Actor) []RoleCode {
	if actor == nil {
		return []RoleCode{UnrecognizedRole}
	}
	if holder, ok := actor.(SingleRoleHolder); ok {
		return []RoleCode{holder.RoleCode()}
	}
	if holder, ok := actor.(MultiRoleHolder); ok {
		return holder.RoleCodes()
	}
	return []RoleCode{UnrecognizedRole}
}

// roleNames resolves the actor role codes to normalized names in iteration order.
func roleNames(ctx context.Context, lookup RoleNameLookup, actor Actor) []string {
	codes := roleCodes(actor)
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		var name string
		if lookup != nil {
			name = lookup.RoleName(ctx, code)
		}
		names = append(names, normalizeRoleName(name))
	}
	return names
}

// effective narrows names according to the policy. Anything but union is last-wins.
func (p MultiRolePolicy) effective(names []string) []string {
	if p != MultiRoleUnion && len(names) > 1 {
		return names[len(names)-1:]
	}
	return names
}

func (p MultiRolePolicy) grants(names []string, allow func(string) bool) bool {
	for _, name := range p.effective(names) {
		if allow(name) {
			return true
		}
	}
	return false
}

// ownsRecord reports whether target exposes an id equal to the actor id.
func ownsRecord(actor Actor, target any) bool {
	if actor == nil || actor.GetID() <= 0 || isNil(target) {
		return false
	}
	record, ok := target.(Identified)
	if !ok {
		return false
	}
	return record.GetID() == actor.GetID()
}

func isService(actor Actor) bool {
	svc, ok := actor.(ServiceActor)
	return ok && svc.IsService()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
