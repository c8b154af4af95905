package authz

import (
	"context"
	"errors"
)

type stubResolver struct {
	actors map[string]Actor
	err    error
	calls  int
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (Actor, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	actor, ok := s.actors[token]
	if !ok {
		return nil, errors.New("token not found")
	}
	return actor, nil
}

type singleRoleUser struct {
	id   int64
	role RoleCode
}

func (u singleRoleUser) GetID() int64       { return u.id }
func (u singleRoleUser) RoleCode() RoleCode { return u.role }

type multiRoleUser struct {
	id    int64
	roles []RoleCode
}

func (u multiRoleUser) GetID() int64          { return u.id }
func (u multiRoleUser) RoleCodes() []RoleCode { return u.roles }

type bareUser struct{ id int64 }

func (u bareUser) GetID() int64 { return u.id }

type servicePrincipal struct{ id int64 }

func (p servicePrincipal) GetID() int64          { return p.id }
func (p servicePrincipal) RoleCodes() []RoleCode { return nil }
func (p servicePrincipal) IsService() bool       { return true }

type record struct{ id int64 }

func (r *record) GetID() int64 { return r.id }

const (
	codeSuperAdmin RoleCode = 1
	codeAdmin      RoleCode = 2
	codeGuest      RoleCode = 3
)

var testRoleNames = RoleNameTable{
	codeSuperAdmin: "super_admin",
	codeAdmin:      "Admin",
	codeGuest:      "guest",
}

type countingRecorder struct {
	decisions map[string][]bool
}

func (r *countingRecorder) ObserveDecision(attribute string, allowed bool) {
	if r.decisions == nil {
		r.decisions = make(map[string][]bool)
	}
	r.decisions[attribute] = append(r.decisions[attribute], allowed)
}
