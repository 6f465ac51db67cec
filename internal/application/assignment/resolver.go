// Package assignment resolves flow step operators to concrete users.
package assignment

import (
	"context"
	"fmt"
	"sort"

	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/domain/user"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// RoleMembers is the part of the role graph the resolver reads.
type RoleMembers interface {
	GetUsersForRole(role string) ([]string, error)
	HasRoleForUser(userID string, role string) (bool, error)
}

// Resolution lists the users eligible for a step. RoleID is set when the
// step operator is a role.
type Resolution struct {
	Users  []*user.User
	RoleID string
}

// Eligible reports whether userID is one of the resolved users.
func (r *Resolution) Eligible(userID string) bool {
	for _, u := range r.Users {
		if u.SID() == userID {
			return true
		}
	}
	return false
}

type Resolver struct {
	userRepo user.Repository
	roleRepo permission.RoleRepository
	members  RoleMembers
	logger   logger.Interface
}

func NewResolver(
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	members RoleMembers,
	logger logger.Interface,
) *Resolver {
	return &Resolver{
		userRepo: userRepo,
		roleRepo: roleRepo,
		members:  members,
		logger:   logger,
	}
}

// Resolve lists the users op designates. A None operator designates the requester.
func (r *Resolver) Resolve(ctx context.Context, op schema.Operator, requesterID string) (*Resolution, error) {
	switch o := op.(type) {
	case nil, schema.NoOperator:
		u, err := r.activeUser(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		return &Resolution{Users: []*user.User{u}}, nil

	case schema.UserOperator:
		u, err := r.activeUser(ctx, o.UserID)
		if err != nil {
			return nil, err
		}
		return &Resolution{Users: []*user.User{u}}, nil

	case schema.RoleOperator:
		users, err := r.roleMembers(ctx, o.RoleID)
		if err != nil {
			return nil, err
		}
		return &Resolution{Users: users, RoleID: o.RoleID}, nil
	}

	return nil, errors.NewInternalError("unsupported operator", fmt.Sprintf("%T", op))
}

// Bind resolves every step of s into a ticket binding. overrides maps step
// sids to the user picked for that step.
func (r *Resolver) Bind(ctx context.Context, s *schema.TicketSchema, requesterID string, overrides map[string]string) ([]ticket.Binding, error) {
	for stepSID := range overrides {
		if _, ok := s.Step(stepSID); !ok {
			return nil, errors.NewValidationError("assigned flow does not belong to the schema", stepSID)
		}
	}

	steps := s.Steps()
	bindings := make([]ticket.Binding, len(steps))
	for i, step := range steps {
		res, err := r.Resolve(ctx, step.Operator(), requesterID)
		if err != nil {
			return nil, err
		}

		picked, hasOverride := overrides[step.SID()]
		switch {
		case hasOverride:
			if !res.Eligible(picked) {
				r.logger.Warnw("assigned user is not eligible for step",
					"step_sid", step.SID(),
					"user_id", picked,
				)
				return nil, errors.NewForbiddenError("assigned user cannot operate this flow",
					fmt.Sprintf("user %s is not eligible for step %s", picked, step.SID()))
			}
			bindings[i] = ticket.Binding{UserID: picked}
		case len(res.Users) == 1:
			bindings[i] = ticket.Binding{UserID: res.Users[0].SID()}
		case len(res.Users) == 0:
			return nil, errors.NewAmbiguousAssignmentError("no user can operate this flow",
				fmt.Sprintf("role %s of step %s has no active members", res.RoleID, step.SID()))
		default:
			bindings[i] = ticket.Binding{RoleID: res.RoleID}
		}
	}
	return bindings, nil
}

// IsMember reports whether userID is an active member of roleID right now.
func (r *Resolver) IsMember(ctx context.Context, userID, roleID string) (bool, error) {
	ok, err := r.members.HasRoleForUser(userID, roleID)
	if err != nil {
		r.logger.Errorw("failed to check role membership", "user_id", userID, "role_id", roleID, "error", err)
		return false, errors.NewInternalError("failed to check role membership")
	}
	if !ok {
		return false, nil
	}
	active, err := r.userRepo.ExistsActive(ctx, userID)
	if err != nil {
		r.logger.Errorw("failed to check user", "user_id", userID, "error", err)
		return false, errors.NewInternalError("failed to check user")
	}
	return active, nil
}

func (r *Resolver) activeUser(ctx context.Context, userID string) (*user.User, error) {
	if userID == "" {
		return nil, errors.NewNotFoundError("user not found")
	}
	u, err := r.userRepo.GetBySID(ctx, userID)
	if err != nil {
		r.logger.Errorw("failed to get user", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to get user")
	}
	if u == nil || !u.IsActive() {
		return nil, errors.NewNotFoundError("user not found", userID)
	}
	return u, nil
}

func (r *Resolver) roleMembers(ctx context.Context, roleID string) ([]*user.User, error) {
	exists, err := r.roleRepo.Exists(ctx, roleID)
	if err != nil {
		r.logger.Errorw("failed to check role", "role_id", roleID, "error", err)
		return nil, errors.NewInternalError("failed to check role")
	}
	if !exists {
		return nil, errors.NewNotFoundError("role not found", roleID)
	}

	sids, err := r.members.GetUsersForRole(roleID)
	if err != nil {
		r.logger.Errorw("failed to get role members", "role_id", roleID, "error", err)
		return nil, errors.NewInternalError("failed to get role members")
	}
	if len(sids) == 0 {
		return nil, nil
	}

	found, err := r.userRepo.GetBySIDs(ctx, sids)
	if err != nil {
		r.logger.Errorw("failed to get role members", "role_id", roleID, "error", err)
		return nil, errors.NewInternalError("failed to get role members")
	}

	users := make([]*user.User, 0, len(found))
	for _, u := range found {
		if u.IsActive() {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].SID() < users[j].SID() })
	return users, nil
}
