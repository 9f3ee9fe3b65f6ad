// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// # Actions

// Action is the transport-independent kind of operation being authorized.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// ActionFromMethod maps an HTTP method to an [Action].
// Unknown methods are treated as updates so they never pass as safe.
func ActionFromMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost:
		return ActionCreate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionUpdate
	}
}

// Safe reports whether the action is read-only.
func (a Action) Safe() bool {
	switch a {
	case ActionRead:
		return true
	case ActionCreate, ActionUpdate, ActionDelete:
		return false
	default:
		return false
	}
}

// # Actor

// Actor is the identity making a request. The zero value is anonymous.
type Actor struct {
	UserID      string
	Username    string
	Role        Role
	IsSuperuser bool
}

// Authenticated reports whether the actor represents a real account.
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// IsAdmin reports top privilege. A superuser is an admin whatever its role.
func (a Actor) IsAdmin() bool {
	if !a.Authenticated() {
		return false
	}
	if a.IsSuperuser {
		return true
	}

	switch a.Role {
	case RoleAdmin:
		return true
	case RoleModerator, RoleUser:
		return false
	default:
		return false
	}
}

// CanModerate reports whether the actor may override authorship of
// reviews and comments.
func (a Actor) CanModerate() bool {
	if !a.Authenticated() {
		return false
	}
	if a.IsSuperuser {
		return true
	}

	switch a.Role {
	case RoleAdmin, RoleModerator:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

// Object is the ownership view of a target resource.
type Object struct {
	// OwnerID is the account that authored or owns the resource.
	OwnerID string
	// OwnerUsername is the username of that account.
	OwnerUsername string
}

// # Policies

// Policy is a pure permission predicate pair.
type Policy interface {
	// Allow is the collection-level check.
	Allow(actor Actor, action Action) bool
	// AllowObject is the object-level check, evaluated after Allow.
	AllowObject(actor Actor, action Action, target Object) bool
}

var (
	// AdminOnly admits admins and superusers for every action.
	AdminOnly Policy = adminOnly{}

	// SelfOnly admits any authenticated actor, and at object level only
	// the account the target belongs to.
	SelfOnly Policy = selfOnly{}

	// AdminOrReadOnly admits everyone to read and admins to mutate.
	AdminOrReadOnly Policy = adminOrReadOnly{}

	// ReviewCommentAccess admits everyone to read, authenticated actors to
	// create, and the author, moderators or admins to change an object.
	ReviewCommentAccess Policy = reviewCommentAccess{}
)

type adminOnly struct{}

func (adminOnly) Allow(actor Actor, _ Action) bool {
	return actor.IsAdmin()
}

func (adminOnly) AllowObject(actor Actor, _ Action, _ Object) bool {
	return actor.IsAdmin()
}

type selfOnly struct{}

func (selfOnly) Allow(actor Actor, _ Action) bool {
	return actor.Authenticated()
}

func (selfOnly) AllowObject(actor Actor, _ Action, target Object) bool {
	return actor.Authenticated() && target.OwnerUsername == actor.Username
}

type adminOrReadOnly struct{}

func (adminOrReadOnly) Allow(actor Actor, action Action) bool {
	return action.Safe() || actor.IsAdmin()
}

func (adminOrReadOnly) AllowObject(actor Actor, action Action, _ Object) bool {
	return action.Safe() || actor.IsAdmin()
}

type reviewCommentAccess struct{}

func (reviewCommentAccess) Allow(actor Actor, action Action) bool {
	return action.Safe() || actor.Authenticated()
}

func (reviewCommentAccess) AllowObject(actor Actor, action Action, target Object) bool {
	if action.Safe() {
		return true
	}
	if !actor.Authenticated() {
		return false
	}
	return actor.CanModerate() || target.OwnerID == actor.UserID
}

// # Enforcement

// ErrPermissionDenied is the single denial returned to authenticated actors.
var ErrPermissionDenied = apperr.Forbidden("You do not have permission to perform this action")

// ErrAuthenticationRequired is returned when an anonymous actor is denied.
var ErrAuthenticationRequired = apperr.Unauthorized("Authentication credentials were not provided")

// Authorize evaluates the collection-level check and converts a denial
// into the matching error.
func Authorize(policy Policy, actor Actor, action Action) error {
	if policy.Allow(actor, action) {
		return nil
	}
	return denial(actor)
}

// AuthorizeObject evaluates both levels for a concrete target.
func AuthorizeObject(policy Policy, actor Actor, action Action, target Object) error {
	if policy.Allow(actor, action) && policy.AllowObject(actor, action, target) {
		return nil
	}
	return denial(actor)
}

func denial(actor Actor) error {
	if !actor.Authenticated() {
		return ErrAuthenticationRequired
	}
	return ErrPermissionDenied
}
