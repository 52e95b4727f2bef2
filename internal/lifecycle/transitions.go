// Package lifecycle governs how patterns move between statuses and who may
// move them. Every change is checked against a fixed transition table before
// anything is written.
package lifecycle

import (
	"errors"

	"github.com/Veraticus/smsledger/internal/model"
)

// Role identifies the actor requesting a transition.
type Role string

// Roles.
const (
	RoleMaker   Role = "maker"
	RoleChecker Role = "checker"
	RoleSystem  Role = "system"
)

// Lifecycle errors.
var (
	ErrIllegalTransition = errors.New("illegal pattern transition")
	ErrInvalidRegex      = errors.New("invalid regex")
	ErrUnknownStatus     = errors.New("unknown pattern status")
)

type transition struct {
	From model.PatternStatus
	Role Role
	To   model.PatternStatus
}

// transitions lists every permitted move. StatusNone as From means creation.
// Nothing leaves APPROVED.
var transitions = map[transition]bool{
	{model.StatusNone, RoleSystem, model.StatusFailed}: true,

	{model.StatusNone, RoleMaker, model.StatusDraft}:     true,
	{model.StatusDraft, RoleMaker, model.StatusDraft}:    true,
	{model.StatusFailed, RoleMaker, model.StatusDraft}:   true,
	{model.StatusRejected, RoleMaker, model.StatusDraft}: true,

	{model.StatusNone, RoleMaker, model.StatusPending}:     true,
	{model.StatusDraft, RoleMaker, model.StatusPending}:    true,
	{model.StatusFailed, RoleMaker, model.StatusPending}:   true,
	{model.StatusRejected, RoleMaker, model.StatusPending}: true,

	{model.StatusPending, RoleChecker, model.StatusApproved}: true,
	{model.StatusPending, RoleChecker, model.StatusRejected}: true,
}

// CanTransition reports whether role may move a pattern from one status to another.
func CanTransition(from model.PatternStatus, role Role, to model.PatternStatus) bool {
	return transitions[transition{From: from, Role: role, To: to}]
}
