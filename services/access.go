package services

import (
	"solve_litigation_go/models"
)

// Level is the caller classification used by the access gate
type Level int

const (
	LevelAnonymous Level = iota
	LevelUser
	LevelStaff
	LevelAdmin
)

// Operation names a guarded action
type Operation string

const (
	OpCreateCitation Operation = "record.create.citation"
	OpCreateAct      Operation = "record.create.act"
	OpUpdateRecord   Operation = "record.update"
	OpApproveRecord  Operation = "record.approve"
	OpDeleteRecord   Operation = "record.delete"
	OpListPending    Operation = "record.list.pending"
	OpListApproved   Operation = "record.list.approved"
	OpReadRecord     Operation = "record.read"
	OpReadPending    Operation = "record.read.pending"
	OpExportRecords  Operation = "record.export"
	OpImportRecords  Operation = "record.import"
	OpViewStatistics Operation = "statistics.view"
	OpViewAuditLog   Operation = "audit.view"
)

// minimumLevel is the capability table. Delete and approve are admin only;
// listings require staff.
var minimumLevel = map[Operation]Level{
	OpCreateCitation: LevelStaff,
	OpCreateAct:      LevelAdmin,
	OpUpdateRecord:   LevelStaff,
	OpApproveRecord:  LevelAdmin,
	OpDeleteRecord:   LevelAdmin,
	OpListPending:    LevelStaff,
	OpListApproved:   LevelStaff,
	OpReadRecord:     LevelUser,
	OpReadPending:    LevelStaff,
	OpExportRecords:  LevelAdmin,
	OpImportRecords:  LevelAdmin,
	OpViewStatistics: LevelStaff,
	OpViewAuditLog:   LevelAdmin,
}

// LevelOf classifies a user. Guests and lawyers are plain users; nil is anonymous.
func LevelOf(u *models.User) Level {
	if u == nil {
		return LevelAnonymous
	}
	switch u.UserType {
	case models.UserTypeAdmin:
		return LevelAdmin
	case models.UserTypeStaff:
		return LevelStaff
	case models.UserTypeGuest, models.UserTypeLawyer:
		return LevelUser
	default:
		return LevelAnonymous
	}
}

// Can reports whether the actor may perform the operation
func Can(actor *models.User, op Operation) bool {
	min, ok := minimumLevel[op]
	if !ok {
		return false
	}
	return LevelOf(actor) >= min
}

// Authorize returns Unauthenticated for anonymous callers and Forbidden
// for callers whose level is below the operation's minimum
func Authorize(actor *models.User, op Operation) error {
	if Can(actor, op) {
		return nil
	}
	if LevelOf(actor) == LevelAnonymous {
		return NewUnauthenticatedError("Unauthorized")
	}
	return NewForbiddenError()
}
