package domain

// Visibility controls who may read a published entry.
type Visibility string

const (
	VisibilityPublic Visibility = "PUBLIC"
	VisibilityMember Visibility = "MEMBER"
)

func (v Visibility) String() string { return string(v) }

func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityMember:
		return true
	}
	return false
}

// RowStatus is the lifecycle state of a sentence row. Rows are never deleted;
// a row that no longer appears in the entry's text is deactivated.
type RowStatus string

const (
	RowStatusActive      RowStatus = "ACTIVE"
	RowStatusDeactivated RowStatus = "DEACTIVATED"
)

func (s RowStatus) String() string { return string(s) }

func (s RowStatus) IsValid() bool {
	switch s {
	case RowStatusActive, RowStatusDeactivated:
		return true
	}
	return false
}

// FeedbackKind is a corrector's judgment on one sentence row.
type FeedbackKind string

const (
	FeedbackKindPerfect   FeedbackKind = "PERFECT"
	FeedbackKindCorrected FeedbackKind = "CORRECTED"
)

func (k FeedbackKind) String() string { return string(k) }

func (k FeedbackKind) IsValid() bool {
	switch k {
	case FeedbackKindPerfect, FeedbackKindCorrected:
		return true
	}
	return false
}

// FeedbackStatus is the lifecycle state of a feedback record.
// Withdrawn feedback is kept for history.
type FeedbackStatus string

const (
	FeedbackStatusActive    FeedbackStatus = "ACTIVE"
	FeedbackStatusWithdrawn FeedbackStatus = "WITHDRAWN"
)

func (s FeedbackStatus) String() string { return string(s) }

func (s FeedbackStatus) IsValid() bool {
	switch s {
	case FeedbackStatusActive, FeedbackStatusWithdrawn:
		return true
	}
	return false
}

// CorrectionAction is a single instruction inside a batched corrections request.
type CorrectionAction string

const (
	CorrectionActionPerfect   CorrectionAction = "perfect"
	CorrectionActionCorrected CorrectionAction = "corrected"
	CorrectionActionDelete    CorrectionAction = "delete"
)

func (a CorrectionAction) String() string { return string(a) }

func (a CorrectionAction) IsValid() bool {
	switch a {
	case CorrectionActionPerfect, CorrectionActionCorrected, CorrectionActionDelete:
		return true
	}
	return false
}

// NotificationType identifies an event sent to the notification collaborator.
type NotificationType string

const (
	NotificationNewCorrection    NotificationType = "new_correction"
	NotificationUpdateCorrection NotificationType = "update_correction"
	NotificationNewComment       NotificationType = "new_comment"
)

func (n NotificationType) String() string { return string(n) }

func (n NotificationType) IsValid() bool {
	switch n {
	case NotificationNewCorrection, NotificationUpdateCorrection, NotificationNewComment:
		return true
	}
	return false
}

// EntityType identifies the kind of domain entity (used in audit logs).
type EntityType string

const (
	EntityTypeEntry    EntityType = "ENTRY"
	EntityTypeFeedback EntityType = "FEEDBACK"
	EntityTypeLedger   EntityType = "LEDGER"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeEntry, EntityTypeFeedback, EntityTypeLedger:
		return true
	}
	return false
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}
