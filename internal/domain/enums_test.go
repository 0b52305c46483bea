package domain

import "testing"

func TestRowStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status RowStatus
		want   bool
	}{
		{RowStatusActive, true},
		{RowStatusDeactivated, true},
		{RowStatus("DELETED"), false},
		{RowStatus(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("RowStatus(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestFeedbackKind_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind FeedbackKind
		want bool
	}{
		{FeedbackKindPerfect, true},
		{FeedbackKindCorrected, true},
		{FeedbackKind("perfect"), false},
		{FeedbackKind(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			if got := tt.kind.IsValid(); got != tt.want {
				t.Errorf("FeedbackKind(%q).IsValid() = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestCorrectionAction_IsValid(t *testing.T) {
	t.Parallel()

	for _, a := range []CorrectionAction{CorrectionActionPerfect, CorrectionActionCorrected, CorrectionActionDelete} {
		if !a.IsValid() {
			t.Errorf("CorrectionAction(%q).IsValid() = false", a)
		}
	}
	if CorrectionAction("PERFECT").IsValid() {
		t.Error("upper-case action should be invalid")
	}
}

func TestVisibility_String(t *testing.T) {
	t.Parallel()
	if got := VisibilityMember.String(); got != "MEMBER" {
		t.Errorf("got %q, want MEMBER", got)
	}
}

func TestNotificationType_IsValid(t *testing.T) {
	t.Parallel()

	if !NotificationUpdateCorrection.IsValid() {
		t.Error("update_correction should be valid")
	}
	if NotificationType("new_follower").IsValid() {
		t.Error("new_follower is not emitted by this service")
	}
}
