package session

import (
	"errors"
	"testing"
	"time"

	"github.com/darasa/backoffice/core/meeting"
)

func testSession(status Status) Session {
	now := time.Now().UTC()
	return Session{
		ID:              "ses-1",
		StudentID:       "stu-1",
		TutorID:         "tut-1",
		Subject:         "Algebra",
		ScheduledAt:     now.Add(48 * time.Hour),
		DurationMinutes: 60,
		Status:          status,
		Price:           299,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestAssignMeetingLink(t *testing.T) {
	tests := []struct {
		name         string
		status       Status
		link         string
		wantLink     string
		wantPlatform string
		wantErr      error
	}{
		{
			name: "meet link confirms session", status: StatusRequested,
			link:     "https://meet.google.com/abc-defg-hij",
			wantLink: "https://meet.google.com/abc-defg-hij", wantPlatform: string(meeting.PlatformGoogleMeet),
		},
		{
			name: "bare code is expanded", status: StatusRequested,
			link:     "abc-defg-hij",
			wantLink: "https://meet.google.com/abc-defg-hij", wantPlatform: string(meeting.PlatformGoogleMeet),
		},
		{
			name: "reassign on confirmed session", status: StatusConfirmed,
			link:     "https://zoom.us/j/1234567890",
			wantLink: "https://zoom.us/j/1234567890", wantPlatform: string(meeting.PlatformZoom),
		},
		{
			name: "reassign while in progress", status: StatusInProgress,
			link:     "https://teams.live.com/meet/123",
			wantLink: "https://teams.live.com/meet/123", wantPlatform: string(meeting.PlatformTeams),
		},
		{
			name: "rejected link", status: StatusRequested, link: "http://zoom.us/j/1234567890",
			wantErr: &InvalidLinkError{Category: meeting.CategorySecurity},
		},
		{
			name: "completed session", status: StatusCompleted, link: "https://meet.google.com/abc-defg-hij",
			wantErr: &InvalidTransitionError{From: StatusCompleted, To: StatusConfirmed},
		},
		{
			name: "cancelled session", status: StatusCancelled, link: "https://meet.google.com/abc-defg-hij",
			wantErr: &InvalidTransitionError{From: StatusCancelled, To: StatusConfirmed},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(tt.status)
			p, err := AssignMeetingLink(s, tt.link)

			if tt.wantErr != nil {
				checkWorkflowErr(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("AssignMeetingLink() error = %v", err)
			}
			if p.Status == nil || *p.Status != StatusConfirmed {
				t.Errorf("AssignMeetingLink() status patch = %v, want %v", p.Status, StatusConfirmed)
			}
			if p.MeetingLink == nil || *p.MeetingLink != tt.wantLink {
				t.Errorf("AssignMeetingLink() link patch = %v, want %q", p.MeetingLink, tt.wantLink)
			}
			if p.MeetingPlatform == nil || *p.MeetingPlatform != tt.wantPlatform {
				t.Errorf("AssignMeetingLink() platform patch = %v, want %q", p.MeetingPlatform, tt.wantPlatform)
			}

			got := p.Apply(s)
			if got.Status != StatusConfirmed || got.MeetingLink.String != tt.wantLink {
				t.Errorf("Apply() = status %v link %q", got.Status, got.MeetingLink.String)
			}
			if got.Version != s.Version+1 {
				t.Errorf("Apply() version = %d, want %d", got.Version, s.Version+1)
			}
		})
	}
}

func TestAssignMeetingLink_errCarriesClassification(t *testing.T) {
	_, err := AssignMeetingLink(testSession(StatusRequested), "https://zoom.us/")

	var linkErr *InvalidLinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("AssignMeetingLink() error = %T, want *InvalidLinkError", err)
	}
	if linkErr.Category != meeting.CategoryZoomFormat {
		t.Errorf("InvalidLinkError.Category = %v, want %v", linkErr.Category, meeting.CategoryZoomFormat)
	}
	if linkErr.Message == "" {
		t.Error("InvalidLinkError.Message is empty")
	}
}

func TestSetStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{name: "requested to confirmed", from: StatusRequested, to: StatusConfirmed},
		{name: "requested to cancelled", from: StatusRequested, to: StatusCancelled},
		{name: "confirmed to in-progress", from: StatusConfirmed, to: StatusInProgress},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled},
		{name: "in-progress to completed", from: StatusInProgress, to: StatusCompleted},
		{name: "in-progress to cancelled", from: StatusInProgress, to: StatusCancelled},
		{name: "requested to in-progress", from: StatusRequested, to: StatusInProgress, wantErr: true},
		{name: "requested to completed", from: StatusRequested, to: StatusCompleted, wantErr: true},
		{name: "confirmed to requested", from: StatusConfirmed, to: StatusRequested, wantErr: true},
		{name: "confirmed to completed", from: StatusConfirmed, to: StatusCompleted, wantErr: true},
		{name: "unknown status", from: StatusRequested, to: Status("paused"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := SetStatus(testSession(tt.from), tt.to, "")
			if tt.wantErr {
				var trErr *InvalidTransitionError
				if !errors.As(err, &trErr) {
					t.Fatalf("SetStatus() error = %v, want *InvalidTransitionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetStatus() error = %v", err)
			}
			if p.Status == nil || *p.Status != tt.to {
				t.Errorf("SetStatus() status patch = %v, want %v", p.Status, tt.to)
			}
		})
	}
}

// no transition is defined out of a terminal state, whatever the target.
func TestSetStatus_terminalStates(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		for _, to := range AllStatuses {
			if _, err := SetStatus(testSession(from), to, ""); err == nil {
				t.Errorf("SetStatus(%v -> %v) accepted, want InvalidTransitionError", from, to)
			}
		}
	}
}

func TestRequestCancellation(t *testing.T) {
	s := testSession(StatusConfirmed)

	p, err := RequestCancellation(s, "tutor unavailable", TieredPolicy)
	if err != nil {
		t.Fatalf("RequestCancellation() error = %v", err)
	}
	c := p.Cancellation
	if c == nil {
		t.Fatal("RequestCancellation() patch has no cancellation case")
	}
	if c.Status != CancellationPending {
		t.Errorf("case status = %v, want %v", c.Status, CancellationPending)
	}
	if c.Reason != "tutor unavailable" {
		t.Errorf("case reason = %q", c.Reason)
	}
	if c.CalculatedPenalty+c.CalculatedRefund != s.EffectivePrice() {
		t.Errorf("settlement split %d + %d != price %d", c.CalculatedPenalty, c.CalculatedRefund, s.EffectivePrice())
	}
	// the request itself never changes the session status
	if p.Status != nil {
		t.Errorf("RequestCancellation() patched status to %v", *p.Status)
	}

	// a second request while one is pending is rejected
	s = p.Apply(s)
	if _, err = RequestCancellation(s, "changed my mind", TieredPolicy); err == nil {
		t.Error("RequestCancellation() accepted with a pending case")
	} else {
		var stateErr *InvalidCancellationStateError
		if !errors.As(err, &stateErr) {
			t.Errorf("RequestCancellation() error = %T, want *InvalidCancellationStateError", err)
		}
	}
}

func TestRequestCancellation_terminalSession(t *testing.T) {
	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		if _, err := RequestCancellation(testSession(status), "too late", TieredPolicy); err == nil {
			t.Errorf("RequestCancellation() accepted on %v session", status)
		}
	}
}

func TestAdjudicateCancellation(t *testing.T) {
	pending := func(t *testing.T) Session {
		s := testSession(StatusConfirmed)
		p, err := RequestCancellation(s, "sick", TieredPolicy)
		if err != nil {
			t.Fatalf("RequestCancellation() error = %v", err)
		}
		return p.Apply(s)
	}

	t.Run("approved with override", func(t *testing.T) {
		s := pending(t)
		p, err := AdjudicateCancellation(s, DecisionApproved, 50, "late notice")
		if err != nil {
			t.Fatalf("AdjudicateCancellation() error = %v", err)
		}

		c := p.Cancellation
		if c.Status != CancellationApproved {
			t.Errorf("case status = %v", c.Status)
		}
		if c.FinalPenalty.Int != 50 || c.FinalRefund.Int != 249 {
			t.Errorf("settlement = %d/%d, want 50/249", c.FinalPenalty.Int, c.FinalRefund.Int)
		}
		if c.FinalPenalty.Int+c.FinalRefund.Int != s.EffectivePrice() {
			t.Errorf("final split does not cover the price")
		}
		if !c.ProcessedAt.Valid {
			t.Error("ProcessedAt not stamped")
		}
		if c.AdminNotes.String != "late notice" {
			t.Errorf("AdminNotes = %q", c.AdminNotes.String)
		}
		if p.Status == nil || *p.Status != StatusCancelled {
			t.Errorf("approval must cancel the session, got %v", p.Status)
		}
	})

	t.Run("full refund shortcut", func(t *testing.T) {
		s := pending(t)
		p, err := AdjudicateCancellation(s, DecisionApproved, 0, "")
		if err != nil {
			t.Fatalf("AdjudicateCancellation() error = %v", err)
		}
		if p.Cancellation.FinalPenalty.Int != 0 || p.Cancellation.FinalRefund.Int != 299 {
			t.Errorf("settlement = %d/%d, want 0/299", p.Cancellation.FinalPenalty.Int, p.Cancellation.FinalRefund.Int)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		s := pending(t)
		p, err := AdjudicateCancellation(s, DecisionRejected, 0, "no grounds")
		if err != nil {
			t.Fatalf("AdjudicateCancellation() error = %v", err)
		}

		c := p.Cancellation
		if c.Status != CancellationRejected {
			t.Errorf("case status = %v", c.Status)
		}
		if c.FinalPenalty.Int != 0 || c.FinalRefund.Int != 299 {
			t.Errorf("settlement = %d/%d, want 0/299", c.FinalPenalty.Int, c.FinalRefund.Int)
		}
		// rejection leaves the session status alone
		if p.Status != nil {
			t.Errorf("rejection patched status to %v", *p.Status)
		}
	})

	t.Run("penalty over price", func(t *testing.T) {
		s := pending(t)
		_, err := AdjudicateCancellation(s, DecisionApproved, 300, "")
		var penErr *InvalidPenaltyError
		if !errors.As(err, &penErr) {
			t.Fatalf("AdjudicateCancellation() error = %v, want *InvalidPenaltyError", err)
		}
	})

	t.Run("negative penalty", func(t *testing.T) {
		s := pending(t)
		if _, err := AdjudicateCancellation(s, DecisionApproved, -1, ""); err == nil {
			t.Error("AdjudicateCancellation() accepted a negative penalty")
		}
	})

	t.Run("no pending case", func(t *testing.T) {
		s := testSession(StatusConfirmed)
		_, err := AdjudicateCancellation(s, DecisionApproved, 0, "")
		var stateErr *InvalidCancellationStateError
		if !errors.As(err, &stateErr) {
			t.Fatalf("AdjudicateCancellation() error = %v, want *InvalidCancellationStateError", err)
		}
	})

	t.Run("already settled case", func(t *testing.T) {
		s := pending(t)
		p, err := AdjudicateCancellation(s, DecisionRejected, 0, "")
		if err != nil {
			t.Fatalf("AdjudicateCancellation() error = %v", err)
		}
		s = p.Apply(s)
		if _, err = AdjudicateCancellation(s, DecisionApproved, 0, ""); err == nil {
			t.Error("AdjudicateCancellation() settled the same case twice")
		}
	})

	t.Run("unknown decision", func(t *testing.T) {
		s := pending(t)
		if _, err := AdjudicateCancellation(s, Decision("maybe"), 0, ""); err == nil {
			t.Error("AdjudicateCancellation() accepted an unknown decision")
		}
	})
}

func checkWorkflowErr(t *testing.T, got, want error) {
	t.Helper()
	if got == nil {
		t.Fatalf("expected error %T, got nil", want)
	}
	switch want.(type) {
	case *InvalidLinkError:
		var e *InvalidLinkError
		if !errors.As(got, &e) {
			t.Fatalf("error = %T, want *InvalidLinkError", got)
		}
		if wantE := want.(*InvalidLinkError); e.Category != wantE.Category {
			t.Errorf("InvalidLinkError.Category = %v, want %v", e.Category, wantE.Category)
		}
	case *InvalidTransitionError:
		var e *InvalidTransitionError
		if !errors.As(got, &e) {
			t.Fatalf("error = %T, want *InvalidTransitionError", got)
		}
	}
}
