package view_test

import (
	"testing"

	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/models"
)

func TestEarnedDate(t *testing.T) {
	tests := []struct {
		name     string
		in       *string
		want     string
		wantShow bool
	}{
		{name: "timestamp", in: models.StringPtr("2024-03-01T10:00:00"), want: "Earned on: 2024-03-01", wantShow: true},
		{name: "date only", in: models.StringPtr("2024-03-01"), want: "Earned on: 2024-03-01", wantShow: true},
		{name: "empty", in: models.StringPtr(""), want: "", wantShow: false},
		{name: "time only", in: models.StringPtr("T10:00:00"), want: "", wantShow: false},
		{name: "nil", in: nil, want: "", wantShow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, show := view.EarnedDate(tt.in)
			if got != tt.want || show != tt.wantShow {
				t.Fatalf("EarnedDate() = (%q, %v), want (%q, %v)", got, show, tt.want, tt.wantShow)
			}
		})
	}
}

func TestListStateOf(t *testing.T) {
	if view.ListStateOf(0) != view.EmptyList {
		t.Fatalf("0 items should be EmptyList")
	}
	if view.ListStateOf(3) != view.Populated {
		t.Fatalf("3 items should be Populated")
	}
	for _, s := range []view.ListState{view.EmptyList, view.Populated} {
		if s.ShowList() == s.ShowEmptyIndicator() {
			t.Fatalf("%v: list and empty indicator must not share visibility", s)
		}
	}
}

func TestHeaderOf(t *testing.T) {
	h := view.HeaderOf(models.User{UserID: 1, Username: "ada"})
	if h.DisplayName != "ada" || h.Handle != "@ada" || h.Bio != "Bio: Not set" {
		t.Fatalf("unexpected header: %+v", h)
	}

	h = view.HeaderOf(models.User{UserID: 1, Username: "ada", FullName: models.StringPtr("Ada Lovelace"), ProfileBio: models.StringPtr("Math")})
	if h.DisplayName != "Ada Lovelace" || h.Bio != "Bio: Math" {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestBadgeRowOf(t *testing.T) {
	row := view.BadgeRowOf(models.UserBadge{BadgeID: 3, BadgeName: "Gopher", EarnedDate: models.StringPtr("2024-01-02T00:00:00")})
	if row.Share.Details != "Digital Badge earned." || row.Share.URL != nil {
		t.Fatalf("unexpected share request: %+v", row.Share)
	}
	if !row.ShowEarned || row.Earned != "Earned on: 2024-01-02" {
		t.Fatalf("unexpected earned line: %+v", row)
	}

	row = view.BadgeRowOf(models.UserBadge{BadgeID: 3, BadgeName: "Gopher", Description: models.StringPtr("Wrote Go")})
	if row.Share.Details != "Wrote Go" || row.ShowEarned {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestCertRowOf(t *testing.T) {
	tests := []struct {
		name     string
		cert     models.Certification
		wantShow bool
		want     string
	}{
		{name: "completed with date", cert: models.Certification{Status: models.CertStatusCompleted, CompletionDate: models.StringPtr("2024-05-06T08:00:00")}, wantShow: true, want: "Completed on: 2024-05-06"},
		{name: "completed without date", cert: models.Certification{Status: models.CertStatusCompleted}},
		{name: "in progress with date", cert: models.Certification{Status: models.CertStatusInProgress, CompletionDate: models.StringPtr("2024-05-06")}},
		{name: "unknown status", cert: models.Certification{Status: "completed", CompletionDate: models.StringPtr("2024-05-06")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := view.CertRowOf(tt.cert)
			if row.ShowCompletion != tt.wantShow || row.Completed != tt.want {
				t.Fatalf("CertRowOf() = %+v", row)
			}
			if row.Status != "Status: "+tt.cert.Status {
				t.Fatalf("unexpected status line %q", row.Status)
			}
		})
	}
}

func TestRowsNeverNil(t *testing.T) {
	if view.BadgeRows(nil) == nil || view.CertRows(nil) == nil || view.CatalogRows(nil) == nil {
		t.Fatalf("row helpers must return non-nil slices")
	}
}
