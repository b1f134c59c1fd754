package domain

import (
	"testing"
	"time"
)

func TestNormalizeHumanName(t *testing.T) {
	t.Parallel()

	if got := NormalizeHumanName("  Chief   Officer "); got != "Chief Officer" {
		t.Fatalf("got=%q", got)
	}
}

func TestNormalizeOptionalText_BlankIsNil(t *testing.T) {
	t.Parallel()

	blank := "   "
	if got := NormalizeOptionalText(&blank); got != nil {
		t.Fatalf("got=%q, want nil", *got)
	}
	v := " Maersk  Line "
	got := NormalizeOptionalText(&v)
	if got == nil || *got != "Maersk Line" {
		t.Fatalf("got=%v", got)
	}
}

func TestDateOf_TruncatesToUTCDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+5", 5*60*60)
	in := time.Date(2024, 3, 1, 2, 30, 0, 0, loc) // 2024-02-29 21:30 UTC
	got := DateOf(in)
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestUserProfile_Summary_RedactsContact(t *testing.T) {
	t.Parallel()

	phone := "+100"
	u := UserProfile{ID: "u1", Name: "Ana", Email: "ana@example.com", MobileNumber: &phone}
	s := u.Summary()
	if s.Email != nil || s.MobileNumber != nil {
		t.Fatalf("expected contact redacted, got %+v", s)
	}

	u.ShowEmailToOthers = true
	u.ShowPhoneToOthers = true
	s = u.Summary()
	if s.Email == nil || *s.Email != "ana@example.com" || s.MobileNumber == nil || *s.MobileNumber != "+100" {
		t.Fatalf("expected contact shared, got %+v", s)
	}
}
