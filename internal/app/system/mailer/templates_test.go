package mailer

import (
	"strings"
	"testing"
)

func TestBuildDigestEmail(t *testing.T) {
	email := BuildDigestEmail(DigestEmailData{
		SiteName:    "AgoraHub",
		GroupName:   "Garden Club",
		GroupURL:    "https://example.com/groups/abc",
		TotalUnread: 7,
		Items: []DigestEmailItem{
			{Name: "Compost tips", URL: "https://example.com/groups/abc/discussions/1", Unread: 4},
			{Name: "Seed swap", URL: "https://example.com/groups/abc/discussions/2", Unread: 3},
		},
	})

	if !strings.Contains(email.Subject, "Garden Club") {
		t.Errorf("subject %q must name the group", email.Subject)
	}

	for _, want := range []string{"7 unread", "Garden Club", "Compost tips", "Seed swap", "https://example.com/groups/abc"} {
		if !strings.Contains(email.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
	}
	for _, want := range []string{"Garden Club", "Compost tips", "Seed swap", "AgoraHub"} {
		if !strings.Contains(email.HTMLBody, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}

	if email.To != "" {
		t.Errorf("To must be left for the caller, got %q", email.To)
	}
}

func TestBuildDigestEmailEscapesHTML(t *testing.T) {
	email := BuildDigestEmail(DigestEmailData{
		SiteName:    "AgoraHub",
		GroupName:   "Pranksters",
		TotalUnread: 1,
		Items: []DigestEmailItem{
			{Name: `<script>alert("x")</script>`, URL: "https://example.com/d/1", Unread: 1},
		},
	})

	if strings.Contains(email.HTMLBody, `<script>alert`) {
		t.Errorf("discussion names must be escaped in the HTML body")
	}
}

func TestBuildVerificationEmail(t *testing.T) {
	email := BuildVerificationEmail(VerificationEmailData{
		SiteName:   "AgoraHub",
		VerifyLink: "https://example.com/verify?token=abc123",
	})

	if !strings.Contains(email.Subject, "AgoraHub") {
		t.Errorf("subject %q must name the site", email.Subject)
	}
	if !strings.Contains(email.TextBody, "https://example.com/verify?token=abc123") {
		t.Errorf("text body must carry the verification link")
	}
	if email.To != "" {
		t.Errorf("To must be left for the caller, got %q", email.To)
	}
}
