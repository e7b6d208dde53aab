// internal/app/system/mailer/digestsender.go
package mailer

import (
	"context"
	"fmt"

	"github.com/agorahub/agorahub/internal/app/system/digest"
)

// DigestSender adapts the Mailer to the digest scheduler's Sender
// contract. Failures are reported to the scheduler as-is; retry policy
// lives there (at-least-once across runs), not here.
type DigestSender struct {
	mailer   *Mailer
	siteName string
	baseURL  string
}

func NewDigestSender(m *Mailer, siteName, baseURL string) *DigestSender {
	return &DigestSender{mailer: m, siteName: siteName, baseURL: baseURL}
}

// Send builds and delivers the digest email for one membership.
func (s *DigestSender) Send(ctx context.Context, d digest.Digest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := DigestEmailData{
		SiteName:    s.siteName,
		GroupName:   d.GroupName,
		GroupURL:    fmt.Sprintf("%s/groups/%s", s.baseURL, d.GroupID.Hex()),
		TotalUnread: d.TotalUnread,
		Items:       make([]DigestEmailItem, 0, len(d.Entries)),
	}
	for _, e := range d.Entries {
		data.Items = append(data.Items, DigestEmailItem{
			Name:   e.Discussion.Name,
			URL:    fmt.Sprintf("%s/groups/%s/discussions/%s", s.baseURL, d.GroupID.Hex(), e.Discussion.ID.Hex()),
			Unread: e.Unread,
		})
	}

	email := BuildDigestEmail(data)
	email.To = d.UserEmail
	return s.mailer.Send(email)
}
