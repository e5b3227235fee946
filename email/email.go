package email

import (
	"fmt"
	"strings"

	"github.com/motorhall/motorhall/config"
	"github.com/motorhall/motorhall/schema"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Sender Sender.
type Sender interface {
	Send(from string, to []string, subject, body, replyTo string) error
}

type SMTPSender struct {
	Config config.SMTPConfig
}

type MockSender struct {
	Body string
}

func (s *SMTPSender) Send(from string, to []string, subject, body, replyTo string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.SetHeader("Reply-To", replyTo)

	d := gomail.NewDialer(s.Config.Hostname, s.Config.Port, s.Config.Username, s.Config.Password)

	return d.DialAndSend(m)
}

func (s *MockSender) Send(from string, to []string, subject, body, _ string) error {
	logrus.Debugf("Subject: %s\nFrom: %s\nTo: %s\n%s", subject, from, strings.Join(to, ", "), body)
	s.Body = body

	return nil
}

// IntakeNotice notifies staff about a new consignment or direct-sale request.
type IntakeNotice struct {
	Config config.IntakeNoticeConfig
	Sender Sender
}

func (s *IntakeNotice) Notify(row *schema.ConsignmentRow) error {
	if len(s.Config.To) == 0 {
		return nil
	}

	body := fmt.Sprintf(
		"New %s request #%d\n\nVehicle: %s %s %d, %d km\nRequested price: %s\n\nOwner: %s\nPhone: %s\nE-mail: %s\n\n%s",
		row.Kind, row.ID,
		row.Make, row.Model, row.Year, row.Mileage,
		row.RequestedPrice.String(),
		row.OwnerName, row.OwnerPhone, row.OwnerEmail,
		row.ExtraInfo,
	)

	return s.Sender.Send(s.Config.From, s.Config.To, s.Config.Subject, body, row.OwnerEmail)
}
