package templates

import (
	"time"

	"github.com/emersion/go-message/mail"

	"git.sr.ht/~hrtools/hrreject/lib/thread"
	"git.sr.ht/~hrtools/hrreject/models"
)

// DefaultSubject stands in for the subject of an application that has none.
const DefaultSubject = "your application"

// DefaultDateFormat is used when no date-format is configured.
const DefaultDateFormat = "02.01.2006"

// Data implements models.TemplateData for one rejection.
type Data struct {
	applicant  *models.Applicant
	original   *models.MessageInfo
	sender     string
	dateFormat string
	now        time.Time
}

// NewData collects what a rejection template needs. original may be nil
// when only the applicant is known. sender is the configured From address;
// its display name signs the letter.
func NewData(applicant *models.Applicant, original *models.MessageInfo,
	sender, dateFormat string,
) *Data {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	return &Data{
		applicant:  applicant,
		original:   original,
		sender:     sender,
		dateFormat: dateFormat,
		now:        time.Now(),
	}
}

func (d *Data) Name() string {
	return d.applicant.Name
}

func (d *Data) Email() string {
	return d.applicant.Email
}

func (d *Data) Position() string {
	return d.applicant.Position
}

// Subject is the original subject without reply and forward markers.
func (d *Data) Subject() string {
	subject := DefaultSubject
	if d.original != nil && d.original.Subject != "" {
		subject = d.original.Subject
	}
	return thread.Normalize(subject)
}

func (d *Data) Received() time.Time {
	if d.original == nil {
		return time.Time{}
	}
	return d.original.Date
}

func (d *Data) ReceivedDate() string {
	t := d.Received()
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(d.dateFormat)
}

func (d *Data) Sender() string {
	addr, err := mail.ParseAddress(d.sender)
	if err != nil {
		return d.sender
	}
	if addr.Name != "" {
		return addr.Name
	}
	return addr.Address
}

func (d *Data) Date() time.Time {
	return d.now
}

// DummyData provides dummy data to test template validity
func DummyData() *Data {
	return NewData(&models.Applicant{
		Name:     "Max Mustermann",
		Email:    "max@example.com",
		Position: "Software Engineer",
	}, &models.MessageInfo{
		Subject: "Bewerbung als Software Engineer",
		Date:    time.Now(),
	}, "HR <hr@example.com>", "")
}
