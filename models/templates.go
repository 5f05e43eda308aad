package models

import (
	"time"
)

// TemplateData is what rejection templates can refer to.
type TemplateData interface {
	Name() string
	Email() string
	Position() string
	Subject() string
	Received() time.Time
	// ReceivedDate is Received in the configured date format, or empty
	// when the date is unknown.
	ReceivedDate() string
	Sender() string
	Date() time.Time
}
