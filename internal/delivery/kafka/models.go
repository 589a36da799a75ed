package kafka

import (
	"time"

	"github.com/azizikri/course-commerce/internal/domain"
)

const SchemaVersion = 1

// NotificationMessage is the record value on the notification topics.
type NotificationMessage struct {
	SchemaVersion int                 `json:"schema_version"`
	ReceivedAt    time.Time           `json:"received_at"`
	Notification  domain.Notification `json:"notification"`
}

// SettledMessage is the record value on the settlement topic.
type SettledMessage struct {
	SchemaVersion int `json:"schema_version"`
	domain.PaymentSettled
}
