package kafka

import "time"

const (
	TopicNotificationRequest = "payment.notification.req"
	TopicNotificationRetry   = "payment.notification.retry"
	TopicPaymentSettled      = "commerce.payment.settled"
	TopicRequestSuffix       = ".req"
	TopicRetrySuffix         = ".retry"
	TopicDLQSuffix           = ".dlq"

	ProduceTimeout = 3 * time.Second

	RetryHeaderNextAt  = "x-next-at"
	RetryHeaderAttempt = "x-attempt"
	ErrorHeaderKey     = "x-error"
)
