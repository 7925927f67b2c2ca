package domain

import "github.com/yungbote/mailgraph/internal/domain/mail"

type (
	Person          = mail.Person
	Email           = mail.Email
	ExchangeEvent   = mail.ExchangeEvent
	ValidationError = mail.ValidationError
)

const (
	PersonLabel = mail.PersonLabel
	EmailLabel  = mail.EmailLabel
	RelSent     = mail.RelSent
	RelReceived = mail.RelReceived
)
