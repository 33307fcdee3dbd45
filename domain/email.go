package domain

import (
	"context"
	"net/http"
)

/*****************************
*        Email errors        *
*****************************/
var (
	ErrEmailSendFailed = &DetailedError{
		IDField:         "EMAIL_SEND_FAILED",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Failed to send email",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrEmailTemplateNotFound = &DetailedError{
		IDField:         "EMAIL_TEMPLATE_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Email template not found",
		StatusCodeField: http.StatusInternalServerError,
	}
)

/***************************************
*       Email entities and types       *
***************************************/
type EmailCode string

const (
	EmailCodeConfirmation EmailCode = "confirmation"
	EmailCodeWelcome      EmailCode = "welcome"
)

type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSuccess EmailStatus = "success"
	EmailStatusFailed  EmailStatus = "failed"
)

// EmailLog records every outbound email attempt.
type EmailLog struct {
	SQLModel
	Recipient string      `json:"recipient" gorm:"type:varchar(255);not null;index"`
	Subject   string      `json:"subject" gorm:"type:varchar(255)"`
	Template  EmailCode   `json:"template" gorm:"type:varchar(32);index"`
	Provider  string      `json:"provider" gorm:"type:varchar(32)"`
	Status    EmailStatus `json:"status" gorm:"type:varchar(16)"`
	ErrorMsg  string      `json:"error_msg,omitempty" gorm:"type:text"`
	RequestID string      `json:"request_id,omitempty" gorm:"type:varchar(64)"`
	SentAt    int64       `json:"sent_at"`
}

type EmailLogFilter struct {
	Recipient  *string      `json:"recipient,omitempty"`
	Template   *EmailCode   `json:"template,omitempty"`
	Status     *EmailStatus `json:"status,omitempty"`
	SentAfter  *int64       `json:"sent_after,omitempty"`
	SentBefore *int64       `json:"sent_before,omitempty"`
}

/*************************************
*  Email usecase interfaces and types *
**************************************/
type EmailUsecase interface {
	SendTemplate(ctx context.Context, req *SendTemplateEmailRequest) (*EmailLog, error)
}

type SendTemplateEmailRequest struct {
	To   string
	Code EmailCode
	Data map[string]interface{}
}

// EmailTemplate is a rendered-at-send-time template. Templates ship with the
// binary and are not stored.
type EmailTemplate struct {
	Code    EmailCode
	Name    string
	Subject string
	Content string
}
