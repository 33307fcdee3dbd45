package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"campaign-platform/bootstrap"
	"campaign-platform/database/dbtest"
	"campaign-platform/domain"
	"campaign-platform/modules/email/repository"
	"campaign-platform/modules/email/usecase"
	"campaign-platform/pkg/email"
	"campaign-platform/pkg/log"

	"github.com/stretchr/testify/require"
)

func newEmailUsecase(t *testing.T, client email.Client) (domain.EmailUsecase, *repository.EmailLogRepository) {
	t.Helper()
	db := dbtest.NewTestDB(t, &domain.EmailLog{})
	repo := repository.NewEmailLogRepository(db)
	templates, err := bootstrap.EmailTemplates()
	require.NoError(t, err)
	logger := log.NewNopLogger()
	return usecase.NewEmailUsecase(repo, templates, client, "mock", usecase.NewTemplateRenderer(logger), logger), repo
}

func confirmationData() map[string]interface{} {
	return map[string]interface{}{
		"app_name":           "Campaign Platform",
		"user_name":          "Kim <script>",
		"user_email":         "kim@example.com",
		"role_label":         "brand admin",
		"confirmation_url":   "https://app.example.com/confirm?token=abc",
		"confirmation_token": "abc",
	}
}

func TestSendTemplate_RendersAndLogsSuccess(t *testing.T) {
	client := email.NewMockClient(&email.Config{DefaultFrom: "noreply@example.com"})
	uc, repo := newEmailUsecase(t, client)
	ctx := log.ContextWith(context.Background(), log.CtxKeyRequestID, "req-1")

	emailLog, err := uc.SendTemplate(ctx, &domain.SendTemplateEmailRequest{
		To:   "kim@example.com",
		Code: domain.EmailCodeConfirmation,
		Data: confirmationData(),
	})
	require.NoError(t, err)
	require.Equal(t, domain.EmailStatusSuccess, emailLog.Status)
	require.Equal(t, "req-1", emailLog.RequestID)
	require.NotZero(t, emailLog.SentAt)

	sent := client.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "Confirm your email address - Campaign Platform", sent[0].Subject)
	require.Contains(t, sent[0].HTML, "https://app.example.com/confirm?token=abc")
	require.NotContains(t, sent[0].HTML, "<script>")

	success := domain.EmailStatusSuccess
	count, err := repo.Count(ctx, &domain.EmailLogFilter{Status: &success})
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestSendTemplate_FailedSendIsLogged(t *testing.T) {
	client := email.NewMockClient(&email.Config{DefaultFrom: "noreply@example.com"})
	client.FailWith = errors.New("smtp down")
	uc, repo := newEmailUsecase(t, client)
	ctx := context.Background()

	emailLog, err := uc.SendTemplate(ctx, &domain.SendTemplateEmailRequest{
		To:   "kim@example.com",
		Code: domain.EmailCodeConfirmation,
		Data: confirmationData(),
	})
	require.ErrorIs(t, err, domain.ErrEmailSendFailed)
	require.NotNil(t, emailLog)
	require.True(t, strings.Contains(emailLog.ErrorMsg, "smtp down"))

	failed := domain.EmailStatusFailed
	logs, err := repo.FindMany(ctx, &domain.EmailLogFilter{Status: &failed}, nil)
	require.NoError(t, err)
	require.Len(t, logs, 1)
}

func TestSendTemplate_MissingTemplateDataFails(t *testing.T) {
	client := email.NewMockClient(&email.Config{DefaultFrom: "noreply@example.com"})
	uc, _ := newEmailUsecase(t, client)

	_, err := uc.SendTemplate(context.Background(), &domain.SendTemplateEmailRequest{
		To:   "kim@example.com",
		Code: domain.EmailCodeConfirmation,
		Data: map[string]interface{}{"app_name": "x"},
	})
	require.ErrorIs(t, err, domain.ErrEmailSendFailed)
	require.Empty(t, client.Sent())
}

func TestSendTemplate_UnknownTemplate(t *testing.T) {
	uc, _ := newEmailUsecase(t, email.NewMockClient(&email.Config{}))
	_, err := uc.SendTemplate(context.Background(), &domain.SendTemplateEmailRequest{To: "a@b.co", Code: "nope"})
	require.ErrorIs(t, err, domain.ErrEmailTemplateNotFound)
}
