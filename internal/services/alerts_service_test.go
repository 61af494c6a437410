package services_test

import (
	"context"
	"errors"
	"testing"

	"jobportal_web/internal/email"
	"jobportal_web/internal/models"
	"jobportal_web/internal/services"
	"jobportal_web/pkg/apperrors"
	"jobportal_web/test/fakeapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlertsService(t *testing.T, fb *fakeapi.FakeBackend) (services.AlertsService, *email.NoopProvider) {
	t.Helper()
	tm, err := email.NewTemplateManager()
	require.NoError(t, err)
	mailer := email.NewNoopProvider()
	return services.NewAlertsService(newClient(fb), mailer, tm), mailer
}

func alertIDs(l *services.AlertList) []string {
	ids := make([]string, 0, len(l.Items))
	for _, a := range l.Items {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestAlertList_RemoveAndRestoreKeepsPosition(t *testing.T) {
	list := &services.AlertList{Items: []models.JobAlert{
		{ID: "a1", Keyword: "go"},
		{ID: "a2", Keyword: "rust", Location: "Pune"},
		{ID: "a3", Keyword: "java"},
	}}

	restore, ok := list.Remove("a2")
	require.True(t, ok)
	assert.Equal(t, []string{"a1", "a3"}, alertIDs(list))

	restore()
	assert.Equal(t, []string{"a1", "a2", "a3"}, alertIDs(list))
	assert.Equal(t, "Pune", list.Items[1].Location)
}

func TestAlertList_RemoveUnknown(t *testing.T) {
	list := &services.AlertList{Items: []models.JobAlert{{ID: "a1"}}}

	restore, ok := list.Remove("nope")
	restore()

	assert.False(t, ok)
	assert.Len(t, list.Items, 1)
}

func TestAlerts_DeleteSuccess(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	token := fb.AddUser("Ana", "ana@example.com", fakeapi.FakePassword)
	id1 := fb.AddAlert("ana@example.com", "go", "")
	fb.AddAlert("ana@example.com", "rust", "Pune")
	svc, _ := newAlertsService(t, fb)
	ctx := context.Background()

	list, err := svc.List(ctx, token)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)

	require.NoError(t, svc.Delete(ctx, token, list, id1))

	assert.Len(t, list.Items, 1)
	assert.Len(t, fb.Alerts("ana@example.com"), 1)
}

func TestAlerts_DeleteFailureRestores(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	token := fb.AddUser("Ana", "ana@example.com", fakeapi.FakePassword)
	id1 := fb.AddAlert("ana@example.com", "go", "")
	id2 := fb.AddAlert("ana@example.com", "rust", "Pune")
	fb.FailDeleteAlert.Store(true)
	svc, _ := newAlertsService(t, fb)
	ctx := context.Background()

	list, err := svc.List(ctx, token)
	require.NoError(t, err)

	err = svc.Delete(ctx, token, list, id1)

	require.Error(t, err)
	assert.Equal(t, "Could not delete alert", apperrors.MessageOf(err, ""))
	assert.Equal(t, []string{id1, id2}, alertIDs(list))
}

func TestAlerts_CreateEmptyRejectedLocally(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	token := fb.AddUser("Ana", "ana@example.com", fakeapi.FakePassword)
	svc, mailer := newAlertsService(t, fb)

	_, err := svc.Create(context.Background(), token, "  ", "", nil)

	assert.True(t, errors.Is(err, apperrors.ErrEmptyAlert))
	assert.Empty(t, fb.CallsTo("POST", "/alerts"))
	assert.Empty(t, mailer.Sent())
}

func TestAlerts_CreateSendsConfirmation(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	token := fb.AddUser("Ana", "ana@example.com", fakeapi.FakePassword)
	svc, mailer := newAlertsService(t, fb)

	alert, err := svc.Create(context.Background(), token, "golang", "Pune", &services.AlertNotification{
		Name:      "Ana",
		Email:     "ana@example.com",
		SearchURL: "http://localhost/jobs?keyword=golang&location=Pune",
		AlertsURL: "http://localhost/alerts",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "golang", alert.Keyword)
	assert.Len(t, fb.Alerts("ana@example.com"), 1)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, sent[0].To)
	assert.Contains(t, sent[0].HTMLBody, "golang")
}

func TestAlerts_CreateWithoutNotificationSendsNothing(t *testing.T) {
	fb := fakeapi.NewFakeBackend(t)
	token := fb.AddUser("Ana", "ana@example.com", fakeapi.FakePassword)
	svc, mailer := newAlertsService(t, fb)

	_, err := svc.Create(context.Background(), token, "", "Pune", nil)

	require.NoError(t, err)
	assert.Empty(t, mailer.Sent())
}
