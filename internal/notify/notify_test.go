package notify_test

import (
	"context"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func TestNotifier_SubscriptionEmailsAuthor(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", "chef@example.com", "You have a new subscriber", mock.MatchedBy(func(body string) bool {
		return assert.Contains(t, body, "fan")
	})).Return(nil).Once()

	n := notify.NewNotifier(sender)
	err := n.Handle(context.Background(), domain.Event{
		Type:        domain.EventSubscriptionCreated,
		Username:    "fan",
		AuthorID:    2,
		AuthorEmail: "chef@example.com",
	})
	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestNotifier_IgnoresOtherEvents(t *testing.T) {
	sender := new(MockSender)
	n := notify.NewNotifier(sender)

	assert.NoError(t, n.Handle(context.Background(), domain.Event{Type: domain.EventRecipeCreated, RecipeID: 1}))
	assert.NoError(t, n.Handle(context.Background(), domain.Event{Type: domain.EventSubscriptionCreated}))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, notify.LogSender{}.Send("a@example.com", "subject", "body"))
}
