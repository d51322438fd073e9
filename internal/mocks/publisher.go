package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messenger-service/internal/rabbitmq"
	"messenger-service/internal/telemetry"
)

// PublisherMock records published audit envelopes.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

// AuditAction matches an audit envelope by its payload action.
func AuditAction(action string) any {
	return mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.Payload.Action == action
	})
}

var _ telemetry.Publisher = (*PublisherMock)(nil)
var _ rabbitmq.Publisher = (*PublisherMock)(nil)
