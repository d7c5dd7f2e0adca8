package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"skillbridge/internal/service/realtime"
)

type Hub struct {
	mock.Mock
}

func (m *Hub) Publish(ctx context.Context, event realtime.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *Hub) Subscribe(topic string) (<-chan realtime.Event, func()) {
	args := m.Called(topic)
	return args.Get(0).(<-chan realtime.Event), args.Get(1).(func())
}

func (m *Hub) Close() {
	m.Called()
}
