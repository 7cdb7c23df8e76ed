package media

import (
	"context"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) AcquireMicrophoneStream(ctx context.Context) (Stream, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(Stream); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStream struct {
	mock.Mock
}

func (m *MockStream) Stop() (types.MediaRef, error) {
	args := m.Called()
	return args.Get(0).(types.MediaRef), args.Error(1)
}
