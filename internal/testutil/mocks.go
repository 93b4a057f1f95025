package testutil

import (
	"context"

	"userbot/internal/domain"
	"userbot/internal/rpc"

	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock for repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Load(ctx context.Context) ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, blob []byte) error {
	args := m.Called(blob)
	return args.Error(0)
}

func (m *MockSessionRepository) Location() string {
	return "mock"
}

// MockInvoker is a mock for rpc.Invoker
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, req rpc.Request) (any, error) {
	args := m.Called(req)
	return args.Get(0), args.Error(1)
}

// MockPrompter is a mock for service.Prompter
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Prompt(ctx context.Context, message string) (string, error) {
	args := m.Called(message)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) PromptSecret(ctx context.Context, message string) (string, error) {
	args := m.Called(message)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) Notice(message string) {
	m.Called(message)
}

// MockReporter is a mock for handler.Reporter
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) ReportLookup(ctx context.Context, user domain.PrivateUser, info *domain.FullUserInfo, err error) {
	m.Called(user, info, err)
}
