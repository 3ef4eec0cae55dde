package mocks

import (
	"context"
	"encoding/json"

	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Activity) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Search(ctx context.Context, query string, opts activity.ListOptions) ([]activity.Activity, error) {
	args := m.Called(ctx, query, opts)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ActivityRepository) MarkAllRead(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// StateRepository is a mock for repository.StateRepository.
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) Load(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	if raw, ok := args.Get(0).(json.RawMessage); ok {
		return raw, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StateRepository) Save(ctx context.Context, key string, value json.RawMessage) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Recorder is a mock for feed.Recorder.
type Recorder struct {
	mock.Mock
}

func (m *Recorder) Record(ctx context.Context, entry *activity.Activity) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *Recorder) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Recorder) MarkAllRead(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
