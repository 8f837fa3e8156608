package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/killallgit/herotrend/internal/models"
	apperrors "github.com/killallgit/herotrend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, analysis *models.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockRepository) AddStage(ctx context.Context, stage *models.Stage) error {
	args := m.Called(ctx, stage)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*models.Analysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Analysis), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, sourceID string, limit int) ([]models.Analysis, error) {
	args := m.Called(ctx, sourceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Analysis), args.Error(1)
}

func TestService_RunLifecycle(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	id, err := svc.Start(ctx, "abc", "v1", "anchored")
	require.NoError(t, err)

	require.NoError(t, svc.RecordStage(ctx, id, "media", "/cache/abc.mp4", true, 0))
	require.NoError(t, svc.RecordStage(ctx, id, "audio", "/cache/abc.wav", false, 2*time.Second))
	require.NoError(t, svc.Finish(ctx, id, 17, nil))

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusCompleted, got.Status)
	assert.Equal(t, "v1", got.Version)
	assert.Equal(t, "anchored", got.Window)
	assert.Equal(t, 17, got.Seconds)
	require.NotNil(t, got.FinishedAt)
	assert.GreaterOrEqual(t, got.Elapsed(), time.Duration(0))
	require.Len(t, got.Stages, 2)
	assert.True(t, got.Stages[0].Cached)
	assert.Equal(t, 2*time.Second, got.Stages[1].Duration)
}

func TestService_FinishWithError(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	id, err := svc.Start(ctx, "abc", "", "anchored")
	require.NoError(t, err)

	runErr := apperrors.FetchFailure("abc", errors.New("exit status 1"))
	require.NoError(t, svc.Finish(ctx, id, 0, runErr))

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusFailed, got.Status)
	assert.Equal(t, string(apperrors.ErrCodeFetchFailure), got.ErrorCode)
	assert.Contains(t, got.Error, "exit status 1")
}

func TestService_History(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	for i := 0; i < DefaultHistoryLimit+5; i++ {
		_, err := svc.Start(ctx, "abc", "", "anchored")
		require.NoError(t, err)
	}
	_, err := svc.Start(ctx, "xyz", "", "anchored")
	require.NoError(t, err)

	list, err := svc.History(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, list, DefaultHistoryLimit)
	assert.Equal(t, "xyz", list[0].SourceID)

	list, err = svc.History(ctx, "xyz", 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_Validation(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	_, err := svc.Start(ctx, "", "", "")
	assert.ErrorIs(t, err, ErrInvalidSourceID)

	_, err = svc.Get(ctx, 0)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	err = svc.Finish(ctx, 999, 0, nil)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestService_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("mock database error")

	mockRepo := new(MockRepository)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Analysis")).Return(dbErr)
	mockRepo.On("AddStage", ctx, mock.AnythingOfType("*models.Stage")).Return(dbErr)
	mockRepo.On("List", ctx, "", DefaultHistoryLimit).Return(nil, dbErr)
	svc := NewService(mockRepo)

	_, err := svc.Start(ctx, "abc", "", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDatabaseQuery))

	err = svc.RecordStage(ctx, 1, "media", "", false, 0)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDatabaseQuery))

	_, err = svc.History(ctx, "", 0)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDatabaseQuery))

	mockRepo.AssertExpectations(t)
}

func TestService_FinishUpdatesRun(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mockRepo := new(MockRepository)
	mockRepo.On("GetByID", ctx, uint(7)).Return(&models.Analysis{
		SourceID:  "abc",
		Status:    models.AnalysisStatusRunning,
		StartedAt: started,
	}, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*models.Analysis")).
		Run(func(args mock.Arguments) {
			analysis := args.Get(1).(*models.Analysis)
			assert.Equal(t, models.AnalysisStatusCompleted, analysis.Status)
			assert.Equal(t, 42, analysis.Seconds)
			require.NotNil(t, analysis.FinishedAt)
			assert.Equal(t, 3*time.Second, analysis.Elapsed())
		}).
		Return(nil)

	svc := &service{repo: mockRepo, now: func() time.Time { return started.Add(3 * time.Second) }}
	require.NoError(t, svc.Finish(ctx, 7, 42, nil))

	mockRepo.AssertExpectations(t)
}
