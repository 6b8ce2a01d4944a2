package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/usecase"
	"go-portfolio-backend/pkg/ai"
	"go-portfolio-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const quiet = 10 * time.Millisecond

// Mock Repositories

type MockDraftRepo struct {
	mock.Mock
}

func (m *MockDraftRepo) GetOrCreate(ctx context.Context, userID string) (*domain.PersistedDraft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersistedDraft), args.Error(1)
}

func (m *MockDraftRepo) Save(ctx context.Context, userID string, draft *domain.PersistedDraft) error {
	return m.Called(ctx, userID, draft).Error(0)
}

func (m *MockDraftRepo) Publish(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) Create(ctx context.Context, userID, filename string, extracted *domain.ResumeData) (int64, error) {
	args := m.Called(ctx, userID, filename, extracted)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResumeRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.ResumeRecord, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResumeRecord), args.Error(1)
}

func (m *MockResumeRepo) MarkConfirmed(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractResume(ctx context.Context, filename string, file []byte) (domain.ResumeData, error) {
	args := m.Called(ctx, filename, file)
	return args.Get(0).(domain.ResumeData), args.Error(1)
}

type MockEnhancer struct {
	mock.Mock
}

func (m *MockEnhancer) EnhanceDescription(ctx context.Context, req ai.EnhanceRequest) ([]string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func storedDraft() *domain.PersistedDraft {
	return &domain.PersistedDraft{
		Profile: &domain.PersistedProfile{Name: "Ada", Email: "ada@example.com"},
	}
}

func TestPublishRequiresConfirmation(t *testing.T) {
	mockRepo := new(MockDraftRepo)
	uc := usecase.NewEditorUsecase(mockRepo, validator.New(), quiet)

	_, err := uc.Publish(context.Background(), "user1", false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation")
	mockRepo.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPublishFlushesThenPromotes(t *testing.T) {
	mockRepo := new(MockDraftRepo)
	mockRepo.On("GetOrCreate", mock.Anything, "user1").Return(storedDraft(), nil)
	mockRepo.On("Save", mock.Anything, "user1", mock.AnythingOfType("*domain.PersistedDraft")).Return(nil)
	mockRepo.On("Publish", mock.Anything, "user1").Return(nil)

	uc := usecase.NewEditorUsecase(mockRepo, validator.New(), quiet)
	require.NoError(t, uc.SetThemePreference(context.Background(), "user1", "dark"))

	msg, err := uc.Publish(context.Background(), "user1", true)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio published successfully", msg)

	mockRepo.AssertCalled(t, "Save", mock.Anything, "user1", mock.AnythingOfType("*domain.PersistedDraft"))
	mockRepo.AssertCalled(t, "Publish", mock.Anything, "user1")
}

func TestFlushBlockedWhileProfileIncomplete(t *testing.T) {
	mockRepo := new(MockDraftRepo)
	// stored draft has no profile at all
	mockRepo.On("GetOrCreate", mock.Anything, "user1").Return(&domain.PersistedDraft{}, nil)

	uc := usecase.NewEditorUsecase(mockRepo, validator.New(), quiet)
	require.NoError(t, uc.SetThemePreference(context.Background(), "user1", "dark"))

	err := uc.Flush(context.Background(), "user1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "required")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfileFlushPersistsMappedDraft(t *testing.T) {
	mockRepo := new(MockDraftRepo)
	mockRepo.On("GetOrCreate", mock.Anything, "user1").Return(storedDraft(), nil)
	mockRepo.On("Save", mock.Anything, "user1", mock.AnythingOfType("*domain.PersistedDraft")).Return(nil).Run(func(args mock.Arguments) {
		saved := args.Get(2).(*domain.PersistedDraft)
		require.NotNil(t, saved.Profile)
		assert.Equal(t, "Ada Lovelace", saved.Profile.Name)
	})

	uc := usecase.NewEditorUsecase(mockRepo, validator.New(), quiet)
	name := "Ada Lovelace"
	_, err := uc.UpdateProfile(context.Background(), "user1", domain.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	require.NoError(t, uc.Flush(context.Background(), "user1"))
}

func TestConcurrentFirstLoadsKeepAcknowledgedEdit(t *testing.T) {
	// The UI fires GET /editor and GET /editor/status together on mount, so
	// two requests can both find the session unhydrated and both fetch the
	// baseline. An edit acknowledged after the first hydration must survive
	// the second one.
	mockRepo := new(MockDraftRepo)
	entered := make(chan chan struct{}, 2)
	mockRepo.On("GetOrCreate", mock.Anything, "user1").Return(storedDraft(), nil).Run(func(mock.Arguments) {
		gate := make(chan struct{})
		entered <- gate
		<-gate
	})
	mockRepo.On("Save", mock.Anything, "user1", mock.AnythingOfType("*domain.PersistedDraft")).Return(nil)

	uc := usecase.NewEditorUsecase(mockRepo, validator.New(), quiet)

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := uc.GetDraft(context.Background(), "user1")
			done <- err
		}()
	}

	// both requests are inside the baseline fetch, so both observed an
	// unhydrated session
	first := <-entered
	second := <-entered

	close(first)
	require.NoError(t, <-done)

	require.NoError(t, uc.SetThemePreference(context.Background(), "user1", "dark"))

	close(second)
	require.NoError(t, <-done)

	draft, err := uc.GetDraft(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "dark", draft.ThemePreference, "edit lost to a stale second hydration")
}

func TestMergeImportFillsBlanksAndSkipsDuplicates(t *testing.T) {
	mockRepo := new(MockDraftRepo)
	stored := storedDraft()
	stored.Projects = []domain.PersistedProject{{ID: "p1", Title: "Tracker"}}
	mockRepo.On("GetOrCreate", mock.Anything, "user1").Return(stored, nil)
	mockRepo.On("Save", mock.Anything, "user1", mock.AnythingOfType("*domain.PersistedDraft")).Return(nil)

	uc := usecase.NewEditorUsecase(mockRepo, validator.New(), quiet)

	err := uc.MergeImport(context.Background(), "user1", domain.ResumeData{
		Name:  "Ignored Name",
		Title: "Backend Engineer",
		Projects: []domain.ResumeProject{
			{Title: "tracker", Description: "duplicate, skipped"},
			{Title: "New App", Tech: []string{"Go"}},
		},
		Skills: []domain.ResumeSkill{{Name: "Go", Level: "Advanced"}},
		WorkExperience: []domain.ResumeWorkExperience{
			{Title: "Backend Intern", Company: "Acme", Duration: "2023"},
		},
		Certifications: []domain.ResumeCertification{
			{Name: "Cloud Cert", Issuer: "CloudCo", Year: "2024"},
		},
	})
	require.NoError(t, err)

	draft, err := uc.GetDraft(context.Background(), "user1")
	require.NoError(t, err)

	assert.Equal(t, "Ada", draft.Profile.Name, "existing profile values win")
	assert.Equal(t, "Backend Engineer", draft.Profile.Title, "blank fields are filled")

	require.Len(t, draft.Projects, 2)
	assert.Equal(t, "New App", draft.Projects[1].Title)
	assert.NotEmpty(t, draft.Projects[1].ID)

	require.Len(t, draft.Skills, 1)
	assert.Equal(t, 90, draft.Skills[0].Level)
	assert.Equal(t, domain.DefaultSkillCategory, draft.Skills[0].Category)

	require.Len(t, draft.Achievements, 1)
	assert.Equal(t, domain.AchievementTypeInternship, draft.Achievements[0].Type)
	assert.Equal(t, "Acme", draft.Achievements[0].Issuer)

	require.Len(t, draft.Certificates, 1)
	assert.Equal(t, "Cloud Cert", draft.Certificates[0].Title)

	mockRepo.AssertCalled(t, "Save", mock.Anything, "user1", mock.AnythingOfType("*domain.PersistedDraft"))
}

func TestUploadRejectsEmptyExtraction(t *testing.T) {
	mockExtractor := new(MockExtractor)
	mockExtractor.On("ExtractResume", mock.Anything, "empty.pdf", mock.Anything).Return(domain.ResumeData{}, nil)
	mockResumes := new(MockResumeRepo)

	uc := usecase.NewImportUsecase(mockExtractor, mockResumes, nil)

	_, err := uc.Upload(context.Background(), "user1", "empty.pdf", []byte("%PDF"))
	assert.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Code)
	mockResumes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImportSelectionAndConfirm(t *testing.T) {
	extracted := domain.ResumeData{
		Name: "Ada",
		Projects: []domain.ResumeProject{
			{Title: "Keep Me"},
			{Title: "Drop Me"},
		},
		Skills: []domain.ResumeSkill{{Name: "Go", Level: "Intermediate"}},
	}

	mockExtractor := new(MockExtractor)
	mockExtractor.On("ExtractResume", mock.Anything, "resume.pdf", mock.Anything).Return(extracted, nil)
	mockResumes := new(MockResumeRepo)
	mockResumes.On("Create", mock.Anything, "user1", "resume.pdf", mock.Anything).Return(int64(7), nil)
	mockResumes.On("MarkConfirmed", mock.Anything, int64(7)).Return(nil)

	mockDrafts := new(MockDraftRepo)
	mockDrafts.On("GetOrCreate", mock.Anything, "user1").Return(storedDraft(), nil)
	mockDrafts.On("Save", mock.Anything, "user1", mock.AnythingOfType("*domain.PersistedDraft")).Return(nil)
	editorUC := usecase.NewEditorUsecase(mockDrafts, validator.New(), quiet)

	uc := usecase.NewImportUsecase(mockExtractor, mockResumes, editorUC)

	staged, err := uc.Upload(context.Background(), "user1", "resume.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), staged.ResumeID)
	assert.Equal(t, []int{0, 1}, staged.Selection["projects"])

	staged, err = uc.UpdateSelection(context.Background(), "user1", 7, domain.SelectionActionToggle, "projects", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, staged.Selection["projects"])

	require.NoError(t, uc.Confirm(context.Background(), "user1", 7))

	draft, err := editorUC.GetDraft(context.Background(), "user1")
	require.NoError(t, err)
	require.Len(t, draft.Projects, 1)
	assert.Equal(t, "Keep Me", draft.Projects[0].Title)
	require.Len(t, draft.Skills, 1)
	assert.Equal(t, 75, draft.Skills[0].Level)

	mockResumes.AssertCalled(t, "MarkConfirmed", mock.Anything, int64(7))

	// the staged entry is consumed
	mockResumes.On("GetByID", mock.Anything, int64(7), "user1").Return(&domain.ResumeRecord{
		ID: 7, UserID: "user1", Status: domain.ResumeStatusConfirmed,
	}, nil)
	_, err = uc.GetStaged(context.Background(), "user1", 7)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already confirmed")
}

func TestStagedReadsRaceSelectionWrites(t *testing.T) {
	// Review reads and selection toggles hit the same staged entry from
	// different requests; run under -race this catches unlocked access.
	extracted := domain.ResumeData{
		Projects: []domain.ResumeProject{{Title: "a"}, {Title: "b"}, {Title: "c"}},
	}
	mockExtractor := new(MockExtractor)
	mockExtractor.On("ExtractResume", mock.Anything, mock.Anything, mock.Anything).Return(extracted, nil)
	mockResumes := new(MockResumeRepo)
	mockResumes.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)

	uc := usecase.NewImportUsecase(mockExtractor, mockResumes, nil)
	_, err := uc.Upload(context.Background(), "user1", "resume.pdf", []byte("%PDF"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = uc.GetStaged(context.Background(), "user1", 1)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = uc.UpdateSelection(context.Background(), "user1", 1, domain.SelectionActionToggle, "projects", j%3)
			}
		}()
	}
	wg.Wait()

	staged, err := uc.GetStaged(context.Background(), "user1", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(staged.Selection["projects"]), 3)
}

func TestSelectionInputValidation(t *testing.T) {
	extracted := domain.ResumeData{Projects: []domain.ResumeProject{{Title: "Only"}}}
	mockExtractor := new(MockExtractor)
	mockExtractor.On("ExtractResume", mock.Anything, mock.Anything, mock.Anything).Return(extracted, nil)
	mockResumes := new(MockResumeRepo)
	mockResumes.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)

	uc := usecase.NewImportUsecase(mockExtractor, mockResumes, nil)
	_, err := uc.Upload(context.Background(), "user1", "resume.pdf", []byte("%PDF"))
	require.NoError(t, err)

	t.Run("unknown collection", func(t *testing.T) {
		_, err := uc.UpdateSelection(context.Background(), "user1", 1, domain.SelectionActionToggle, "hobbies", 0)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown collection")
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := uc.UpdateSelection(context.Background(), "user1", 1, domain.SelectionActionToggle, "projects", 5)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := uc.UpdateSelection(context.Background(), "user1", 1, "invert", "projects", 0)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown selection action")
	})
}

func TestEnhanceDescription(t *testing.T) {
	validate := validator.New()
	input := domain.EnhanceInput{Title: "Tracker", Description: "a cli habit tracker"}

	t.Run("splits the generated blob into capped variants", func(t *testing.T) {
		mockEnhancer := new(MockEnhancer)
		mockEnhancer.On("EnhanceDescription", mock.Anything, mock.Anything).
			Return([]string{"one ||| two ||| three ||| four"}, nil)
		uc := usecase.NewEnhanceUsecase(mockEnhancer, validate)

		got, err := uc.EnhanceDescription(context.Background(), input)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, domain.EnhancementVariant{ID: 1, Text: "one"}, got[0])
	})

	t.Run("blank blob is an extraction failure", func(t *testing.T) {
		mockEnhancer := new(MockEnhancer)
		mockEnhancer.On("EnhanceDescription", mock.Anything, mock.Anything).
			Return([]string{"   |||   "}, nil)
		uc := usecase.NewEnhanceUsecase(mockEnhancer, validate)

		_, err := uc.EnhanceDescription(context.Background(), input)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 422, appErr.Code)
	})

	t.Run("transport failure maps to bad gateway", func(t *testing.T) {
		mockEnhancer := new(MockEnhancer)
		mockEnhancer.On("EnhanceDescription", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))
		uc := usecase.NewEnhanceUsecase(mockEnhancer, validate)

		_, err := uc.EnhanceDescription(context.Background(), input)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 502, appErr.Code)
	})

	t.Run("missing required fields are rejected", func(t *testing.T) {
		uc := usecase.NewEnhanceUsecase(new(MockEnhancer), validate)
		_, err := uc.EnhanceDescription(context.Background(), domain.EnhanceInput{})
		assert.Error(t, err)
	})
}
