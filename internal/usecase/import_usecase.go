package usecase

import (
	"context"
	"fmt"
	"sync"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/selection"
	"go-portfolio-backend/pkg/apperror"
)

// ResumeExtractor is the slice of the AI client the import flow needs.
type ResumeExtractor interface {
	ExtractResume(ctx context.Context, filename string, file []byte) (domain.ResumeData, error)
}

// stagedImport holds one upload awaiting review. Staged data lives in memory
// only; the extraction result itself is already persisted with the record.
type stagedImport struct {
	filename string
	data     domain.ResumeData
	state    selection.State
}

type importUsecase struct {
	extractor ResumeExtractor
	repo      domain.ResumeRepository
	editor    domain.EditorUsecase

	mu     sync.Mutex
	staged map[string]*stagedImport
}

func NewImportUsecase(extractor ResumeExtractor, repo domain.ResumeRepository, editor domain.EditorUsecase) domain.ImportUsecase {
	return &importUsecase{
		extractor: extractor,
		repo:      repo,
		editor:    editor,
		staged:    make(map[string]*stagedImport),
	}
}

func stagedKey(userID string, resumeID int64) string {
	return fmt.Sprintf("%s:%d", userID, resumeID)
}

func (u *importUsecase) Upload(ctx context.Context, userID, filename string, file []byte) (*domain.StagedResume, error) {
	data, err := u.extractor.ExtractResume(ctx, filename, file)
	if err != nil {
		return nil, apperror.BadGateway("Could not reach the extraction service", err)
	}
	if extractionEmpty(data) {
		return nil, apperror.Unprocessable("Could not extract any usable fields from the resume")
	}

	resumeID, err := u.repo.Create(ctx, userID, filename, &data)
	if err != nil {
		return nil, apperror.BadGateway("Could not store the extraction result", err)
	}

	entry := &stagedImport{
		filename: filename,
		data:     data,
		state:    selection.Initialize(collectionLengths(data)),
	}
	u.mu.Lock()
	u.staged[stagedKey(userID, resumeID)] = entry
	view := stagedView(resumeID, entry)
	u.mu.Unlock()

	return view, nil
}

func (u *importUsecase) GetStaged(ctx context.Context, userID string, resumeID int64) (*domain.StagedResume, error) {
	entry, err := u.stagedEntry(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	view := stagedView(resumeID, entry)
	u.mu.Unlock()
	return view, nil
}

func (u *importUsecase) UpdateStaged(ctx context.Context, userID string, resumeID int64, data domain.ResumeData) (*domain.StagedResume, error) {
	entry, err := u.stagedEntry(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	entry.data = data
	entry.state = selection.Initialize(collectionLengths(data))
	view := stagedView(resumeID, entry)
	u.mu.Unlock()

	return view, nil
}

func (u *importUsecase) UpdateSelection(ctx context.Context, userID string, resumeID int64, action, collection string, index int) (*domain.StagedResume, error) {
	c := selection.Collection(collection)
	if !validCollection(c) {
		return nil, apperror.BadRequest("Unknown collection: " + collection)
	}

	entry, err := u.stagedEntry(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	length := collectionLength(entry.data, c)
	switch action {
	case domain.SelectionActionToggle:
		if index < 0 || index >= length {
			return nil, apperror.BadRequest(fmt.Sprintf("Index %d is out of range for %s", index, collection))
		}
		entry.state = entry.state.Toggle(c, index)
	case domain.SelectionActionSelectAll:
		entry.state = entry.state.SelectAll(c, length)
	case domain.SelectionActionDeselectAll:
		entry.state = entry.state.DeselectAll(c)
	default:
		return nil, apperror.BadRequest("Unknown selection action: " + action)
	}

	return stagedView(resumeID, entry), nil
}

func (u *importUsecase) Confirm(ctx context.Context, userID string, resumeID int64) error {
	entry, err := u.stagedEntry(ctx, userID, resumeID)
	if err != nil {
		return err
	}

	u.mu.Lock()
	filtered := selection.Apply(entry.data, entry.state)
	u.mu.Unlock()

	if err := u.editor.MergeImport(ctx, userID, filtered); err != nil {
		return err
	}
	if err := u.repo.MarkConfirmed(ctx, resumeID); err != nil {
		return apperror.BadGateway("Could not mark the import confirmed", err)
	}

	u.mu.Lock()
	delete(u.staged, stagedKey(userID, resumeID))
	u.mu.Unlock()
	return nil
}

// stagedEntry fetches the in-memory staging entry, restoring it from the
// stored extraction result when the server restarted since the upload.
func (u *importUsecase) stagedEntry(ctx context.Context, userID string, resumeID int64) (*stagedImport, error) {
	u.mu.Lock()
	entry, ok := u.staged[stagedKey(userID, resumeID)]
	u.mu.Unlock()
	if ok {
		return entry, nil
	}

	record, err := u.repo.GetByID(ctx, resumeID, userID)
	if err != nil {
		return nil, apperror.BadGateway("Could not load the upload", err)
	}
	if record == nil {
		return nil, apperror.NotFound("Resume upload not found")
	}
	if record.Status == domain.ResumeStatusConfirmed {
		return nil, apperror.Conflict("Resume import was already confirmed")
	}

	entry = &stagedImport{
		filename: record.Filename,
		data:     record.Extracted,
		state:    selection.Initialize(collectionLengths(record.Extracted)),
	}
	u.mu.Lock()
	u.staged[stagedKey(userID, resumeID)] = entry
	u.mu.Unlock()
	return entry, nil
}

func validCollection(c selection.Collection) bool {
	for _, known := range selection.Collections {
		if c == known {
			return true
		}
	}
	return false
}

func collectionLengths(data domain.ResumeData) map[selection.Collection]int {
	return map[selection.Collection]int{
		selection.CollectionWorkExperience: len(data.WorkExperience),
		selection.CollectionProjects:       len(data.Projects),
		selection.CollectionSkills:         len(data.Skills),
		selection.CollectionCertifications: len(data.Certifications),
		selection.CollectionAchievements:   len(data.Achievements),
	}
}

func collectionLength(data domain.ResumeData, c selection.Collection) int {
	return collectionLengths(data)[c]
}

func extractionEmpty(data domain.ResumeData) bool {
	return data.Name == "" && data.Email == "" &&
		len(data.Projects) == 0 && len(data.Skills) == 0 &&
		len(data.WorkExperience) == 0 && len(data.Certifications) == 0 &&
		len(data.Achievements) == 0
}

// stagedView renders the review payload. Callers must hold u.mu: the entry's
// data and selection are mutated under it.
func stagedView(resumeID int64, entry *stagedImport) *domain.StagedResume {
	view := &domain.StagedResume{
		ResumeID:  resumeID,
		Filename:  entry.filename,
		Data:      entry.data,
		Selection: make(map[string][]int, len(selection.Collections)),
	}
	for _, c := range selection.Collections {
		indices := make([]int, 0, entry.state.Count(c))
		for i := 0; i < collectionLength(entry.data, c); i++ {
			if entry.state.Selected(c, i) {
				indices = append(indices, i)
			}
		}
		view.Selection[string(c)] = indices
	}
	return view
}
