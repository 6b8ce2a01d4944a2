package domain

import (
	"context"
	"time"
)

// ResumeData is the shape returned by the AI extraction service. It is close
// to the editing schema already: profile fields are flattened and skill
// levels are textual tiers rather than numeric levels.
type ResumeData struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Email    string `json:"email"`
	About    string `json:"about"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`

	Projects       []ResumeProject        `json:"projects"`
	Skills         []ResumeSkill          `json:"skills"`
	WorkExperience []ResumeWorkExperience `json:"work_experience"`
	Certifications []ResumeCertification  `json:"certifications"`
	Achievements   []ResumeAchievement    `json:"achievements"`
}

type ResumeProject struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Features    []string `json:"features"`
}

type ResumeSkill struct {
	Name     string `json:"name"`
	Level    string `json:"level"` // Beginner | Intermediate | Advanced
	Category string `json:"category"`
}

type ResumeWorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type ResumeCertification struct {
	Name        string `json:"name"`
	Issuer      string `json:"issuer"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

type ResumeAchievement struct {
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ResumeRecord is a stored upload with its extraction result.
type ResumeRecord struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Filename  string     `json:"filename"`
	Extracted ResumeData `json:"extracted"`
	Status    string     `json:"status"` // extracted | confirmed
	CreatedAt time.Time  `json:"created_at"`
}

const (
	ResumeStatusExtracted = "extracted"
	ResumeStatusConfirmed = "confirmed"
)

type ResumeRepository interface {
	Create(ctx context.Context, userID, filename string, extracted *ResumeData) (int64, error)
	GetByID(ctx context.Context, id int64, userID string) (*ResumeRecord, error)
	MarkConfirmed(ctx context.Context, id int64) error
}

// Selection actions accepted by the staged-import endpoints.
const (
	SelectionActionToggle      = "toggle"
	SelectionActionSelectAll   = "select_all"
	SelectionActionDeselectAll = "deselect_all"
)

// StagedResume is the review view of an uploaded resume: the (editable)
// extracted data plus the per-collection selected indices.
type StagedResume struct {
	ResumeID  int64            `json:"resume_id"`
	Filename  string           `json:"filename"`
	Data      ResumeData       `json:"data"`
	Selection map[string][]int `json:"selection"`
}

type ImportUsecase interface {
	Upload(ctx context.Context, userID, filename string, file []byte) (*StagedResume, error)
	GetStaged(ctx context.Context, userID string, resumeID int64) (*StagedResume, error)
	// UpdateStaged replaces the staged data wholesale and resets the
	// selection, since indices refer to positions in the staged arrays.
	UpdateStaged(ctx context.Context, userID string, resumeID int64, data ResumeData) (*StagedResume, error)
	UpdateSelection(ctx context.Context, userID string, resumeID int64, action, collection string, index int) (*StagedResume, error)
	// Confirm filters the staged data by the selection, merges it into the
	// user's draft and marks the upload consumed.
	Confirm(ctx context.Context, userID string, resumeID int64) error
}
