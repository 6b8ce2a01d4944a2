package domain

import (
	"encoding/json"
	"strconv"
)

// The persisted schema is the remote store's normalized shape: separate
// work-experience and award collections, aliased field names, and a few
// legacy keys kept for older documents. Decoding is tolerant by design -
// a partial or partially malformed document degrades to empty collections
// instead of failing the hydration.

// FlexString decodes a JSON string or number into a string. Older documents
// carry numeric ids that the editing schema treats as opaque strings.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// FlexInt decodes a JSON number or numeric string into an int.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*i = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		raw = v
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*i = 0
		return nil
	}
	*i = FlexInt(int(f))
	return nil
}

type PersistedProfile struct {
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Tagline  string `json:"tagline,omitempty"`
	Location string `json:"location,omitempty"`
	Email    string `json:"email,omitempty"`
	About    string `json:"about,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type PersistedProject struct {
	ID           FlexString `json:"id,omitempty"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	Technologies []string   `json:"technologies,omitempty"`
	// Tech is the legacy key; technologies wins when both are present.
	Tech []string `json:"tech,omitempty"`
	// Stack duplicates technologies on save for backward compatibility.
	Stack     []string `json:"stack,omitempty"`
	Features  []string `json:"features,omitempty"`
	DemoURL   string   `json:"demo_url,omitempty"`
	GithubURL string   `json:"github_url,omitempty"`
	// Link and Type are derived on save ("github" when the repo URL points
	// at GitHub, "others" otherwise).
	Link     string  `json:"link,omitempty"`
	Type     string  `json:"type,omitempty"`
	Stars    FlexInt `json:"stars,omitempty"`
	Featured bool    `json:"featured,omitempty"`
}

type PersistedSkill struct {
	Name string `json:"name,omitempty"`
	// SkillName, Proficiency and Type are legacy aliases.
	SkillName   string  `json:"skill_name,omitempty"`
	Level       FlexInt `json:"level,omitempty"`
	Proficiency FlexInt `json:"proficiency,omitempty"`
	Category    string  `json:"category,omitempty"`
	Type        string  `json:"type,omitempty"`
}

type PersistedWorkExperience struct {
	Title        string   `json:"title,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	Status       string   `json:"status,omitempty"`
}

type PersistedAward struct {
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Issuer       string `json:"issuer,omitempty"`
	Year         string `json:"year,omitempty"`
	Date         string `json:"date,omitempty"`
	AwardedDate  string `json:"awarded_date,omitempty"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	Type         string `json:"type,omitempty"`
}

type PersistedCertificate struct {
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"`
	Issuer       string `json:"issuer,omitempty"`
	Organization string `json:"organization,omitempty"`
	Year         string `json:"year,omitempty"`
	Date         string `json:"date,omitempty"`
	IssuedDate   string `json:"issued_date,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status,omitempty"`
}

type PersistedSettings struct {
	ThemePreference string `json:"theme_preference,omitempty"`
}

type PersistedDraft struct {
	Profile         *PersistedProfile         `json:"profile,omitempty"`
	Projects        []PersistedProject        `json:"projects,omitempty"`
	Skills          []PersistedSkill          `json:"skills,omitempty"`
	WorkExperiences []PersistedWorkExperience `json:"work_experiences,omitempty"`
	Awards          []PersistedAward          `json:"awards,omitempty"`
	Certificates    []PersistedCertificate    `json:"certificates,omitempty"`
	Settings        *PersistedSettings        `json:"settings,omitempty"`
}

// DecodePersistedDraft decodes a stored draft document leniently: sections
// that are missing or fail to decode are dropped rather than failing the
// whole document. Only a top-level non-object is an error.
func DecodePersistedDraft(data []byte) (*PersistedDraft, error) {
	if len(data) == 0 {
		return &PersistedDraft{}, nil
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, err
	}

	out := &PersistedDraft{}
	decode := func(key string, dst interface{}) {
		raw, ok := sections[key]
		if !ok {
			return
		}
		// Ignore errors: a malformed section degrades to its zero value.
		_ = json.Unmarshal(raw, dst)
	}

	var profile PersistedProfile
	decode("profile", &profile)
	if profile != (PersistedProfile{}) {
		out.Profile = &profile
	}
	decode("projects", &out.Projects)
	decode("skills", &out.Skills)
	decode("work_experiences", &out.WorkExperiences)
	decode("awards", &out.Awards)
	decode("certificates", &out.Certificates)
	var settings PersistedSettings
	decode("settings", &settings)
	if settings != (PersistedSettings{}) {
		out.Settings = &settings
	}
	return out, nil
}
