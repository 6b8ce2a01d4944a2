// Package editor holds the per-user editing session: the authoritative
// in-memory draft and the debounced autosave scheduler that flushes it to
// the store.
package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-portfolio-backend/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotHydrated rejects mutations issued before the first successful
	// hydration; saving defaults over a not-yet-fetched draft would lose data.
	ErrNotHydrated = errors.New("editor: draft not hydrated")
	ErrClosed      = errors.New("editor: session closed")
	ErrNotFound    = errors.New("editor: item not found")
)

// Saver persists a draft snapshot. The concrete saver maps the editing
// schema to the persisted schema before writing.
type Saver interface {
	SaveDraft(ctx context.Context, userID string, draft domain.Draft) error
}

// Session owns one user's draft. All mutations are copy-on-write and arm a
// debounce timer; when the quiet period elapses the current snapshot is
// saved. At most one save is in flight at any time - a timer firing during
// an in-flight save queues a follow-up instead of racing it.
type Session struct {
	userID  string
	quiet   time.Duration
	saver   Saver
	onError func(error)

	mu          sync.Mutex
	cond        *sync.Cond
	draft       domain.Draft
	hydrated    bool
	closed      bool
	status      domain.SaveStatus
	gen         uint64 // bumped on every mutation
	savedGen    uint64 // generation of the last successful save
	timer       *time.Timer
	inFlight    bool
	pendingFire bool
}

// NewSession creates an unhydrated session. onError is invoked (outside the
// session lock) when an autosave fails; it may be nil.
func NewSession(userID string, quiet time.Duration, saver Saver, onError func(error)) *Session {
	s := &Session{
		userID:  userID,
		quiet:   quiet,
		saver:   saver,
		onError: onError,
		status:  domain.StatusSaved,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Hydrate installs the baseline draft. The session starts in Saved state;
// hydration itself never triggers a save. Only the first call installs
// anything: concurrent first requests race to hydrate, and a stale second
// baseline must not clobber edits acknowledged after the winner.
func (s *Session) Hydrate(d domain.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return
	}
	s.draft = d
	s.hydrated = true
	s.status = domain.StatusSaved
	s.gen = 0
	s.savedGen = 0
}

func (s *Session) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

func (s *Session) Status() domain.SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot returns a deep copy of the current draft.
func (s *Session) Snapshot() (domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return domain.Draft{}, ErrNotHydrated
	}
	return s.draft.Clone(), nil
}

// Mutate applies an edit to a copy of the draft and, on success, installs it
// as the new current draft, marks the session Unsaved and (re)arms the
// debounce timer. Mutations before hydration are rejected.
func (s *Session) Mutate(apply func(*domain.Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.hydrated {
		return ErrNotHydrated
	}
	next := s.draft.Clone()
	if err := apply(&next); err != nil {
		return err
	}
	s.draft = next
	s.gen++
	s.status = domain.StatusUnsaved
	s.armTimerLocked()
	return nil
}

func (s *Session) armTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, s.fire)
}

func (s *Session) fire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = nil
	if s.closed || !s.hydrated {
		return
	}
	if s.inFlight {
		// The follow-up save must wait for the in-flight one to finish.
		s.pendingFire = true
		return
	}
	s.startSaveLocked()
}

func (s *Session) startSaveLocked() {
	s.inFlight = true
	s.status = domain.StatusSaving
	snap := s.draft.Clone()
	gen := s.gen
	go s.save(context.Background(), snap, gen)
}

func (s *Session) save(ctx context.Context, snap domain.Draft, gen uint64) {
	err := s.saver.SaveDraft(ctx, s.userID, snap)
	s.finishSave(gen, err)
}

func (s *Session) finishSave(gen uint64, err error) {
	s.mu.Lock()
	s.inFlight = false
	closed := s.closed
	if !closed {
		if err != nil {
			s.status = domain.StatusUnsaved
		} else {
			s.savedGen = gen
			if s.gen == gen {
				s.status = domain.StatusSaved
			}
			// otherwise a newer mutation already marked the session Unsaved
		}
		if s.pendingFire {
			s.pendingFire = false
			// A timer that lost the race against Flush requests a save even
			// though everything is already persisted; skip it.
			if s.gen != s.savedGen {
				s.startSaveLocked()
			}
		}
	}
	s.cond.Broadcast()
	s.mu.Unlock()

	// Results of a closed session are discarded, not surfaced.
	if err != nil && !closed && s.onError != nil {
		s.onError(err)
	}
}

// Flush saves synchronously: it cancels any pending debounce timer, waits
// for an in-flight save to drain and writes the current snapshot if it is
// newer than the last successful save. Used for manual retry and publish.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.hydrated {
		s.mu.Unlock()
		return ErrNotHydrated
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	for s.inFlight {
		s.cond.Wait()
	}
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.status == domain.StatusSaved && s.gen == s.savedGen {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	snap := s.draft.Clone()
	s.inFlight = true
	s.status = domain.StatusSaving
	s.mu.Unlock()

	err := s.saver.SaveDraft(ctx, s.userID, snap)
	s.finishSave(gen, err)
	return err
}

// Close cancels any pending timer and marks the session dead. An in-flight
// save is allowed to complete but its result is discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.cond.Broadcast()
}

// ---- Typed draft-store operations -------------------------------------

func (s *Session) UpdateProfile(update domain.ProfileUpdate) (domain.Profile, error) {
	var out domain.Profile
	err := s.Mutate(func(d *domain.Draft) error {
		update.Apply(&d.Profile)
		out = d.Profile
		return nil
	})
	return out, err
}

func (s *Session) SetThemePreference(theme string) error {
	return s.Mutate(func(d *domain.Draft) error {
		d.ThemePreference = theme
		return nil
	})
}

// UpsertProject replaces the project with a matching id, or appends it with
// a freshly generated id when none is set. The id stays stable for the whole
// life of the draft.
func (s *Session) UpsertProject(p domain.Project) (domain.Project, error) {
	err := s.Mutate(func(d *domain.Draft) error {
		if p.ID == "" {
			p.ID = uuid.NewString()
			d.Projects = append(d.Projects, p)
			return nil
		}
		for i := range d.Projects {
			if d.Projects[i].ID == p.ID {
				d.Projects[i] = p
				return nil
			}
		}
		d.Projects = append(d.Projects, p)
		return nil
	})
	return p, err
}

func (s *Session) RemoveProject(id string) error {
	return s.Mutate(func(d *domain.Draft) error {
		for i := range d.Projects {
			if d.Projects[i].ID == id {
				d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// UpsertSkill keys on the skill name.
func (s *Session) UpsertSkill(skill domain.Skill) error {
	return s.Mutate(func(d *domain.Draft) error {
		for i := range d.Skills {
			if d.Skills[i].Name == skill.Name {
				d.Skills[i] = skill
				return nil
			}
		}
		d.Skills = append(d.Skills, skill)
		return nil
	})
}

func (s *Session) RemoveSkill(name string) error {
	return s.Mutate(func(d *domain.Draft) error {
		for i := range d.Skills {
			if d.Skills[i].Name == name {
				d.Skills = append(d.Skills[:i], d.Skills[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Session) UpsertAchievement(a domain.Achievement) (domain.Achievement, error) {
	err := s.Mutate(func(d *domain.Draft) error {
		if a.Type == "" {
			a.Type = domain.AchievementTypeAward
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
			d.Achievements = append(d.Achievements, a)
			return nil
		}
		for i := range d.Achievements {
			if d.Achievements[i].ID == a.ID {
				d.Achievements[i] = a
				return nil
			}
		}
		d.Achievements = append(d.Achievements, a)
		return nil
	})
	return a, err
}

func (s *Session) RemoveAchievement(id string) error {
	return s.Mutate(func(d *domain.Draft) error {
		for i := range d.Achievements {
			if d.Achievements[i].ID == id {
				d.Achievements = append(d.Achievements[:i], d.Achievements[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// UpsertCertificate keys on the certificate title.
func (s *Session) UpsertCertificate(c domain.Certificate) error {
	return s.Mutate(func(d *domain.Draft) error {
		for i := range d.Certificates {
			if d.Certificates[i].Title == c.Title {
				d.Certificates[i] = c
				return nil
			}
		}
		d.Certificates = append(d.Certificates, c)
		return nil
	})
}

func (s *Session) RemoveCertificate(title string) error {
	return s.Mutate(func(d *domain.Draft) error {
		for i := range d.Certificates {
			if d.Certificates[i].Title == title {
				d.Certificates = append(d.Certificates[:i], d.Certificates[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
