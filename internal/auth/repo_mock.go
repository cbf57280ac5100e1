package auth

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ store = (*RepoMock)(nil)

// RepoMock is an in-memory store used by tests and by local runs without postgres.
type RepoMock struct {
	mutex sync.Mutex

	admins   map[int]*Admin
	sessions map[string]*Session
	resets   map[int]*PasswordReset

	nextAdminID   int
	nextSessionID int
	nextResetID   int
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		admins:   make(map[int]*Admin),
		sessions: make(map[string]*Session),
		resets:   make(map[int]*PasswordReset),
	}
}

func (r *RepoMock) CreateAdmin(_ context.Context, admin *Admin) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, a := range r.admins {
		if a.Username == admin.Username {
			return ErrAdminExists
		}
		if admin.Email != nil && a.Email != nil && *a.Email == *admin.Email {
			return ErrAdminExists
		}
	}

	r.nextAdminID++
	admin.ID = r.nextAdminID
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	stored := *admin
	r.admins[admin.ID] = &stored
	return nil
}

func (r *RepoMock) AdminByID(_ context.Context, id int) (*Admin, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	a, ok := r.admins[id]
	if !ok {
		return nil, ErrAdminNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *RepoMock) AdminByUsername(_ context.Context, username string) (*Admin, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, a := range r.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrAdminNotFound
}

func (r *RepoMock) AdminByUsernameOrEmail(_ context.Context, usernameOrEmail string) (*Admin, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var found *Admin
	for _, a := range r.admins {
		if a.Username == usernameOrEmail || (a.Email != nil && *a.Email == usernameOrEmail) {
			if found == nil || a.ID < found.ID {
				found = a
			}
		}
	}
	if found == nil {
		return nil, ErrAdminNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *RepoMock) UpdatePasswordHash(_ context.Context, adminID int, passwordHash string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	a, ok := r.admins[adminID]
	if !ok {
		return ErrAdminNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now()
	return nil
}

func (r *RepoMock) CreateSession(_ context.Context, s *Session) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextSessionID++
	s.ID = r.nextSessionID
	stored := *s
	r.sessions[s.SessionID] = &stored
	return nil
}

func (r *RepoMock) SessionBySessionID(_ context.Context, sessionID string) (*Session, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *RepoMock) TouchSession(_ context.Context, sessionID string, at time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		s.LastActivity = at
	}
	return nil
}

func (r *RepoMock) DeactivateSession(_ context.Context, sessionID string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if s, ok := r.sessions[sessionID]; ok && s.IsActive {
		s.IsActive = false
		return 1, nil
	}
	return 0, nil
}

func (r *RepoMock) DeactivateAdminSession(_ context.Context, adminID int, sessionID string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if s, ok := r.sessions[sessionID]; ok && s.IsActive && s.AdminID == adminID {
		s.IsActive = false
		return 1, nil
	}
	return 0, nil
}

func (r *RepoMock) DeactivateAdminSessions(_ context.Context, adminID int, exceptSessionID string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var n int64
	for _, s := range r.sessions {
		if s.AdminID != adminID || !s.IsActive {
			continue
		}
		if exceptSessionID != "" && s.SessionID == exceptSessionID {
			continue
		}
		s.IsActive = false
		n++
	}
	return n, nil
}

func (r *RepoMock) ActiveSessions(_ context.Context, adminID int, now time.Time) ([]Session, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	sessions := make([]Session, 0)
	for _, s := range r.sessions {
		if s.AdminID == adminID && s.UsableAt(now) {
			sessions = append(sessions, *s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActivity.After(sessions[j].LastActivity)
	})
	return sessions, nil
}

func (r *RepoMock) DeactivateExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var n int64
	for _, s := range r.sessions {
		if s.ExpiresAt.Before(now) || !s.IsActive {
			s.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *RepoMock) CreatePasswordReset(_ context.Context, pr *PasswordReset) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextResetID++
	pr.ID = r.nextResetID
	stored := *pr
	r.resets[pr.ID] = &stored
	return nil
}

func (r *RepoMock) DeleteUnusedPasswordResets(_ context.Context, username string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var n int64
	for id, pr := range r.resets {
		if pr.Username == username && !pr.Used {
			delete(r.resets, id)
			n++
		}
	}
	return n, nil
}

func (r *RepoMock) LatestPasswordReset(_ context.Context, username, otpHash string) (*PasswordReset, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var latest *PasswordReset
	for _, pr := range r.resets {
		if pr.Username != username || pr.OTPHash != otpHash {
			continue
		}
		if latest == nil || pr.CreatedAt.After(latest.CreatedAt) || (pr.CreatedAt.Equal(latest.CreatedAt) && pr.ID > latest.ID) {
			latest = pr
		}
	}
	if latest == nil {
		return nil, ErrPasswordResetNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *RepoMock) MarkPasswordResetUsed(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	pr, ok := r.resets[id]
	if !ok {
		return ErrPasswordResetNotFound
	}
	pr.Used = true
	return nil
}

func (r *RepoMock) DeleteExpiredPasswordResets(_ context.Context, username, otpHash string, now time.Time) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var n int64
	for id, pr := range r.resets {
		if pr.Username == username && pr.OTPHash == otpHash && pr.ExpiredAt(now) {
			delete(r.resets, id)
			n++
		}
	}
	return n, nil
}

// PasswordResets returns a snapshot of the stored reset records of username.
func (r *RepoMock) PasswordResets(username string) []PasswordReset {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []PasswordReset
	for _, pr := range r.resets {
		if pr.Username == username {
			out = append(out, *pr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
