package devapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUserExists         = errors.New("User already exists")
	errUserNotFound       = errors.New("User not found")
	errRecordNotFound     = errors.New("Image not found")
	errInvalidCredentials = errors.New("Invalid credentials")
)

type account struct {
	domain.UserSummary
	passwordHash []byte
	createdAt    time.Time
}

type blob struct {
	contentType string
	data        []byte
}

// store is the in-memory state behind the development API
type store struct {
	mu      sync.RWMutex
	users   map[string]*account
	records []domain.PropertyRecord
	blobs   map[string]blob
	now     func() time.Time
	cost    int
}

func newStore(now func() time.Time, bcryptCost int) *store {
	if now == nil {
		now = time.Now
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &store{
		users: make(map[string]*account),
		blobs: make(map[string]blob),
		now:   now,
		cost:  bcryptCost,
	}
}

func (s *store) addUser(username, email, password string, admin bool) (domain.UserSummary, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.UserSummary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userByEmailLocked(email) != nil {
		return domain.UserSummary{}, errUserExists
	}
	a := &account{
		UserSummary:  domain.UserSummary{ID: uuid.NewString(), Username: strings.TrimSpace(username), Email: email, IsAdmin: admin},
		passwordHash: hash,
		createdAt:    s.now(),
	}
	s.users[a.ID] = a
	return a.UserSummary, nil
}

func (s *store) authenticate(email, password string) (domain.UserSummary, error) {
	s.mu.RLock()
	a := s.userByEmailLocked(strings.ToLower(strings.TrimSpace(email)))
	s.mu.RUnlock()
	if a == nil {
		return domain.UserSummary{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return domain.UserSummary{}, errInvalidCredentials
	}
	return a.UserSummary, nil
}

func (s *store) user(id string) (domain.UserSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.users[id]
	if !ok {
		return domain.UserSummary{}, false
	}
	return a.UserSummary, true
}

func (s *store) listUsers() []domain.UserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]*account, 0, len(s.users))
	for _, a := range s.users {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].createdAt.Equal(accounts[j].createdAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].createdAt.Before(accounts[j].createdAt)
	})
	out := make([]domain.UserSummary, len(accounts))
	for i, a := range accounts {
		out[i] = a.UserSummary
	}
	return out
}

func (s *store) updateUser(id string, ch domain.UserChanges) (domain.UserSummary, error) {
	var hash []byte
	if ch.Password != nil && *ch.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(*ch.Password), s.cost); err != nil {
			return domain.UserSummary{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return domain.UserSummary{}, errUserNotFound
	}
	if ch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*ch.Email))
		if other := s.userByEmailLocked(email); other != nil && other.ID != id {
			return domain.UserSummary{}, errUserExists
		}
		a.Email = email
	}
	if ch.Username != nil {
		a.Username = strings.TrimSpace(*ch.Username)
	}
	if ch.IsAdmin != nil {
		a.IsAdmin = *ch.IsAdmin
	}
	if hash != nil {
		a.passwordHash = hash
	}
	return a.UserSummary, nil
}

func (s *store) deleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return errUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *store) userByEmailLocked(email string) *account {
	for _, a := range s.users {
		if a.Email == email {
			return a
		}
	}
	return nil
}

// listRecords returns records in creation order. An empty owner means all.
func (s *store) listRecords(owner string) []domain.PropertyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PropertyRecord, 0, len(s.records))
	for _, r := range s.records {
		if owner != "" && r.Owner.ID != owner {
			continue
		}
		out = append(out, s.populateLocked(r))
	}
	return out
}

func (s *store) record(id string) (domain.PropertyRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.PropertyRecord{}, false
	}
	return s.populateLocked(s.records[i]), true
}

func (s *store) insertRecord(r domain.PropertyRecord) domain.PropertyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	r.ID = uuid.NewString()
	r.CreatedAt, r.UpdatedAt = now, now
	r.Owner.User = nil
	s.records = append(s.records, r)
	return s.populateLocked(r)
}

// replaceRecord applies fn to the stored record under the write lock
func (s *store) replaceRecord(id string, fn func(*domain.PropertyRecord)) (domain.PropertyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.PropertyRecord{}, errRecordNotFound
	}
	fn(&s.records[i])
	s.records[i].UpdatedAt = s.now().UTC()
	return s.populateLocked(s.records[i]), nil
}

func (s *store) deleteRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return errRecordNotFound
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return nil
}

func (s *store) indexLocked(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// populateLocked expands the owner the way the remote API does
func (s *store) populateLocked(r domain.PropertyRecord) domain.PropertyRecord {
	r.Images = append([]string{}, r.Images...)
	if a, ok := s.users[r.Owner.ID]; ok {
		u := a.UserSummary
		r.Owner.User = &u
	}
	return r
}

func (s *store) putBlob(name string, b blob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = b
}

func (s *store) blob(name string) (blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[name]
	return b, ok
}

func (s *store) counts() (users, records int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.records)
}
