package user

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore implements Store with an in-process map. Used in tests and
// for local development without a database.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by normalized email
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Create(ctx context.Context, u *User, password string) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" {
		return ErrEmailRequired
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	if u.ID == "" {
		u.ID = bson.NewObjectID().Hex()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = StatusEnabled
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Email]; exists {
		return ErrAlreadyExists
	}
	clone := *u
	s.users[u.Email] = &clone
	return nil
}

func (s *MemoryStore) UpsertSubscription(ctx context.Context, p UpsertParams) (*User, bool, error) {
	email := NormalizeEmail(p.Email)
	if email == "" {
		return nil, false, ErrEmailRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[email]; ok {
		existing.Subscription = p.Subscription
		existing.Billing = p.Billing
		existing.UpdatedAt = time.Now().UTC()
		clone := *existing
		return &clone, false, nil
	}

	hash, err := HashPassword(p.Password)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	u := &User{
		ID:           bson.NewObjectID().Hex(),
		Name:         p.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
		Status:       StatusEnabled,
		Subscription: p.Subscription,
		Billing:      p.Billing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[email] = u
	clone := *u
	return &clone, true, nil
}

func (s *MemoryStore) ExpireSubscription(ctx context.Context, email string, clearTrial bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[NormalizeEmail(email)]
	if !ok {
		return nil
	}
	u.Subscription.Status = SubscriptionExpired
	if clearTrial {
		u.Subscription.IsTrialActive = false
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) RenewSubscription(ctx context.Context, email string, r Renewal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[NormalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}

	start, end, next := r.StartDate, r.EndDate, r.NextBillingDate
	u.Subscription.Status = SubscriptionActive
	u.Subscription.StartDate = &start
	u.Subscription.EndDate = &end
	u.Subscription.NextBillingDate = &next
	u.Subscription.IsTrialActive = false
	if r.OrderID != "" {
		u.Subscription.ClickfunnelsOrderID = r.OrderID
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) BulkExpire(ctx context.Context, now time.Time) ([]ExpiredUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []ExpiredUser
	for _, u := range s.users {
		sub := &u.Subscription
		due := (sub.Status == SubscriptionActive && sub.EndDate != nil && sub.EndDate.Before(now)) ||
			(sub.Status == SubscriptionTrial && sub.IsTrialActive && sub.TrialEndDate != nil && sub.TrialEndDate.Before(now))
		if !due {
			continue
		}
		sub.Status = SubscriptionExpired
		sub.IsTrialActive = false
		u.UpdatedAt = time.Now().UTC()
		expired = append(expired, ExpiredUser{Email: u.Email, Name: u.Name})
	}
	return expired, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			u.Status = status
			u.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) List(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		clone.PasswordHash = ""
		users = append(users, clone)
	}
	return users, nil
}
