package memory

import (
	"context"
	"sort"
	"time"

	"shopez/models"
	"shopez/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct{ s *Store }

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	remember(ctx, r.s.users, u.ID)
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u.Password = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) CountByRole(_ context.Context, role string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type SettingsRepository struct{ s *Store }

var _ repository.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) Get(_ context.Context) (*models.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.s.settings
	return &out, nil
}

func (r *SettingsRepository) SetBanner(ctx context.Context, banner string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rememberSettings(ctx)
	r.s.settings.Banner = banner
	return nil
}

type TokenBlacklist struct{ s *Store }

var _ repository.TokenBlacklist = (*TokenBlacklist)(nil)

func (b *TokenBlacklist) Add(_ context.Context, token string, expiresAt time.Time) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	b.s.blacklist[token] = expiresAt
	return nil
}

func (b *TokenBlacklist) Contains(_ context.Context, token string) (bool, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	exp, ok := b.s.blacklist[token]
	if ok && time.Now().After(exp) {
		delete(b.s.blacklist, token)
		return false, nil
	}
	return ok, nil
}
