package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// pqUniqueViolation is the SQLSTATE Postgres reports for unique index conflicts.
const pqUniqueViolation = "23505"

// GormStore implements Store over gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.first("FindByID", s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *GormStore) FindByProviderSubject(ctx context.Context, provider Provider, subjectID string) (*User, error) {
	q := s.db.WithContext(ctx).
		Where("provider = ? AND provider_subject_id = ?", provider, subjectID)
	return s.first("FindByProviderSubject", q)
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	q := s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at ASC")
	return s.first("FindByEmail", q)
}

func (s *GormStore) FindLocalByEmail(ctx context.Context, email string) (*User, error) {
	q := s.db.WithContext(ctx).
		Where("provider = ? AND LOWER(email) = ?", ProviderLocal, strings.ToLower(strings.TrimSpace(email)))
	return s.first("FindLocalByEmail", q)
}

// Create assigns an ID when the caller left it empty.
func (s *GormStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("GormStore.Create: %w", ErrConflict)
		}
		return fmt.Errorf("GormStore.Create: %w", err)
	}
	return nil
}

func (s *GormStore) first(op string, q *gorm.DB) (*User, error) {
	var u User
	if err := q.First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GormStore.%s: %w", op, err)
	}
	return &u, nil
}

// isUniqueViolation covers gorm's translated error as well as raw lib/pq
// errors, which gorm's postgres dialector does not translate.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}
