package repository

import (
	"context" // Request context
	"strings" // Email normalization

	"storefront/internal/domain" // Importing domain models
)

// UserRepository manages accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (uint, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete hard-deletes the user row only. Callers purge dependent rows first.
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetStatus(ctx context.Context, id uint, status domain.UserStatus) error
	SetRole(ctx context.Context, id uint, role domain.UserRole) error
}

type userRepository struct {
	conn Conn
}

func NewUserRepository(conn Conn) UserRepository {
	return &userRepository{conn: conn}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUser(user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return &domain.ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	if user.PasswordHash == "" {
		return &domain.ValidationError{Field: "password_hash", Reason: "must not be empty"}
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer // Default role
	}
	if user.Role != domain.RoleCustomer && user.Role != domain.RoleAdmin {
		return &domain.ValidationError{Field: "role", Reason: "must be customer or admin"}
	}
	if user.Status == "" {
		user.Status = domain.UserActive // Default status
	}
	if user.Status != domain.UserActive && user.Status != domain.UserDisabled {
		return &domain.ValidationError{Field: "status", Reason: "must be active or disabled"}
	}
	return nil
}

func (r *userRepository) emailTaken(ctx context.Context, email string, exceptID uint) error {
	var n int64
	err := r.conn.DB(ctx).Model(&domain.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&n).Error // Any other holder
	if err != nil {
		return err
	}
	if n > 0 {
		return &domain.UniquenessViolation{Entity: "user", Key: "email " + email}
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (uint, error) {
	if err := validateUser(user); err != nil {
		return 0, err
	}
	err := r.conn.Atomic(ctx, func(ctx context.Context) error {
		if err := r.emailTaken(ctx, user.Email, 0); err != nil {
			return err
		}
		return translate(r.conn.DB(ctx).Create(user).Error, "user", "email "+user.Email)
	})
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if err := validateUser(user); err != nil {
		return err
	}
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "user", &domain.User{}, user.ID); err != nil {
			return err
		}
		if err := r.emailTaken(ctx, user.Email, user.ID); err != nil {
			return err
		}
		err := db.Model(user).Select("name", "email", "phone", "password_hash", "role", "status", "updated_at").Updates(user).Error
		return translate(err, "user", "email "+user.Email)
	})
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "user", &domain.User{}, id); err != nil {
			return err
		}
		return db.Delete(&domain.User{}, id).Error // Delete user
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return findOne[domain.User](r.conn.DB(ctx).Where("id = ?", id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](r.conn.DB(ctx).Where("email = ?", normalizeEmail(email)))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.conn.DB(ctx).Order("id asc").Find(&users).Error
	return users, err
}

func (r *userRepository) SetStatus(ctx context.Context, id uint, status domain.UserStatus) error {
	if status != domain.UserActive && status != domain.UserDisabled {
		return &domain.ValidationError{Field: "status", Reason: "must be active or disabled"}
	}
	return r.updateColumn(ctx, id, "status", status)
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role domain.UserRole) error {
	if role != domain.RoleCustomer && role != domain.RoleAdmin {
		return &domain.ValidationError{Field: "role", Reason: "must be customer or admin"}
	}
	return r.updateColumn(ctx, id, "role", role)
}

func (r *userRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "user", &domain.User{}, id); err != nil {
			return err
		}
		return db.Model(&domain.User{ID: id}).Update(column, value).Error
	})
}
