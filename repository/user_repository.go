package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/models"
)

type UserRepository struct {
	base
}

func NewUserRepository(db *sql.DB, opts ...Option) *UserRepository {
	return &UserRepository{base: newBase(db, opts)}
}

const userColumns = `id, email, first_name, last_name, phone, bio, photo_url, role, account_status, created_at`

func scanUser(s rowScanner) (*models.User, error) {
	var u models.User
	var role, status string
	var created int64
	if err := s.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.Bio, &u.PhotoURL, &role, &status, &created); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	u.AccountStatus = models.AccountStatus(status)
	u.CreatedAt = fromMillis(created)
	return &u, nil
}

// EnsureProfile creates the profile on first sign-in and returns the stored one.
// Riders start pending until an administrator activates them; admins start active.
// An existing profile is returned unchanged.
func (r *UserRepository) EnsureProfile(ctx context.Context, id, email string, role models.Role) (*models.User, error) {
	const op = "users.ensure"
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "user id is required")
	}
	if role != models.RoleAdmin && role != models.RoleRider {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "unknown role %q", role)
	}
	status := models.AccountStatusPending
	if role == models.RoleAdmin {
		status = models.AccountStatusActive
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, email, role, account_status, created_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`, id, email, string(role), string(status), r.stamp().UnixMilli())
	if err != nil {
		return nil, classify(op, err)
	}
	return r.get(ctx, op, id)
}

func (r *UserRepository) get(ctx context.Context, op, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(op, "user", id)
		}
		return nil, classify(op, err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.get(ctx, "users.get", id)
}

// UpdateProfile merges the non-nil fields of the patch into the profile.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, p models.ProfilePatch) (*models.User, error) {
	const op = "users.update_profile"
	var sets []string
	var args []any
	str := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, strings.TrimSpace(*v))
		}
	}
	str("first_name", p.FirstName)
	str("last_name", p.LastName)
	str("phone", p.Phone)
	str("bio", p.Bio)
	str("photo_url", p.PhotoURL)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if len(sets) == 0 {
		return r.get(ctx, op, id)
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, notFound(op, "user", id)
	}
	return r.get(ctx, op, id)
}

// SetAccountStatus is used by administrators to activate or deactivate riders.
func (r *UserRepository) SetAccountStatus(ctx context.Context, id string, status models.AccountStatus) (*models.User, error) {
	const op = "users.set_status"
	switch status {
	case models.AccountStatusPending, models.AccountStatusActive, models.AccountStatusInactive:
	default:
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "unknown account status %q", status)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE users SET account_status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return nil, classify(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, notFound(op, "user", id)
	}
	return r.get(ctx, op, id)
}

// UpdateRole sets the role for the given user.
// Intended for administrative flows and tests.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	const op = "users.update_role"
	if role != models.RoleAdmin && role != models.RoleRider {
		return apperr.Errorf(apperr.ValidationFailure, op, "unknown role %q", role)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return classify(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(op, "user", id)
	}
	return nil
}

// ListByRole returns users with the given role ordered by creation time.
func (r *UserRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	const op = "users.list_by_role"
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY created_at, id`, string(role))
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	out := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return classify("users.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("users.delete", "user", id)
	}
	return nil
}
