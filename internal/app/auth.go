package app

import (
	"context"
	"errors"
	"fmt"

	"hotel_desk/internal/adapters/auth"
	"hotel_desk/internal/domain"
)

// AuthService signs staff in and out of the desk.
type AuthService struct {
	staff  domain.StaffRepository
	tokens *auth.TokenService
}

func NewAuthService(staff domain.StaffRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{staff: staff, tokens: tokens}
}

// Login verifies credentials and returns a signed token plus the staff
// record. Unknown usernames and wrong passwords are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.Staff, error) {
	st, err := s.staff.GetStaffByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.Staff{}, auth.ErrBadCredentials
		}
		return "", domain.Staff{}, err
	}
	if err := auth.CheckPassword(st.PasswordHash, password); err != nil {
		return "", domain.Staff{}, auth.ErrBadCredentials
	}
	token, err := s.tokens.Issue(st)
	if err != nil {
		return "", domain.Staff{}, err
	}
	return token, st, nil
}

// Register creates a staff account with a hashed password.
func (s *AuthService) Register(ctx context.Context, st domain.Staff, password string) (domain.Staff, error) {
	if st.Username == "" || password == "" {
		return domain.Staff{}, fmt.Errorf("%w: username and password required", ErrInvalidInput)
	}
	if st.Role == "" {
		st.Role = domain.RoleClerk
	}
	if !st.Role.Valid() {
		return domain.Staff{}, fmt.Errorf("%w: role %q", ErrInvalidInput, st.Role)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.Staff{}, err
	}
	st.PasswordHash = hash
	id, err := s.staff.CreateStaff(ctx, st)
	if err != nil {
		return domain.Staff{}, err
	}
	return s.staff.GetStaff(ctx, id)
}

func (s *AuthService) Me(ctx context.Context, staffID int64) (domain.Staff, error) {
	return s.staff.GetStaff(ctx, staffID)
}
