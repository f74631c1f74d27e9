package backend

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

const maxNickNameLength = 20

func (a *account) profile() api.Profile {
	return api.Profile{
		ID:          a.id,
		Email:       a.email,
		Name:        a.name,
		NickName:    a.nickName,
		PhoneNumber: a.phoneNumber,
		Role:        a.role,
		CreatedAt:   a.createdAt,
		UpdatedAt:   a.updatedAt,
	}
}

// Profile returns the account record of userID.
func (s *Store) Profile(userID int64) (api.Profile, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.Profile{}, cErr
	}
	return a.profile(), nil
}

// UpdateNickName replaces the account nickname.
func (s *Store) UpdateNickName(userID int64, nickName string) (api.Profile, *errs.CustomError) {
	nickName = strings.TrimSpace(nickName)
	if nickName == "" || utf8.RuneCountInString(nickName) > maxNickNameLength {
		return api.Profile{}, errs.NewError(errs.ErrInvalidParams, "nickName must be 1 to 20 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.Profile{}, cErr
	}
	a.nickName = nickName
	a.updatedAt = s.now()
	return a.profile(), nil
}

// UpdatePassword replaces the password after checking the current one. Issued
// tokens stay valid.
func (s *Store) UpdatePassword(userID int64, req api.PasswordUpdateRequest) *errs.CustomError {
	passwordLen := utf8.RuneCountInString(req.NewPassword)
	if passwordLen < minPasswordLength || passwordLen > maxPasswordLength {
		return errs.NewError(errs.ErrInvalidParams, "password must be 6 to 50 characters")
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.NewPassword {
		return errs.NewError(errs.ErrInvalidParams, "password confirmation does not match")
	}

	s.mu.RLock()
	a, cErr := s.account(userID)
	var current []byte
	if cErr == nil {
		current = a.passwordHash
	}
	s.mu.RUnlock()
	if cErr != nil {
		return cErr
	}

	if current == nil || bcrypt.CompareHashAndPassword(current, []byte(req.CurrentPassword)) != nil {
		logx.Warn("password change: current password mismatch", "user_id", userID)
		return errs.NewError(errs.ErrIncorrectPassword)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errs.NewError(errs.ErrUnknown, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a.passwordHash = hashedPassword
	a.updatedAt = s.now()
	s.logger.Info().Int64("user_id", userID).Msg("Password changed")
	return nil
}
