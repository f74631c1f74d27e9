package backend

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
	"habitpet/internal/pkg/randx"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 50
)

func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}

// SignUp creates an account with a bcrypt-hashed password.
func (s *Store) SignUp(req api.SignUpRequest) (Account, *errs.CustomError) {
	email, ok := normalizeEmail(req.Email)
	if !ok {
		return Account{}, errs.NewError(errs.ErrInvalidParams, "email")
	}

	passwordLen := utf8.RuneCountInString(req.Password)
	if passwordLen < minPasswordLength || passwordLen > maxPasswordLength {
		return Account{}, errs.NewError(errs.ErrInvalidParams, "password must be 6 to 50 characters")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Account{}, errs.NewError(errs.ErrInvalidParams, "name")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, errs.NewError(errs.ErrUnknown, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		logx.Warn("signup conflict: email already exists", "email", email)
		return Account{}, errs.NewError(errs.ErrEmailExists)
	}

	a := &account{
		id:           s.id(),
		email:        email,
		name:         name,
		nickName:     strings.TrimSpace(req.NickName),
		phoneNumber:  strings.TrimSpace(req.PhoneNumber),
		role:         RoleUser,
		passwordHash: hashedPassword,
		version:      1,
		createdAt:    s.now(),
		updatedAt:    s.now(),
	}
	s.accounts[a.id] = a
	s.byEmail[email] = a.id

	s.logger.Info().Int64("user_id", a.id).Msg("Account created")
	return a.view(), nil
}

// Login verifies the credentials.
func (s *Store) Login(req api.LoginRequest) (Account, *errs.CustomError) {
	email, _ := normalizeEmail(req.Email)

	s.mu.RLock()
	id, ok := s.byEmail[email]
	var a *account
	if ok {
		a = s.accounts[id]
	}
	s.mu.RUnlock()

	if a == nil || a.passwordHash == nil {
		logx.Warn("login: unknown account", "email", email)
		return Account{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)); err != nil {
		logx.Warn("login: password mismatch", "user_id", a.id)
		return Account{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return a.view(), nil
}

// GoogleLogin signs in with a Google ID token, creating the account on first use.
// The development server does not verify tokens with Google: the ID token is
// taken to be the account email.
func (s *Store) GoogleLogin(req api.GoogleLoginRequest) (Account, *errs.CustomError) {
	email, ok := normalizeEmail(req.IDToken)
	if !ok {
		return Account{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.byEmail[email]; exists {
		return s.accounts[id].view(), nil
	}

	name, err := randx.Nickname("Google")
	if err != nil {
		name = "Google_User"
	}

	a := &account{
		id:      s.id(),
		email:   email,
		name:    name,
		role:      RoleUser,
		version:   1,
		createdAt: s.now(),
		updatedAt: s.now(),
	}
	s.accounts[a.id] = a
	s.byEmail[email] = a.id

	s.logger.Info().Int64("user_id", a.id).Msg("Account created from Google sign-in")
	return a.view(), nil
}
