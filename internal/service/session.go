package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/pokedex-client/internal/logger"
	"github.com/dtroode/pokedex-client/internal/model"
	"github.com/dtroode/pokedex-client/internal/stream"
)

// Messages surfaced in form states.
const (
	MsgEmptyCredentials   = "Username and password cannot be empty"
	MsgInvalidCredentials = "Invalid credentials"
	MsgLoginFailed        = "Login failed"
	MsgEmptyUsername      = "Username cannot be empty"
	MsgInvalidEmail       = "Valid email is required"
	MsgShortPassword      = "Password must be at least 6 characters"
	MsgPasswordMismatch   = "Passwords don't match"
	MsgEmailRegistered    = "Email already registered"
	MsgRegisterFailed     = "Registration failed"
	MsgProfileFailed      = "Failed to load profile"
)

const minPasswordLength = 6

// Session drives login, registration and logout over the credential store.
type Session struct {
	credentials *Credentials
	hasher      model.CredentialHasher
	validate    *validator.Validate
	logger      *logger.Logger

	login    *stream.Stream[model.LoginState]
	register *stream.Stream[model.RegisterState]
	profile  *stream.Stream[model.ProfileState]

	tasks *group
}

func NewSession(credentials *Credentials, hasher model.CredentialHasher, logger *logger.Logger) *Session {
	return &Session{
		credentials: credentials,
		hasher:      hasher,
		validate:    validator.New(),
		logger:      logger,
		login:       stream.New(model.LoginState{}),
		register:    stream.New(model.RegisterState{}),
		profile:     stream.New(model.ProfileState{}),
		tasks:       newGroup(),
	}
}

func (s *Session) LoginState() *stream.Stream[model.LoginState] {
	return s.login
}

func (s *Session) RegisterState() *stream.Stream[model.RegisterState] {
	return s.register
}

func (s *Session) ProfileState() *stream.Stream[model.ProfileState] {
	return s.profile
}

// IsAuthenticated is the credential store's session flag signal.
func (s *Session) IsAuthenticated() *stream.Stream[bool] {
	return s.credentials.ObserveSessionFlag()
}

// UpdateLoginForm merges the provided fields and clears any previous error.
func (s *Session) UpdateLoginForm(form model.LoginForm) {
	s.login.Update(func(st model.LoginState) model.LoginState {
		if form.Username != nil {
			st.Username = *form.Username
		}
		if form.Password != nil {
			st.Password = *form.Password
		}
		st.Error = ""
		return st
	})
}

// Login validates the form locally and submits it in the background.
func (s *Session) Login() {
	var (
		submit bool
		form   model.LoginState
	)

	s.login.Update(func(st model.LoginState) model.LoginState {
		if st.Loading {
			return st
		}
		if strings.TrimSpace(st.Username) == "" || strings.TrimSpace(st.Password) == "" {
			st.Success = false
			st.Error = loginMessage(model.ErrEmptyCredentials)
			return st
		}
		st.Loading = true
		st.Success = false
		st.Error = ""
		submit, form = true, st
		return st
	})

	if !submit {
		return
	}

	s.tasks.Go(func(ctx context.Context) {
		err := s.authenticate(ctx, form.Username, form.Password)

		s.login.Update(func(st model.LoginState) model.LoginState {
			st.Loading = false
			st.Success = err == nil
			st.Error = ""
			if err != nil {
				st.Error = loginMessage(err)
			}
			return st
		})
	})
}

func (s *Session) authenticate(ctx context.Context, email, password string) error {
	s.logger.Debug("Session service: starting login",
		"email", email)

	identity, err := s.credentials.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Session service: unknown email",
			"email", email)
		return model.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	if !s.hasher.Verify(identity.Token, password) {
		s.logger.Info("Session service: password mismatch",
			"email", email)
		return model.ErrInvalidCredentials
	}

	if err := s.credentials.SetSessionFlag(ctx, identity.Email, identity.Token); err != nil {
		return err
	}

	s.logger.Info("Session service: login completed successfully",
		"email", email)

	return nil
}

// UpdateRegisterForm merges the provided fields and clears any previous error.
func (s *Session) UpdateRegisterForm(form model.RegisterForm) {
	s.register.Update(func(st model.RegisterState) model.RegisterState {
		if form.Username != nil {
			st.Username = *form.Username
		}
		if form.Email != nil {
			st.Email = *form.Email
		}
		if form.Password != nil {
			st.Password = *form.Password
		}
		if form.ConfirmPassword != nil {
			st.ConfirmPassword = *form.ConfirmPassword
		}
		st.Error = ""
		return st
	})
}

// ResetRegisterForm clears the registration buffer and its outcome.
func (s *Session) ResetRegisterForm() {
	s.register.Set(model.RegisterState{})
}

// Register validates the form locally and submits it in the background.
// A successful registration does not log in.
func (s *Session) Register() {
	var (
		submit bool
		form   model.RegisterState
	)

	s.register.Update(func(st model.RegisterState) model.RegisterState {
		if st.Loading {
			return st
		}
		if err := s.validateRegistration(st); err != nil {
			st.Success = false
			st.Error = err.Error()
			return st
		}
		st.Loading = true
		st.Success = false
		st.Error = ""
		submit, form = true, st
		return st
	})

	if !submit {
		return
	}

	s.tasks.Go(func(ctx context.Context) {
		err := s.createIdentity(ctx, form)

		s.register.Update(func(st model.RegisterState) model.RegisterState {
			st.Loading = false
			st.Success = err == nil
			st.Error = ""
			if err != nil {
				st.Error = registerMessage(err)
			}
			return st
		})
	})
}

// validateRegistration checks the rules in order and reports the first violation.
func (s *Session) validateRegistration(st model.RegisterState) error {
	if strings.TrimSpace(st.Username) == "" {
		return model.NewValidationError("username", "required", MsgEmptyUsername)
	}
	if strings.TrimSpace(st.Email) == "" || s.validate.Var(st.Email, "email") != nil {
		return model.NewValidationError("email", "email", MsgInvalidEmail)
	}
	if utf8.RuneCountInString(st.Password) < minPasswordLength {
		return model.NewValidationError("password", "min", MsgShortPassword)
	}
	if st.Password != st.ConfirmPassword {
		return model.NewValidationError("confirmPassword", "eqfield", MsgPasswordMismatch)
	}
	return nil
}

func (s *Session) createIdentity(ctx context.Context, form model.RegisterState) error {
	s.logger.Debug("Session service: starting registration",
		"email", form.Email)

	token, err := s.hasher.Derive(form.Password)
	if err != nil {
		s.logger.Error("Session service: failed to derive token",
			"email", form.Email,
			"error", err.Error())
		return err
	}

	if _, err := s.credentials.CreateIdentity(ctx, form.Email, form.Username, token); err != nil {
		return err
	}

	s.logger.Info("Session service: registration completed successfully",
		"email", form.Email)

	return nil
}

// Logout clears the session flag in the background. The identity is kept.
func (s *Session) Logout() {
	s.tasks.Go(func(ctx context.Context) {
		if err := s.credentials.ClearSessionFlag(ctx); err != nil {
			s.logger.Error("Session service: failed to logout",
				"error", err.Error())
			return
		}
		s.profile.Set(model.ProfileState{})
		s.logger.Info("Session service: logged out")
	})
}

// LoadProfile resolves the current identity in the background.
func (s *Session) LoadProfile() {
	s.profile.Update(func(st model.ProfileState) model.ProfileState {
		st.Loading = true
		return st
	})

	s.tasks.Go(func(ctx context.Context) {
		identity, err := s.credentials.CurrentIdentity(ctx)

		s.profile.Update(func(st model.ProfileState) model.ProfileState {
			st.Loading = false
			switch {
			case err == nil:
				st.Identity = &identity
				st.Error = ""
			case errors.Is(err, model.ErrNotFound):
				st.Identity = nil
				st.Error = ""
			default:
				st.Error = errorMessage(err, MsgProfileFailed)
			}
			return st
		})
	})
}

// Close cancels in-flight submissions and waits for them.
func (s *Session) Close() {
	s.tasks.Close()
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrEmptyCredentials):
		return MsgEmptyCredentials
	case errors.Is(err, model.ErrInvalidCredentials):
		return MsgInvalidCredentials
	}
	return errorMessage(err, MsgLoginFailed)
}

func registerMessage(err error) string {
	if errors.Is(err, model.ErrDuplicateEmail) {
		return MsgEmailRegistered
	}
	return errorMessage(err, MsgRegisterFailed)
}
