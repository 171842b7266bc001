package model

// BrowseState is the list view state.
type BrowseState struct {
	Loading     bool
	Items       []Summary
	CanLoadMore bool
	Error       string
}

// DetailState is the detail view state. A nil *DetailState means no detail is requested.
type DetailState struct {
	Loading bool
	Item    *Detail
	Error   string
}

// LoginForm carries partial login field updates. Nil fields are left unchanged.
type LoginForm struct {
	Username *string
	Password *string
}

// LoginState is the login form buffer together with its submission status.
type LoginState struct {
	Username string
	Password string
	Loading  bool
	Success  bool
	Error    string
}

// RegisterForm carries partial registration field updates. Nil fields are left unchanged.
type RegisterForm struct {
	Username        *string
	Email           *string
	Password        *string
	ConfirmPassword *string
}

// RegisterState is the registration form buffer together with its submission status.
type RegisterState struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Loading         bool
	Success         bool
	Error           string
}

// ProfileState is the current user view.
type ProfileState struct {
	Loading  bool
	Identity *Identity
	Error    string
}
