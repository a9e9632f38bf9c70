package api

import (
	"context"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/limphasa/schemectl/pkg/scheme"
)

// AccountsService handles authentication and user administration
type AccountsService struct {
	client *Client
	inval  *Invalidator
}

// Credentials is a login request
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterDraft is a self-registration request. New accounts always
// start as unapproved farmers; an admin assigns roles later.
type RegisterDraft struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// loginResponse is the wire shape of a successful login
type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *scheme.User `json:"user"`
}

// Login authenticates and stores the resulting session atomically. The
// server rejects unapproved accounts; the client does not second-guess
// approval status.
func (s *AccountsService) Login(ctx context.Context, creds Credentials) (*scheme.User, error) {
	if err := validateDraft(creds); err != nil {
		return nil, err
	}
	var resp loginResponse
	if err := s.client.PostPublic(ctx, "/accounts/login/", creds, &resp); err != nil {
		return nil, err
	}
	token := &oauth2.Token{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		TokenType:    "Bearer",
	}
	if err := s.client.sessions.Login(token, resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout revokes the refresh credential server-side on a best-effort
// basis and clears the local session either way. Safe to call when
// already logged out.
func (s *AccountsService) Logout(ctx context.Context) error {
	if sess := s.client.sessions.Current(); sess.Valid() && sess.Token.RefreshToken != "" {
		payload := map[string]string{"refresh": sess.Token.RefreshToken}
		if err := s.client.PostPublic(ctx, "/logout/", payload, nil); err != nil {
			s.client.logger.WithError(err).Warn("server-side logout failed, clearing local session anyway")
		}
	}
	return s.client.sessions.Logout()
}

// Register creates a new unapproved account
func (s *AccountsService) Register(ctx context.Context, draft RegisterDraft) (*scheme.User, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	var user scheme.User
	if err := s.client.PostPublic(ctx, "/accounts/register/", draft, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile fetches the logged-in user's own record
func (s *AccountsService) Profile(ctx context.Context) (*scheme.User, error) {
	var user scheme.User
	if err := s.client.Get(ctx, "/accounts/profile/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserFilter narrows a user list
type UserFilter struct {
	Role     scheme.Role
	Search   string
	Approved *bool
	Page     int
}

func (f UserFilter) values() url.Values {
	v := url.Values{}
	if f.Role != "" {
		v.Set("role", string(f.Role))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Approved != nil {
		v.Set("is_approved", strconv.FormatBool(*f.Approved))
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v
}

// ListUsers fetches user accounts, scoped by role
func (s *AccountsService) ListUsers(ctx context.Context, filter UserFilter) (*scheme.Page[scheme.User], error) {
	var page scheme.Page[scheme.User]
	if err := s.client.GetScoped(ctx, "/accounts/users/", filter.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserPatch is a partial user update; nil fields are left unchanged
type UserPatch struct {
	FirstName  *string      `json:"first_name,omitempty"`
	LastName   *string      `json:"last_name,omitempty"`
	Email      *string      `json:"email,omitempty"`
	Role       *scheme.Role `json:"role,omitempty"`
	Block      *int64       `json:"block,omitempty"`
	Section    *int64       `json:"section,omitempty"`
	IsApproved *bool        `json:"is_approved,omitempty"`
}

// UpdateUser applies a partial update to a user account. Assigning the
// block_chair role requires block and section; the server enforces it,
// the client checks it first to fail with field errors.
func (s *AccountsService) UpdateUser(ctx context.Context, id int64, patch UserPatch) (*scheme.User, error) {
	if patch.Role != nil && *patch.Role == scheme.RoleBlockChair {
		fields := map[string]string{}
		if patch.Block == nil || *patch.Block == 0 {
			fields["block"] = "block is required for the block chair role"
		}
		if patch.Section == nil || *patch.Section == 0 {
			fields["section"] = "section is required for the block chair role"
		}
		if len(fields) > 0 {
			return nil, &Error{Kind: KindValidation, Fields: fields}
		}
	}

	var user scheme.User
	if err := s.client.Patch(ctx, pathID("/accounts/users/", id), patch, &user); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceUsers, OpUpdated)
	return &user, nil
}

// ApproveUser marks a pending account as approved
func (s *AccountsService) ApproveUser(ctx context.Context, id int64) (*scheme.User, error) {
	approved := true
	return s.UpdateUser(ctx, id, UserPatch{IsApproved: &approved})
}

// DeleteUser removes a user account
func (s *AccountsService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, pathID("/accounts/users/", id)); err != nil {
		return err
	}
	s.inval.Notify(ResourceUsers, OpDeleted)
	return nil
}
