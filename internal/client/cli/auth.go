package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/discera/discera-client/internal/client/client"
	"github.com/discera/discera-client/internal/client/models"
	"github.com/discera/discera-client/internal/client/services"
	"github.com/discera/discera-client/internal/common"
)

// Indirections over the interactive input helpers, swapped in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getYesNo           = GetYesNo
	getPassword        = GetPassword
)

// Login prompts for credentials and the remember-me choice, validates them
// and logs in. The remembered email is offered as the default.
func (a *App) Login(ctx context.Context) error {
	remembered, err := a.session.RememberedEmail(ctx)
	if err != nil {
		a.log.Warn(ctx, "cannot read remembered email", "error", err)
	}

	email, err := getTextWithDefault(a.reader, "Enter email", remembered, a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rememberMe, err := getYesNo(a.reader, "Remember me?", a.out)
	if err != nil {
		return err
	}

	form := models.LoginForm{Email: email, Password: string(password), RememberMe: rememberMe}
	if err := form.Validate(); err != nil {
		a.println(describeError(err))
		return err
	}

	user, err := a.session.Login(ctx, form.Email, form.Password, services.WithRememberMe(form.RememberMe))
	if err != nil {
		a.println("Login failed:", describeError(err))
		return err
	}

	a.printf("Welcome, %s!\n", displayName(user))
	return nil
}

// Register collects the registration form, validates it locally and, when
// it passes, asks for the remember-me choice, creates the account and logs
// in with it.
func (a *App) Register(ctx context.Context) error {
	var form models.RegisterForm
	var err error

	if form.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if form.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if form.FullName, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}
	roleText, err := getTextWithDefault(a.reader, "Enter role (student, teacher, admin)", string(models.RoleStudent), a.out)
	if err != nil {
		return err
	}
	if form.Role, err = models.ParseRole(roleText); err != nil {
		a.println(describeError(err))
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	form.Password, form.ConfirmPassword = string(password), string(confirm)
	if err := form.Validate(a.config.MinPasswordLength); err != nil {
		a.println(describeError(err))
		return err
	}

	rememberMe, err := getYesNo(a.reader, "Remember me?", a.out)
	if err != nil {
		return err
	}

	user, err := a.session.Register(ctx, form.Request(), services.WithRememberMe(rememberMe))
	if err != nil {
		a.println("Registration failed:", describeError(err))
		return err
	}

	a.printf("Account created. Welcome, %s!\n", displayName(user))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.println("Logged out, but the stored session could not be removed:", err)
		return err
	}
	a.println("Logged out.")
	return nil
}

// Whoami prints the current user.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.Snapshot().User
	if u == nil {
		a.println("Not logged in.")
		return nil
	}
	a.printf("%s <%s>\n  username: %s\n  role:     %s\n  active:   %t\n", u.FullName, u.Email, u.Username, u.Role, u.IsActive)
	return nil
}

// Status re-validates the stored session with the server and prints the
// resulting state.
func (a *App) Status(ctx context.Context) error {
	if err := a.session.CheckAuth(ctx); err != nil {
		return err
	}
	snap := a.session.Snapshot()
	if snap.User != nil {
		a.printf("Session: %s as %s\n", snap.Phase, snap.User.Email)
	} else {
		a.printf("Session: %s\n", snap.Phase)
	}
	return nil
}

// ResetPassword asks the server to send a password reset link.
func (a *App) ResetPassword(ctx context.Context) error {
	remembered, _ := a.session.RememberedEmail(ctx)
	email, err := getTextWithDefault(a.reader, "Enter email", remembered, a.out)
	if err != nil {
		return err
	}
	if err := models.ValidateEmail(email); err != nil {
		a.println(describeError(err))
		return err
	}
	if err := a.session.RequestPasswordReset(ctx, email); err != nil {
		a.println("Password reset failed:", describeError(err))
		return err
	}
	a.println("If the address is registered, a reset link is on its way.")
	return nil
}

// describeError turns a session or form error into a line for the user.
func describeError(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("Invalid %s: %s", ve.Field, ve.Message)
	}

	var detail string
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		detail = apiErr.Detail
	}

	var msg string
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		msg = "wrong email or password"
	case errors.Is(err, client.ErrValidation):
		msg = "the server rejected the data"
	case errors.Is(err, client.ErrUnavailable):
		msg = "server unavailable, try again later"
	case errors.Is(err, services.ErrSuperseded):
		msg = "cancelled by a newer request"
	default:
		return err.Error()
	}
	if detail != "" {
		return msg + " (" + detail + ")"
	}
	return msg
}

func displayName(u *models.User) string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
