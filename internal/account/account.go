// Package account simulates sign-in and sign-up. Credentials are checked for
// shape only and passwords are never stored; the signed-in profile is kept
// under the "user" key and removed on sign-out.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/nhle/reminders/internal/logging"
	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/store"
)

// DefaultTheme is applied to profiles that never picked one.
const DefaultTheme = "beige"

// MaxBioLength caps the profile bio.
const MaxBioLength = 280

// Themes lists the selectable profile themes.
var Themes = []string{"beige", "dark", "light"}

// ErrSignedOut is returned by operations that need a signed-in user.
var ErrSignedOut = errors.New("not signed in")

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Notifier receives welcome and sign-out messages.
type Notifier interface {
	Push(message string, kind model.NotificationKind) model.Notification
}

// Manager owns the current session.
type Manager struct {
	mu       sync.Mutex
	kv       store.Store
	notifier Notifier
	logger   *zap.Logger
	user     *model.User
}

// New creates a signed-out Manager. Call Load to restore a saved session.
func New(kv store.Store, n Notifier, logger *zap.Logger) *Manager {
	return &Manager{kv: kv, notifier: n, logger: logging.OrNop(logger)}
}

// Load restores the saved user. Missing or unreadable data means signed out.
func (m *Manager) Load(ctx context.Context) error {
	raw, err := m.kv.Get(ctx, store.KeyUser)
	if errors.Is(err, store.ErrNotFound) {
		m.set(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}

	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil || u.Email == "" {
		m.logger.Warn("discarding unreadable user", zap.Error(err))
		m.set(nil)
		return nil
	}
	m.set(&u)
	return nil
}

// Current returns the signed-in user.
func (m *Manager) Current() (model.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

// SignIn accepts any well-formed email with a password of at least six
// characters. The display name is the part of the email before the @.
func (m *Manager) SignIn(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	err := validation.Errors{
		"email":    ValidateEmail(email),
		"password": ValidatePassword(password),
	}.Filter()
	if err != nil {
		return model.User{}, err
	}

	u := model.User{Name: localPart(email), Email: email, Theme: DefaultTheme}
	if err := m.save(ctx, u); err != nil {
		return model.User{}, err
	}
	m.notify(fmt.Sprintf("Welcome back, %s!", u.Name), model.KindSuccess)
	return u, nil
}

// SignUp registers a new local profile.
func (m *Manager) SignUp(ctx context.Context, name, email, password, confirm string) (model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	err := validation.Errors{
		"name":     ValidateName(name),
		"email":    ValidateEmail(email),
		"password": ValidatePassword(password),
		"confirm": validation.Validate(confirm,
			validation.Required.Error("Please confirm your password"),
			validation.In(password).Error("Passwords do not match"),
		),
	}.Filter()
	if err != nil {
		return model.User{}, err
	}

	u := model.User{Name: name, Email: email, Theme: DefaultTheme}
	if err := m.save(ctx, u); err != nil {
		return model.User{}, err
	}
	m.notify(fmt.Sprintf("Welcome to Reminder App, %s!", u.Name), model.KindSuccess)
	return u, nil
}

// Demo signs in as the built-in demo user.
func (m *Manager) Demo(ctx context.Context) (model.User, error) {
	u := model.User{Name: "Demo User", Email: "demo@example.com", Theme: DefaultTheme}
	if err := m.save(ctx, u); err != nil {
		return model.User{}, err
	}
	m.notify(fmt.Sprintf("Welcome back, %s!", u.Name), model.KindSuccess)
	return u, nil
}

// SignOut forgets the current user.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.kv.Delete(ctx, store.KeyUser); err != nil {
		return fmt.Errorf("removing user: %w", err)
	}
	m.set(nil)
	m.notify("You have been signed out", model.KindInfo)
	return nil
}

// Update saves profile edits. The email cannot change.
func (m *Manager) Update(ctx context.Context, profile model.User) (model.User, error) {
	cur, ok := m.Current()
	if !ok {
		return model.User{}, ErrSignedOut
	}

	profile.Name = strings.TrimSpace(profile.Name)
	profile.Bio = strings.TrimSpace(profile.Bio)
	if profile.Theme == "" {
		profile.Theme = DefaultTheme
	}
	err := validation.ValidateStruct(&profile,
		validation.Field(&profile.Name, nameRules...),
		validation.Field(&profile.Bio, validation.RuneLength(0, MaxBioLength)),
		validation.Field(&profile.Theme, validation.In(toAny(Themes)...)),
	)
	if err != nil {
		return model.User{}, err
	}

	profile.Email = cur.Email
	if err := m.save(ctx, profile); err != nil {
		return model.User{}, err
	}
	m.notify("Profile updated!", model.KindSuccess)
	return profile, nil
}

func (m *Manager) save(ctx context.Context, u model.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	if err := m.kv.Put(ctx, store.KeyUser, raw); err != nil {
		return fmt.Errorf("persisting user: %w", err)
	}
	m.set(&u)
	m.logger.Debug("user saved", zap.String("email", u.Email))
	return nil
}

func (m *Manager) set(u *model.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

func (m *Manager) notify(message string, kind model.NotificationKind) {
	if m.notifier != nil {
		m.notifier.Push(message, kind)
	}
}

var nameRules = []validation.Rule{
	validation.Required.Error("Name is required"),
	validation.RuneLength(2, 0).Error("Name must be at least 2 characters"),
}

// ValidateName requires at least two characters.
func ValidateName(name string) error {
	return validation.Validate(name, nameRules...)
}

// ValidateEmail checks the sign-in and sign-up email field.
func ValidateEmail(email string) error {
	return validation.Validate(email,
		validation.Required.Error("Email is required"),
		validation.Match(emailPattern).Error("Please enter a valid email"),
	)
}

// ValidatePassword requires at least 6 characters.
func ValidatePassword(password string) error {
	return validation.Validate(password,
		validation.Required.Error("Password is required"),
		validation.RuneLength(6, 0).Error("Password must be at least 6 characters"),
	)
}

func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Strength grades a password for the sign-up form.
type Strength int

const (
	StrengthNone Strength = iota
	StrengthWeak
	StrengthMedium
	StrengthStrong
)

// String returns the label shown next to the strength bar.
func (s Strength) String() string {
	switch s {
	case StrengthWeak:
		return "Weak"
	case StrengthMedium:
		return "Medium"
	case StrengthStrong:
		return "Strong"
	default:
		return ""
	}
}

// PasswordStrength rates pw: under 6 characters is weak, under 8 medium, and
// 8 or more with lower case, upper case and a digit strong.
func PasswordStrength(pw string) Strength {
	n := len([]rune(pw))
	switch {
	case n == 0:
		return StrengthNone
	case n < 6:
		return StrengthWeak
	case n < 8:
		return StrengthMedium
	}

	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if lower && upper && digit {
		return StrengthStrong
	}
	return StrengthMedium
}
