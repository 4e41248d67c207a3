package account

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/store"
	"github.com/nhle/reminders/tests/testutil"
)

type messages struct{ got []string }

func (m *messages) Push(message string, kind model.NotificationKind) model.Notification {
	m.got = append(m.got, string(kind)+": "+message)
	return model.Notification{Message: message, Kind: kind}
}

func newTestManager(t *testing.T) (*Manager, *store.SQLiteStore, *messages) {
	t.Helper()
	kv := testutil.NewTestStore(t)
	msgs := &messages{}
	m := New(kv, msgs, nil)
	require.NoError(t, m.Load(context.Background()))
	return m, kv, msgs
}

// fieldErrors returns the ozzo field errors carried by err.
func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	var errs validation.Errors
	require.True(t, errors.As(err, &errs), "expected validation errors, got %v", err)
	return errs
}

func TestSignInDerivesNameFromEmail(t *testing.T) {
	m, kv, msgs := newTestManager(t)
	ctx := context.Background()

	u, err := m.SignIn(ctx, " jane.doe@example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", u.Name)
	assert.Equal(t, "jane.doe@example.com", u.Email)
	assert.Equal(t, []string{"success: Welcome back, jane.doe!"}, msgs.got)

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, u, cur)

	raw, err := kv.Get(ctx, store.KeyUser)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret1", "passwords are never stored")
}

func TestSignInValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		fields   []string
	}{
		{"missing both", "", "", []string{"email", "password"}},
		{"bad email", "not-an-email", "secret1", []string{"email"}},
		{"short password", "a@b.co", "12345", []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, msgs := newTestManager(t)

			_, err := m.SignIn(context.Background(), tt.email, tt.password)
			errs := fieldErrors(t, err)
			for _, f := range tt.fields {
				assert.Contains(t, errs, f)
			}
			assert.Len(t, errs, len(tt.fields))

			_, ok := m.Current()
			assert.False(t, ok)
			assert.Empty(t, msgs.got)
		})
	}
}

func TestSignUp(t *testing.T) {
	m, _, msgs := newTestManager(t)

	u, err := m.SignUp(context.Background(), "  Ada Lovelace ", "ada@example.com", "Engine42", "Engine42")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, DefaultTheme, u.Theme)
	assert.Equal(t, []string{"success: Welcome to Reminder App, Ada Lovelace!"}, msgs.got)
}

func TestSignUpValidation(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.SignUp(context.Background(), "A", "ada@example", "12345", "")
	errs := fieldErrors(t, err)
	assert.EqualError(t, errs["name"], "Name must be at least 2 characters")
	assert.EqualError(t, errs["email"], "Please enter a valid email")
	assert.EqualError(t, errs["password"], "Password must be at least 6 characters")
	assert.EqualError(t, errs["confirm"], "Please confirm your password")

	_, err = m.SignUp(context.Background(), "Ada", "ada@example.com", "secret1", "secret2")
	errs = fieldErrors(t, err)
	assert.Len(t, errs, 1)
	assert.EqualError(t, errs["confirm"], "Passwords do not match")
}

func TestDemoAndSignOut(t *testing.T) {
	m, kv, msgs := newTestManager(t)
	ctx := context.Background()

	u, err := m.Demo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Demo User", u.Name)
	assert.Equal(t, "demo@example.com", u.Email)

	require.NoError(t, m.SignOut(ctx))
	_, ok := m.Current()
	assert.False(t, ok)

	_, err = kv.Get(ctx, store.KeyUser)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, "info: You have been signed out", msgs.got[len(msgs.got)-1])
}

func TestLoadRestoresSession(t *testing.T) {
	m, kv, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.SignIn(ctx, "sam@example.com", "password")
	require.NoError(t, err)

	again := New(kv, nil, nil)
	require.NoError(t, again.Load(ctx))
	u, ok := again.Current()
	require.True(t, ok)
	assert.Equal(t, "sam", u.Name)
}

func TestLoadCorruptUserIsSignedOut(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":   `{{`,
		"no email":  `{"name":"x"}`,
		"json null": `null`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := testutil.NewTestStore(t)
			testutil.Seed(t, kv, map[string]string{store.KeyUser: raw})

			m := New(kv, nil, nil)
			require.NoError(t, m.Load(context.Background()))
			_, ok := m.Current()
			assert.False(t, ok)
		})
	}
}

func TestUpdate(t *testing.T) {
	m, _, msgs := newTestManager(t)
	ctx := context.Background()

	_, err := m.Update(ctx, model.User{Name: "Nobody"})
	assert.ErrorIs(t, err, ErrSignedOut)

	_, err = m.SignIn(ctx, "sam@example.com", "password")
	require.NoError(t, err)

	off := false
	u, err := m.Update(ctx, model.User{Name: "Sam Carter", Email: "other@example.com", Bio: " hi ", Notifications: &off, Theme: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", u.Email, "email is fixed")
	assert.Equal(t, "hi", u.Bio)
	assert.False(t, u.NotificationsEnabled())
	assert.Equal(t, "SC", u.Initials())
	assert.Equal(t, "success: Profile updated!", msgs.got[len(msgs.got)-1])

	_, err = m.Update(ctx, model.User{Name: "Sam", Theme: "neon"})
	assert.Contains(t, fieldErrors(t, err), "theme")
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		pw   string
		want Strength
	}{
		{"", StrengthNone},
		{"abc", StrengthWeak},
		{"abcdef", StrengthMedium},
		{"abcdefg", StrengthMedium},
		{"abcdefgh", StrengthMedium},
		{"Abcdefg1", StrengthStrong},
		{"ABCDEFG1", StrengthMedium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PasswordStrength(tt.pw), tt.pw)
	}
	assert.Equal(t, "Strong", StrengthStrong.String())
	assert.Equal(t, "", StrengthNone.String())
}
