package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaiderT63/foodgram/internal/apperr"
)

func newUserFixture(t *testing.T) (*UserService, *memUsers) {
	t.Helper()
	users := newMemUsers()
	return &UserService{
		Users:  users,
		Subs:   newMemSubscriptions(users),
		Images: &fakeImageStore{},
	}, users
}

func TestRegister(t *testing.T) {
	svc, users := newUserFixture(t)
	ctx := context.Background()

	view, err := svc.Register(ctx, RegisterInput{
		Email:     "new@x.io",
		Username:  "newbie",
		FirstName: "New",
		LastName:  "User",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "newbie", view.Username)

	stored, err := users.GetByEmail(ctx, "new@x.io")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.Password, "password must be stored hashed")

	// The hash round-trips through Authenticate.
	_, err = svc.Authenticate(ctx, "new@x.io", "s3cret-pass")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "new@x.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	in := RegisterInput{Email: "dup@x.io", Username: "dup", Password: "s3cret-pass"}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
}

func TestGetUserIsSubscribed(t *testing.T) {
	svc, users := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.io", Username: "a", Password: "s3cret-pass"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Email: "b@x.io", Username: "b", Password: "s3cret-pass"})
	require.NoError(t, err)

	a, err := users.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	b, err := users.GetByEmail(ctx, "b@x.io")
	require.NoError(t, err)

	subs := svc.Subs.(*memSubscriptions)
	_, err = subs.Add(ctx, a.ID, b.ID)
	require.NoError(t, err)

	view, err := svc.GetUser(ctx, b.ID, &a.ID)
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed)

	anon, err := svc.GetUser(ctx, b.ID, nil)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)
}

func TestUpdateAvatar(t *testing.T) {
	svc, users := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.io", Username: "a", Password: "s3cret-pass"})
	require.NoError(t, err)
	u, err := users.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)

	url, err := svc.UpdateAvatar(ctx, u.ID, tinyPNG)
	require.NoError(t, err)
	assert.Contains(t, url, "https://img.test/avatars/"+u.ID)

	_, err = svc.UpdateAvatar(ctx, u.ID, "not-a-data-uri")
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)

	require.NoError(t, svc.DeleteAvatar(ctx, u.ID))
	prof, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, prof.Avatar)
}
