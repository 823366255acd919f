package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Credential{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewProvider(db, bcrypt.MinCost)
}

func TestCreateUserSignsIntoCallingContextOnly(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	main, err := p.NewContext("main")
	require.NoError(t, err)
	admin, err := main.CreateUserWithPassword(ctx, "admin@example.com", "secret123")
	require.NoError(t, err)

	secondary, err := p.NewContext("secondary")
	require.NoError(t, err)
	team, err := secondary.CreateUserWithPassword(ctx, "team@example.com", "secret456")
	require.NoError(t, err)

	assert.NotEqual(t, admin.UID, team.UID)
	assert.Equal(t, admin.UID, main.Current().UID)
	assert.Equal(t, team.UID, secondary.Current().UID)

	p.Dispose(secondary)
	assert.Nil(t, secondary.Current())
	_, ok := p.Lookup("secondary")
	assert.False(t, ok)
	assert.Equal(t, admin.UID, main.Current().UID)
}

func TestContextNamesAreUnique(t *testing.T) {
	p := newTestProvider(t)
	c, err := p.NewContext("a")
	require.NoError(t, err)
	_, err = p.NewContext("a")
	require.Error(t, err)

	p.Dispose(c)
	_, err = p.NewContext("a")
	require.NoError(t, err)
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	setup, _ := p.NewContext("setup")
	created, err := setup.CreateUserWithPassword(ctx, "Mod@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "mod@example.com", created.Email)

	c, _ := p.NewContext("login")
	_, err = c.SignInWithPassword(ctx, "mod@example.com", "wrong-pass")
	assert.True(t, IsCode(err, CodeInvalidCredential))
	_, err = c.SignInWithPassword(ctx, "nobody@example.com", "secret123")
	assert.True(t, IsCode(err, CodeInvalidCredential))
	assert.Nil(t, c.Current())

	u, err := c.SignInWithPassword(ctx, " MOD@example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.UID, u.UID)
}

func TestCreateUserFailures(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	c, _ := p.NewContext("c")

	_, err := c.CreateUserWithPassword(ctx, "not-an-email", "secret123")
	assert.True(t, IsCode(err, CodeInvalidEmail))
	_, err = c.CreateUserWithPassword(ctx, "a@example.com", "123")
	assert.True(t, IsCode(err, CodeWeakPassword))

	_, err = c.CreateUserWithPassword(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	_, err = c.CreateUserWithPassword(ctx, "A@example.com", "secret123")
	assert.True(t, IsCode(err, CodeEmailInUse))
}

func TestOnChangeIsPushed(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	c, _ := p.NewContext("c")

	var seen []string
	unsubscribe := c.OnChange(func(u *User) {
		if u == nil {
			seen = append(seen, "signed-out")
			return
		}
		seen = append(seen, u.Email)
	})

	_, err := c.CreateUserWithPassword(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	c.SignOut()
	c.SignOut()
	unsubscribe()
	unsubscribe()
	_, err = c.SignInWithPassword(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, []string{"signed-out", "a@example.com", "signed-out"}, seen)
}
