package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// Credential is the provider's own record of an identity.
type Credential struct {
	UID          string `gorm:"primaryKey;size:64"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type Provider struct {
	db   *gorm.DB
	cost int

	mu       sync.Mutex
	contexts map[string]*Context
}

// NewProvider returns a provider storing credentials in db. A zero cost uses
// bcrypt.DefaultCost.
func NewProvider(db *gorm.DB, cost int) *Provider {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Provider{db: db, cost: cost, contexts: map[string]*Context{}}
}

// NewContext opens an independent sign-in scope. Names are unique among live
// contexts.
func (p *Provider) NewContext(name string) (*Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.contexts[name]; exists {
		return nil, fmt.Errorf("identity context %q already exists", name)
	}
	c := &Context{name: name, p: p, listeners: map[int]func(*User){}}
	p.contexts[name] = c
	return c, nil
}

func (p *Provider) Lookup(name string) (*Context, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.contexts[name]
	return c, ok
}

// Dispose signs the context out and forgets it. Disposing twice is a no-op.
func (p *Provider) Dispose(c *Context) {
	if c == nil {
		return
	}
	c.SignOut()
	p.mu.Lock()
	if p.contexts[c.name] == c {
		delete(p.contexts, c.name)
	}
	p.mu.Unlock()
}

func (p *Provider) createCredential(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return User{}, &Error{Code: CodeInvalidEmail, Message: "The email address is badly formatted."}
	}
	if len(password) < minPasswordLength {
		return User{}, &Error{Code: CodeWeakPassword, Message: "Password should be at least 6 characters."}
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&Credential{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return User{}, fmt.Errorf("lookup credential: %w", err)
	}
	if count > 0 {
		return User{}, &Error{Code: CodeEmailInUse, Message: "The email address is already in use by another account."}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	cred := Credential{
		UID:          strings.ReplaceAll(uuid.NewString(), "-", ""),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := p.db.WithContext(ctx).Create(&cred).Error; err != nil {
		return User{}, fmt.Errorf("create credential: %w", err)
	}
	return User{UID: cred.UID, Email: cred.Email}, nil
}

func (p *Provider) verify(ctx context.Context, email, password string) (User, error) {
	var cred Credential
	err := p.db.WithContext(ctx).First(&cred, "email = ?", normalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, &Error{Code: CodeInvalidCredential, Message: "Invalid email or password."}
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup credential: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return User{}, &Error{Code: CodeInvalidCredential, Message: "Invalid email or password."}
	}
	return User{UID: cred.UID, Email: cred.Email}, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
