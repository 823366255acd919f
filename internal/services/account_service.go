package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sirdesai22/event-site/internal/identity"
	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/validation"
	"gorm.io/gorm"
)

// AccountFor returns the role record of uid.
func AccountFor(ctx context.Context, db *gorm.DB, uid string) (*models.Account, error) {
	var a models.Account
	err := db.WithContext(ctx).First(&a, "uid = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Moderator resolves the account signed into scope. Identities without an
// admin or team role record are refused.
func Moderator(ctx context.Context, db *gorm.DB, scope *identity.Context) (*models.Account, error) {
	u := scope.Current()
	if u == nil {
		return nil, ErrUnauthenticated
	}
	a, err := AccountFor(ctx, db, u.UID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !a.IsModerator() {
		return nil, ErrForbidden
	}
	return a, nil
}

func ListAccounts(ctx context.Context, db *gorm.DB) ([]models.Account, error) {
	var out []models.Account
	if err := db.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTeamAccount creates a team identity without touching the admin's own
// session: the identity is created in a throwaway secondary context, which is
// signed out and disposed afterwards. The role record is written only after
// the identity exists.
func CreateTeamAccount(ctx context.Context, db *gorm.DB, idp *identity.Provider, admin *identity.Context, name, email, password string) (*models.Account, error) {
	caller, err := Moderator(ctx, db, admin)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", validation.Required, "Name is required")
	}

	secondary, err := idp.NewContext("secondary-" + uuid.NewString())
	if err != nil {
		return nil, err
	}
	defer idp.Dispose(secondary)

	user, err := secondary.CreateUserWithPassword(ctx, email, password)
	if err != nil {
		var ie *identity.Error
		if errors.As(err, &ie) {
			return nil, &ProviderError{Code: ie.Code, Message: ie.Message}
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	acct := models.Account{UID: user.UID, Email: user.Email, Name: name, Role: models.RoleTeam}
	if err := writeAccount(ctx, db, &acct); err != nil {
		return nil, err
	}
	secondary.SignOut()

	metrics.ModerationActions.WithLabelValues(models.EntityAccount, "CREATE").Inc()
	log.Printf("👥 team account %s created by %s", acct.Email, caller.Email)
	return &acct, nil
}

// BootstrapAdmin creates the first admin when the console has no accounts.
// It reports whether an account was created.
func BootstrapAdmin(ctx context.Context, db *gorm.DB, idp *identity.Provider, name, email, password string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	scope, err := idp.NewContext("bootstrap-" + uuid.NewString())
	if err != nil {
		return false, err
	}
	defer idp.Dispose(scope)

	user, err := scope.CreateUserWithPassword(ctx, email, password)
	if err != nil {
		return false, fmt.Errorf("create admin identity: %w", err)
	}
	acct := models.Account{UID: user.UID, Email: user.Email, Name: name, Role: models.RoleAdmin}
	if err := writeAccount(ctx, db, &acct); err != nil {
		return false, err
	}
	return true, nil
}

func writeAccount(ctx context.Context, db *gorm.DB, acct *models.Account) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(acct).Error; err != nil {
			return err
		}
		return AddOutboxEvent(tx, models.EntityAccount, acct.UID, models.OpUpsert, acct)
	})
	if err != nil {
		return fmt.Errorf("write account %s: %w", acct.UID, err)
	}
	return nil
}
