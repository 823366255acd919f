package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleTeam  = "team"
)

const (
	PaymentUnconfirmed = "unconfirmed"
	PaymentPaid        = "paid"
	PaymentCancelled   = "cancelled"
)

// ---------------- CONTACT SUBMISSIONS ----------------
type ContactSubmission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"index;not null" json:"email"`
	Subject   string    `gorm:"not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ContactSubmission) TableName() string { return "contact_submissions" }

func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ---------------- REGISTRATIONS ----------------
type Registration struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string     `gorm:"not null" json:"name"`
	Email               string     `gorm:"index;not null" json:"email"`
	CompanyName         string     `json:"companyName"`
	MobileCountryCode   string     `json:"mobileCountryCode"`
	MobileNumber        string     `json:"mobileNumber"`
	WhatsappCountryCode string     `json:"whatsappCountryCode"`
	WhatsappNumber      string     `json:"whatsappNumber"`
	State               string     `json:"state"`
	OtherState          string     `json:"otherState,omitempty"`
	Place               string     `json:"place"`
	LunchPreference     string     `gorm:"not null" json:"lunchPreference"` // veg | nonveg
	PaymentStatus       string     `gorm:"index;not null;default:'unconfirmed'" json:"paymentStatus"`
	PaymentLink         string     `json:"paymentLink,omitempty"`
	PaymentUpdatedAt    *time.Time `json:"paymentUpdatedAt,omitempty"`
	CreatedAt           time.Time  `gorm:"index" json:"createdAt"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.PaymentStatus == "" {
		r.PaymentStatus = PaymentUnconfirmed
	}
	return nil
}

// ---------------- ANNOUNCEMENTS ----------------
type Announcement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Text      string    `gorm:"not null" json:"text"`
	Link      string    `json:"link,omitempty"`
	Enabled   bool      `gorm:"not null" json:"enabled"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ---------------- SETTINGS ----------------
// Setting is a key/value row; each key holds exactly one current value.
type Setting struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

const SettingRegisterLink = "registerLink"

// ---------------- ACCOUNTS ----------------
// Account is the role record of a console user, keyed by the identity uid.
type Account struct {
	UID       string    `gorm:"primaryKey;size:64" json:"uid"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `json:"name"`
	Role      string    `gorm:"not null" json:"role"` // admin | team
	CreatedAt time.Time `json:"createdAt"`
}

func (a Account) IsModerator() bool { return a.Role == RoleAdmin || a.Role == RoleTeam }

// ---------------- OUTBOX (change feed) ----------------
type Outbox struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	EntityType string `gorm:"index;not null"`
	EntityID   string `gorm:"not null"`
	Op         string `gorm:"not null"` // UPSERT | DELETE
	Payload    datatypes.JSON
	CreatedAt  time.Time
	Processed  bool `gorm:"index;default:false"`
}

// Outbox entity types and ops.
const (
	EntityContact      = "contact"
	EntityRegistration = "registration"
	EntityAnnouncement = "announcement"
	EntitySetting      = "setting"
	EntityAccount      = "account"

	OpUpsert = "UPSERT"
	OpDelete = "DELETE"
)
