package models

import (
	"time"

	"barberbook-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Role is fixed at registration time.
const (
	RoleCustomer           = "customer"
	RoleEstablishmentAdmin = "establishment_admin"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null"`
	Phone    string
	Role     string `gorm:"type:varchar(25);not null"` // 'customer' or 'establishment_admin'
	PhotoURL string

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Initialize UUID and hash password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
