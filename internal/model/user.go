package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole enumerates the access levels
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleModerator UserRole = "moderator"
	RoleUser      UserRole = "user"
)

// User represents an operator account. The password hash never leaves
// the server.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(100);not null"`
	Role      UserRole  `json:"role" gorm:"type:varchar(20);default:'user'"`
	PhoneNum  int64     `json:"phone_num"`
	CreatedAt time.Time `json:"created_at"`
}

// SetPassword hashes and stores the given plain-text password
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares a plain-text password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
