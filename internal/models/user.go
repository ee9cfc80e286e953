package models

import "time"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. Email is the login identifier.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(254);not null"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(150);not null"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150)"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Avatar    string    `json:"avatar" gorm:"type:varchar(255)"`
	Role      string    `json:"-" gorm:"type:varchar(15);not null;default:user"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsAdmin reports whether the user may manage other users' content.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Subscription links a subscriber (UserID) to an author.
type Subscription struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author"`
	AuthorID         uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author;index"`
	SubscriptionDate time.Time `gorm:"autoCreateTime"`

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
