package model

import "time"

// Account holds credentials and role flags. A student's account always has IsAdmin false.
type Account struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsAdmin      bool       `db:"is_admin" json:"is_admin"`
	IsSuperuser  bool       `db:"is_superuser" json:"is_superuser"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// HasUsablePassword reports whether the account can authenticate with a password.
func (a *Account) HasUsablePassword() bool {
	return a.PasswordHash != ""
}

// FullName joins first and last name.
func (a *Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

// AccessLevel values used when managing admin accounts.
const (
	AccessLevelAdmin      = "admin"
	AccessLevelSuperadmin = "superadmin"
)

// AccessLevel maps role flags to the admin management vocabulary.
func (a *Account) AccessLevel() string {
	if a.IsSuperuser {
		return AccessLevelSuperadmin
	}
	return AccessLevelAdmin
}

// AdminStats summarises admin accounts.
type AdminStats struct {
	TotalAdmins   int `json:"total_admins"`
	SuperAdmins   int `json:"super_admins"`
	RegularAdmins int `json:"regular_admins"`
}
