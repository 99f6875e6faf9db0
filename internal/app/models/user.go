package models

// User is an account allowed to log in. It is not exposed through the
// CRUD routes.
type User struct {
	ID           int64  `json:"id" example:"1"`
	Email        string `json:"email" example:"admin@ucsb.edu"`
	PasswordHash string `json:"-"`
	Admin        bool   `json:"admin" example:"false"`
}

// Roles returns the authorities granted to u. Every account can read,
// admins can also write.
func (u *User) Roles() []Role {
	if u.Admin {
		return []Role{RoleUser, RoleAdmin}
	}
	return []Role{RoleUser}
}

// UserKind describes User to the repository layer.
var UserKind = &Kind[User]{
	Name:  "User",
	Table: "users",
	Key:   func(u *User) *int64 { return &u.ID },
	Columns: []Column[User]{
		{Name: "email", Field: "Email", Unique: true, Value: func(u *User) any { return u.Email }, Ref: func(u *User) any { return &u.Email }},
		{Name: "password_hash", Field: "PasswordHash", Value: func(u *User) any { return u.PasswordHash }, Ref: func(u *User) any { return &u.PasswordHash }},
		{Name: "admin", Field: "Admin", Value: func(u *User) any { return u.Admin }, Ref: func(u *User) any { return &u.Admin }},
	},
}
