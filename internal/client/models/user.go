package models

// Role is the access level of the signed-in user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Session is the user blob persisted after login.
type Session struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	Department  string `json:"department"`
	Role        Role   `json:"role"`
	AccessToken string `json:"access_token"`
}

// DirectoryEntry is one row of the user directory used to assign
// responsibility.
type DirectoryEntry struct {
	ID          string
	Username    string
	CompanyName string
}

// Label renders the entry the way the responsibility picker shows it.
func (e DirectoryEntry) Label() string {
	if e.CompanyName == "" {
		return e.Username
	}
	return e.CompanyName + " (" + e.Username + ")"
}
