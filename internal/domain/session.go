package domain

type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleManager, RoleEmployee, RoleCustomer:
		return r, true
	}
	return "", false
}

// Home is the landing page a role is sent to after login.
func (r Role) Home() string {
	switch r {
	case RoleManager:
		return "/manager"
	case RoleEmployee:
		return "/employee"
	case RoleCustomer:
		return "/customer"
	}
	return "/"
}

// Session is either fully populated or entirely empty.
type Session struct {
	Token string `json:"token"`
	User  string `json:"user"`
	Role  Role   `json:"role"`
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Valid reports whether s is a well formed session blob: all fields empty, or
// all set with a known role.
func (s Session) Valid() bool {
	if s.Token == "" && s.User == "" && s.Role == "" {
		return true
	}
	if s.Token == "" || s.User == "" {
		return false
	}
	_, ok := ParseRole(string(s.Role))
	return ok
}
