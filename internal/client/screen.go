package client

import "store-rating/internal/domain"

type Screen string

const (
	ScreenLogin  Screen = "login"
	ScreenSignup Screen = "signup"
	ScreenAdmin  Screen = "admin"
	ScreenUser   Screen = "user"
)

// Home is the dashboard for role, or Login when nobody is logged in.
func Home(role domain.Role) Screen {
	switch role {
	case domain.RoleAdmin:
		return ScreenAdmin
	case domain.RoleUser:
		return ScreenUser
	default:
		return ScreenLogin
	}
}

// Resolve decides which screen is shown when want is requested.
// Logged out, only Login and Signup are reachable. Logged in, every request
// lands on the role's own dashboard, so neither role opens the other's.
func Resolve(role domain.Role, want Screen) Screen {
	if !role.Valid() {
		if want == ScreenSignup {
			return ScreenSignup
		}
		return ScreenLogin
	}
	return Home(role)
}
