package models

// Credentials is the POST /auth/login payload.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Registration is the register form model. The confirmation field is
// validated locally; the wire payload for POST /auth/register carries
// only name, email, and password (see AuthService.Register).
type Registration struct {
	Name                 string `json:"name"                  validate:"required,min=2"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,confirmed"`
}

// AuthResponse is the successful login body.
type AuthResponse struct {
	Token string `json:"token"`
}
