package dto

// PasswordLoginRequest is the shared-secret login.
type PasswordLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// CredentialLoginRequest is the user/password login against the user store.
type CredentialLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the resolved identity.
type LoginResponse struct {
	Token string `json:"token,omitempty"`
	User  string `json:"user,omitempty"`
	Role  string `json:"role,omitempty"`
}
