package authsdk

import "time"

// ============================================================================
// Envelopes
// ============================================================================

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	// Error is a user-safe message, e.g. "Invalid email or password"
	Error string `json:"error"`
}

// SuccessResponse is returned by operations that have nothing else to report.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// MessageResponse carries a user-facing confirmation message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ============================================================================
// Users & Tokens
// ============================================================================

// User is the public projection of an account. Credentials, lock counters
// and MFA secrets are never sent over the wire.
type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone,omitempty"`
	Bio                 string     `json:"bio,omitempty"`
	Position            string     `json:"position,omitempty"`
	GlobalRole          string     `json:"globalRole"`
	TemporaryAdminUntil *time.Time `json:"temporaryAdminUntil,omitempty"`
	IsActive            bool       `json:"isActive"`
	EmailVerified       bool       `json:"emailVerified"`
	MFAEnabled          bool       `json:"mfaEnabled"`
	JoinedAt            time.Time  `json:"joinedAt"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
}

// TokenPair holds the credentials of one session.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// SignInRequest is the body of POST /v1/auth/sign-in.
type SignInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceInfo string `json:"deviceInfo,omitempty"`

	// OTPCode is required once the account has confirmed TOTP enrollment.
	OTPCode string `json:"otpCode,omitempty"`
}

// SignInResponse is returned by a successful sign-in.
type SignInResponse struct {
	Success bool      `json:"success"`
	User    User      `json:"user"`
	Tokens  TokenPair `json:"tokens"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// RefreshRequest is the body of POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokensResponse is returned by a successful refresh.
type TokensResponse struct {
	Success bool      `json:"success"`
	Tokens  TokenPair `json:"tokens"`
}

// ============================================================================
// Password Reset
// ============================================================================

// PasswordResetRequest is the body of POST /v1/auth/password-reset/request.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest is the body of POST /v1/auth/password-reset/confirm.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ============================================================================
// Administration
// ============================================================================

// CreateUserRequest is the body of POST /v1/admin/users. A password is
// generated when Password is empty.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Position string `json:"position,omitempty"`
}

// CreateSuperAdminRequest is the body of POST /v1/admin/superadmin.
type CreateSuperAdminRequest struct {
	BootstrapKey string `json:"bootstrapKey"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Password     string `json:"password,omitempty"`
}

// CreateUserResponse is returned when an admin account is created.
type CreateUserResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`

	// GeneratedPassword is set only when the server chose the password.
	GeneratedPassword string `json:"generatedPassword,omitempty"`
}

// TemporaryAdminRequest is the body of POST /v1/admin/users/{id}/temporary-admin.
type TemporaryAdminRequest struct {
	// DurationHours defaults to 24 when zero and is capped at 720.
	DurationHours int `json:"durationHours,omitempty"`
}

// TemporaryAdminResponse reports when a temporary grant ends.
type TemporaryAdminResponse struct {
	Success bool      `json:"success"`
	Until   time.Time `json:"until"`
}

// ============================================================================
// Hubs
// ============================================================================

type Hub struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HubRequest is the body for creating or updating a hub.
type HubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type HubResponse struct {
	Success bool `json:"success"`
	Hub     Hub  `json:"hub"`
}

type HubListResponse struct {
	Success bool  `json:"success"`
	Hubs    []Hub `json:"hubs"`
}

type Membership struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	HubID     string    `json:"hubId"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MembershipResponse struct {
	Success    bool       `json:"success"`
	Membership Membership `json:"membership"`
}

// ReviewMembershipRequest approves or rejects a pending application.
type ReviewMembershipRequest struct {
	Approve bool `json:"approve"`
}

// MembershipRoleRequest changes a member's hub role ("member" or "lead").
type MembershipRoleRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// MFA
// ============================================================================

// TOTPEnrollResponse carries the secret for an authenticator app. The
// enrollment is inactive until confirmed with a code.
type TOTPEnrollResponse struct {
	Success bool   `json:"success"`
	Secret  string `json:"secret"`
	URL     string `json:"url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

// TOTPCodeRequest carries a six digit code from the authenticator app.
type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports dependency status for readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Codec    string `json:"codec"`
}
