package models

import "time"

// User is an account owner. Either Phone or Email identifies the account;
// at least one must be present.
type User struct {
	ID            string     `json:"id"`
	Phone         *string    `json:"phone"`
	Email         *string    `json:"email"`
	Username      *string    `json:"username"`
	PasswordHash  string     `json:"-"`
	LoginAttempts int        `json:"-"`
	LockedUntil   *time.Time `json:"-"`
	LastLoginAt   *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	DeletedAt     *time.Time `json:"-"`
}

// Device is one client installation of the app. DeviceID is the
// client-generated stable identifier; ID is the server-side primary key.
type Device struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	DeviceID     string    `json:"deviceId"`
	DeviceName   *string   `json:"deviceName,omitempty"`
	Platform     *string   `json:"platform,omitempty"`
	OSVersion    *string   `json:"osVersion,omitempty"`
	AppVersion   *string   `json:"appVersion,omitempty"`
	FCMToken     *string   `json:"-"`
	LastActiveAt time.Time `json:"lastActiveAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DeviceInfo is the device descriptor supplied on register and login.
type DeviceInfo struct {
	DeviceID   string  `json:"deviceId"`
	DeviceName *string `json:"deviceName,omitempty"`
	Platform   *string `json:"platform,omitempty"`
	OSVersion  *string `json:"osVersion,omitempty"`
	AppVersion *string `json:"appVersion,omitempty"`
	FCMToken   *string `json:"fcmToken,omitempty"`
}

// RefreshToken is a stored (hashed) refresh token bound to a device.
type RefreshToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	DeviceID  string     `json:"deviceId"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
}

// RegisterRequest creates a new account together with its first device.
type RegisterRequest struct {
	Phone      *string    `json:"phone,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Password   string     `json:"password"`
	DeviceInfo DeviceInfo `json:"deviceInfo"`
}

// LoginRequest authenticates by phone or email.
type LoginRequest struct {
	Identifier string     `json:"identifier"`
	Password   string     `json:"password"`
	DeviceInfo DeviceInfo `json:"deviceInfo"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is the credential set issued on register and login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// AuthResponse is the register/login payload.
type AuthResponse struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}
