package trial

import (
	"context"
	"time"
)

// Trial marks consumption of the one-time free-trial entitlement for an
// {email, ip} pair. A new trial is blocked when EITHER field matches an
// existing record.
type Trial struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	IPAddress     string    `json:"ip_address"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// Repository defines the trial repository interface
type Repository interface {
	// ExistsByEmailOrIP reports whether any trial matches the email OR the ip.
	ExistsByEmailOrIP(ctx context.Context, email, ipAddress string) (bool, error)
	Create(ctx context.Context, t *Trial) error
}

// Service defines the trial service interface
type Service interface {
	HasUsed(ctx context.Context, email, ipAddress string) (bool, error)
	// Claim records trial consumption; returns a conflict error when the
	// entitlement was already used by email or ip.
	Claim(ctx context.Context, email, ipAddress string) (*Trial, error)
}
