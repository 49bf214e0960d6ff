package utils

import (
	"github.com/google/uuid"
)

// NewVerifyToken returns a random single-use token for email verification.
func NewVerifyToken() string {
	return uuid.NewString()
}
