// Package otp issues and checks one-time phone verification codes.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"shoestore/internal/domain"
	"shoestore/internal/phone"
	"shoestore/internal/repository/verification"

	"github.com/google/uuid"
)

// MaxAttempts is the number of wrong codes allowed before the active
// verification is burned.
const MaxAttempts = 5

type Service struct {
	repo      verification.Repository
	logger    *log.Logger
	ttl       time.Duration
	exposeOTP bool
}

// New builds the OTP service. exposeOTP echoes the generated code back to
// the caller and is meant for development environments without an SMS
// gateway.
func New(repo verification.Repository, logger *log.Logger, ttl time.Duration, exposeOTP bool) *Service {
	return &Service{repo: repo, logger: logger, ttl: ttl, exposeOTP: exposeOTP}
}

var _ phone.Verifier = (*Service)(nil)

// SendVerification generates a 6-digit code for the number and stores it
// with the configured TTL. The returned string is the code itself when
// echoing is enabled, empty otherwise.
func (s *Service) SendVerification(ctx context.Context, number string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	v := verification.Verification{
		ID:          uuid.NewString(),
		PhoneNumber: number,
		Code:        code,
		ExpiresAt:   time.Now().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return "", fmt.Errorf("store verification: %w", err)
	}
	s.logger.Printf("verification code sent number=%s", number)
	if s.exposeOTP {
		return code, nil
	}
	return "", nil
}

// VerifyPhone checks code against the newest active verification for the
// number. A match consumes the verification. ok=false carries a message
// suitable for showing to the customer.
func (s *Service) VerifyPhone(ctx context.Context, number, code string) (bool, string, error) {
	v, err := s.repo.GetActive(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return false, "No active code for this number. Request a new one.", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("load verification: %w", err)
	}
	if v.Attempts >= MaxAttempts {
		return false, "Too many attempts. Request a new code.", nil
	}
	if v.Code != code {
		attempts, err := s.repo.IncrementAttempts(ctx, v.ID)
		if err != nil {
			return false, "", fmt.Errorf("record attempt: %w", err)
		}
		if attempts >= MaxAttempts {
			return false, "Too many attempts. Request a new code.", nil
		}
		return false, "Incorrect code. Please try again.", nil
	}
	if err := s.repo.MarkConsumed(ctx, v.ID); err != nil {
		return false, "", fmt.Errorf("consume verification: %w", err)
	}
	s.logger.Printf("phone verified number=%s", number)
	return true, "", nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
