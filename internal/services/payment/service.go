// Package payment checks payment references supplied by buyers against the
// payment provider before a transaction may move to PAID.
package payment

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"safetrade/internal/config"
	apperrors "safetrade/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"go.uber.org/zap"
)

const MethodStripe = "stripe"

// Verifier confirms that reference settles amount.
type Verifier interface {
	Verify(ctx context.Context, reference string, amount decimal.Decimal) error
}

// NewVerifier returns a stripe-backed verifier when a secret key is configured.
func NewVerifier(cfg *config.Config, log *zap.Logger) Verifier {
	if cfg.Stripe.SecretKey == "" {
		log.Info("stripe secret key not configured, payment references are not verified")
		return NoopVerifier{}
	}
	return NewStripeVerifier(cfg.Stripe.SecretKey, stripe.GetBackend(stripe.APIBackend), log)
}

type StripeVerifier struct {
	client paymentintent.Client
	log    *zap.Logger
}

func NewStripeVerifier(key string, backend stripe.Backend, log *zap.Logger) *StripeVerifier {
	return &StripeVerifier{
		client: paymentintent.Client{B: backend, Key: key},
		log:    log,
	}
}

// Verify loads the PaymentIntent and checks it succeeded for the exact amount.
// Amounts are in a zero-decimal currency so they compare as whole units.
func (v *StripeVerifier) Verify(ctx context.Context, reference string, amount decimal.Decimal) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return apperrors.Validation("Payment reference is required for stripe payments",
			apperrors.FieldError{Field: "paymentReference", Message: "paymentReference is required"})
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := v.client.Get(reference, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return apperrors.Validation("Payment reference not found",
				apperrors.FieldError{Field: "paymentReference", Message: "unknown payment reference", Value: reference})
		}
		v.log.Error("stripe payment lookup failed", zap.String("reference", reference), zap.Error(err))
		return apperrors.Unavailable("Payment provider unavailable").Wrap(err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return apperrors.InvalidState("Payment has not succeeded yet")
	}
	if pi.Amount != amount.IntPart() {
		return apperrors.Validation("Payment amount does not match transaction amount",
			apperrors.FieldError{Field: "paymentReference", Message: "payment amount mismatch", Value: reference})
	}
	return nil
}

// NoopVerifier accepts every reference.
type NoopVerifier struct{}

func (NoopVerifier) Verify(context.Context, string, decimal.Decimal) error { return nil }
