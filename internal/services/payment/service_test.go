package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "safetrade/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"
	"go.uber.org/zap"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *StripeVerifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
	})
	return NewStripeVerifier("sk_test_123", backend, zap.NewNop())
}

func paymentIntentJSON(status string, amount int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","currency":"vnd","status":"` +
			status + `","amount":` + decimal.NewFromInt(int64(amount)).String() + `}`))
	}
}

func TestStripeVerifier_Succeeded(t *testing.T) {
	v := newTestVerifier(t, paymentIntentJSON("succeeded", 25000000))
	assert.NoError(t, v.Verify(context.Background(), "pi_123", decimal.NewFromInt(25000000)))
}

func TestStripeVerifier_NotSucceeded(t *testing.T) {
	v := newTestVerifier(t, paymentIntentJSON("requires_payment_method", 25000000))
	err := v.Verify(context.Background(), "pi_123", decimal.NewFromInt(25000000))

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidState, appErr.Code)
}

func TestStripeVerifier_AmountMismatch(t *testing.T) {
	v := newTestVerifier(t, paymentIntentJSON("succeeded", 1000))
	err := v.Verify(context.Background(), "pi_123", decimal.NewFromInt(25000000))

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestStripeVerifier_UnknownReference(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such payment_intent"}}`))
	})
	err := v.Verify(context.Background(), "pi_missing", decimal.NewFromInt(10))

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestStripeVerifier_EmptyReference(t *testing.T) {
	v := NewStripeVerifier("sk_test_123", nil, zap.NewNop())
	err := v.Verify(context.Background(), "  ", decimal.NewFromInt(10))

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}
