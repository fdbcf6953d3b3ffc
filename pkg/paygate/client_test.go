package paygate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDoer struct {
	status  int
	body    string
	lastReq *http.Request
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	s.lastReq = req
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(s.body))),
		Header:     http.Header{},
	}, nil
}

func TestVerifyParsesApprovedPayment(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	doer := &stubDoer{
		status: http.StatusOK,
		body:   fmt.Sprintf(`{"reference":"pay_abc","status":"approved","amount":"1234.50","currency":"MAD","group_id":"%s"}`, groupID),
	}
	client := NewClientWithDoer("https://gateway.test/", "sk_test", doer)

	verification, err := client.Verify(context.Background(), "pay_abc")
	require.NoError(t, err)

	assert.True(t, verification.Success)
	assert.Equal(t, "pay_abc", verification.Reference)
	assert.Equal(t, 123450, verification.AmountCents)
	assert.Equal(t, "MAD", verification.Currency)
	assert.Equal(t, groupID, verification.GroupID)
	assert.NotEmpty(t, verification.RawPayload)

	require.NotNil(t, doer.lastReq)
	assert.Equal(t, "https://gateway.test/v1/payments/pay_abc/verify", doer.lastReq.URL.String())
	assert.Equal(t, "Bearer sk_test", doer.lastReq.Header.Get("Authorization"))
}

func TestVerifyDeclinedPaymentIsNotSuccess(t *testing.T) {
	t.Parallel()

	doer := &stubDoer{
		status: http.StatusOK,
		body:   fmt.Sprintf(`{"reference":"pay_abc","status":"declined","amount":"50.00","currency":"MAD","group_id":"%s"}`, uuid.New()),
	}
	client := NewClientWithDoer("https://gateway.test", "sk_test", doer)

	verification, err := client.Verify(context.Background(), "pay_abc")
	require.NoError(t, err)
	assert.False(t, verification.Success)
	assert.Equal(t, 5000, verification.AmountCents)
}

func TestVerifyUnknownReference(t *testing.T) {
	t.Parallel()

	client := NewClientWithDoer("https://gateway.test", "sk_test", &stubDoer{status: http.StatusNotFound, body: `{"error":"not found"}`})

	_, err := client.Verify(context.Background(), "pay_missing")
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestVerifyRejectsSubCentAmounts(t *testing.T) {
	t.Parallel()

	doer := &stubDoer{
		status: http.StatusOK,
		body:   fmt.Sprintf(`{"reference":"pay_abc","status":"approved","amount":"10.005","currency":"MAD","group_id":"%s"}`, uuid.New()),
	}
	client := NewClientWithDoer("https://gateway.test", "sk_test", doer)

	_, err := client.Verify(context.Background(), "pay_abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sub-cent")
}

func TestVerifyRejectsMalformedGroupID(t *testing.T) {
	t.Parallel()

	doer := &stubDoer{
		status: http.StatusOK,
		body:   `{"reference":"pay_abc","status":"approved","amount":"10.00","group_id":"not-a-uuid"}`,
	}
	client := NewClientWithDoer("https://gateway.test", "sk_test", doer)

	_, err := client.Verify(context.Background(), "pay_abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group id")
}

func TestVerifyRequiresReference(t *testing.T) {
	t.Parallel()

	client := NewClientWithDoer("https://gateway.test", "sk_test", &stubDoer{status: http.StatusOK})
	_, err := client.Verify(context.Background(), "   ")
	require.Error(t, err)
}
