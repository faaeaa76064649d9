package steps

import (
	"context"
	"testing"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/ledger"
	"github.com/hashgraph-online/ledger-acceptance-go/pkg/shared"
	"github.com/hashgraph-online/ledger-acceptance-go/pkg/world"
)

const testPrivateKey = "302e020100300506032b65700422042091132178e72057a1d7528025956fe39b0b847f200ab59b2fdd367017f3087137"

// newTestSteps builds a step library whose client never reaches the
// network; only precondition paths are exercised here.
func newTestSteps(t *testing.T) *Steps {
	t.Helper()
	client, err := ledger.NewClient(ledger.Config{
		Operator: shared.OperatorConfig{
			AccountID:  "0.0.12345",
			PrivateKey: testPrivateKey,
			Network:    shared.NetworkTestnet,
		},
	})
	require.NoError(t, err)
	return New(client)
}

func TestStepsFailFastOnMissingAccount(t *testing.T) {
	s := newTestSteps(t)
	ctx := context.Background()

	err := s.newAccountHoldsExactHbar(ctx, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")

	err = s.accountSignsPendingTransaction(ctx, world.RoleSecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
}

func TestStepsFailFastOnMissingToken(t *testing.T) {
	s := newTestSteps(t)
	ctx := context.Background()

	require.Error(t, s.tokenHasName(ctx, "Test Token"))
	require.Error(t, s.additionalTokensMinted(ctx, 100))
	require.Error(t, s.mintAttemptFails(ctx, 100))
}

func TestStepsFailFastOnMissingTopic(t *testing.T) {
	s := newTestSteps(t)
	ctx := context.Background()

	require.Error(t, s.topicHasMemo(ctx, "Taxes"))
	require.Error(t, s.messageReceivedBySubscriber(ctx, "hello"))
	require.Error(t, s.messageVisibleOnMirror(ctx, "hello"))
}

func TestStepsFailFastOnMissingPendingTransfer(t *testing.T) {
	s := newTestSteps(t)
	ctx := context.Background()

	key, err := hedera.PrivateKeyGenerateEd25519()
	require.NoError(t, err)
	s.world.PutAccount(world.RoleFirst, ledger.Account{
		ID:  hedera.AccountID{Account: 1001},
		Key: key,
	})

	err = s.accountSignsPendingTransaction(ctx, world.RoleFirst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending transfer")
}

func TestMessageReceiptMatchesByteIdenticalPayload(t *testing.T) {
	s := newTestSteps(t)
	s.messageTimeout = 200 * time.Millisecond

	messages := make(chan []byte, 1)
	messages <- []byte("Taxes are the price we pay for a civilized society")
	s.world.PutSubscription(messages, func() {})

	require.NoError(t, s.messageReceivedBySubscriber(
		context.Background(),
		"Taxes are the price we pay for a civilized society",
	))
}

func TestMessageReceiptSkipsNonMatchingPayloads(t *testing.T) {
	s := newTestSteps(t)
	s.messageTimeout = 200 * time.Millisecond

	messages := make(chan []byte, 2)
	messages <- []byte("unrelated chatter")
	messages <- []byte("Taxes")
	s.world.PutSubscription(messages, func() {})

	require.NoError(t, s.messageReceivedBySubscriber(context.Background(), "Taxes"))
}

func TestMessageReceiptTimesOutWithoutMatch(t *testing.T) {
	s := newTestSteps(t)
	s.messageTimeout = 50 * time.Millisecond

	messages := make(chan []byte, 1)
	messages <- []byte("taxes")
	s.world.PutSubscription(messages, func() {})

	// Case differs, so the payloads are not byte-identical.
	err := s.messageReceivedBySubscriber(context.Background(), "Taxes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not received")
}

func TestMessageReceiptStopsOnCancelledContext(t *testing.T) {
	s := newTestSteps(t)
	s.messageTimeout = time.Minute

	messages := make(chan []byte)
	s.world.PutSubscription(messages, func() {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.messageReceivedBySubscriber(ctx, "Taxes")
	require.ErrorIs(t, err, context.Canceled)
}

func TestTransferRejectionAssertionRequiresCapturedFault(t *testing.T) {
	s := newTestSteps(t)

	err := s.transferRejectedMissingSignature(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rejection captured")
}

func TestThresholdKeyStepCoversTwoKeys(t *testing.T) {
	s := newTestSteps(t)

	err := s.thresholdKeyCreated(context.Background(), 2, 3)
	require.Error(t, err)
}

func TestHbarTinybar(t *testing.T) {
	assert.Equal(t, int64(500_000_000), hbarTinybar(5))
	assert.Equal(t, int64(0), hbarTinybar(0))
}
