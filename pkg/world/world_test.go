package world

import (
	"errors"
	"testing"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/ledger"
)

func testAccount(t *testing.T, num uint64) ledger.Account {
	t.Helper()
	key, err := hedera.PrivateKeyGenerateEd25519()
	require.NoError(t, err)
	return ledger.Account{ID: hedera.AccountID{Account: num}, Key: key}
}

func TestAccountSlots(t *testing.T) {
	w := New()

	first := testAccount(t, 1001)
	w.PutAccount(RoleFirst, first)

	got, err := w.Account(RoleFirst)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestAccountSlotMissing(t *testing.T) {
	w := New()

	_, err := w.Account(RoleSecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
}

func TestTokenSlots(t *testing.T) {
	w := New()

	tokenID := hedera.TokenID{Token: 555}
	w.PutToken(0, tokenID)

	got, err := w.Token(0)
	require.NoError(t, err)
	assert.Equal(t, tokenID, got)

	_, err = w.Token(1)
	require.Error(t, err)
}

func TestTopicSlot(t *testing.T) {
	w := New()

	_, _, err := w.Topic()
	require.Error(t, err)

	topicID := hedera.TopicID{Topic: 99}
	w.PutTopic(topicID, "Taxes")

	got, memo, err := w.Topic()
	require.NoError(t, err)
	assert.Equal(t, topicID, got)
	assert.Equal(t, "Taxes", memo)
}

func TestThresholdKeySlot(t *testing.T) {
	w := New()

	_, err := w.ThresholdKey()
	require.Error(t, err)

	keyList := hedera.KeyListWithThreshold(2)
	w.PutThresholdKey(keyList)

	got, err := w.ThresholdKey()
	require.NoError(t, err)
	assert.Same(t, keyList, got)
}

func TestPendingTransferLifecycle(t *testing.T) {
	w := New()

	_, err := w.PendingTransfer()
	require.Error(t, err)

	transaction := hedera.NewTransferTransaction()
	w.PutPendingTransfer(transaction)

	got, err := w.PendingTransfer()
	require.NoError(t, err)
	assert.Same(t, transaction, got)

	w.MarkSigned(RoleFirst)
	assert.True(t, w.HasSigned(RoleFirst))
	assert.False(t, w.HasSigned(RoleSecond))

	// A new pending transfer starts with a clean signature record.
	w.PutPendingTransfer(hedera.NewTransferTransaction())
	assert.False(t, w.HasSigned(RoleFirst))

	w.ClearPendingTransfer()
	_, err = w.PendingTransfer()
	require.Error(t, err)
}

func TestHbarSnapshots(t *testing.T) {
	w := New()

	_, err := w.HbarSnapshot(RoleFirst)
	require.Error(t, err)

	w.SnapshotHbar(RoleFirst, hedera.NewHbar(10))

	balance, err := w.HbarSnapshot(RoleFirst)
	require.NoError(t, err)
	assert.Equal(t, hedera.NewHbar(10).AsTinybar(), balance.AsTinybar())
}

func TestSubscriptionLifecycle(t *testing.T) {
	w := New()

	_, err := w.Subscription()
	require.Error(t, err)

	released := 0
	messages := make(chan []byte)
	w.PutSubscription(messages, func() { released++ })

	got, err := w.Subscription()
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Replacing the subscription releases the previous one.
	w.PutSubscription(make(chan []byte), func() {})
	assert.Equal(t, 1, released)

	w.Close()
	w.Close() // idempotent
}

func TestLastSequence(t *testing.T) {
	w := New()

	_, err := w.LastSequence()
	require.Error(t, err)

	w.SetLastSequence(7)
	sequence, err := w.LastSequence()
	require.NoError(t, err)
	assert.Equal(t, int64(7), sequence)
}

func TestLastError(t *testing.T) {
	w := New()
	assert.NoError(t, w.LastError())

	fault := errors.New("TOKEN_HAS_NO_SUPPLY_KEY")
	w.SetLastError(fault)
	assert.Same(t, fault, w.LastError())
}
