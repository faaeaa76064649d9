// Package world holds the mutable state of one scenario: accounts and
// keys created by earlier steps, token and topic references, balance
// snapshots, and the transfer being assembled. A fresh World is built
// before each scenario and discarded after it; nothing here outlives
// a scenario or is shared between two.
package world

import (
	"fmt"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/ledger"
)

// Roles the scenario scripts address accounts by, in script order.
const (
	RoleFirst  = "first"
	RoleSecond = "second"
	RoleThird  = "third"
	RoleFourth = "fourth"
)

// World is the scenario context. Reads of slots no step has written
// are test-authoring defects and fail immediately with an error that
// names the missing slot.
type World struct {
	accounts      map[string]ledger.Account
	tokens        map[int]hedera.TokenID
	topicID       *hedera.TopicID
	topicMemo     string
	thresholdKey  *hedera.KeyList
	pendingTx     *hedera.TransferTransaction
	pendingSigned map[string]bool
	hbarSnapshots map[string]hedera.Hbar
	messages      <-chan []byte
	unsubscribe   func()
	lastSequence  int64
	lastErr       error
}

// New creates an empty scenario context.
func New() *World {
	return &World{
		accounts:      make(map[string]ledger.Account),
		tokens:        make(map[int]hedera.TokenID),
		pendingSigned: make(map[string]bool),
		hbarSnapshots: make(map[string]hedera.Hbar),
	}
}

// Close releases any live topic subscription. Safe to call on a world
// that never subscribed.
func (w *World) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}

// PutAccount records the account created for a role, along with a
// snapshot of its starting balance for later fee assertions.
func (w *World) PutAccount(role string, account ledger.Account) {
	w.accounts[role] = account
}

// Account returns the account a previous step created for the role.
func (w *World) Account(role string) (ledger.Account, error) {
	account, ok := w.accounts[role]
	if !ok {
		return ledger.Account{}, fmt.Errorf("no %q account in scenario context; an earlier step must create it", role)
	}
	return account, nil
}

// PutToken records the token created for a slot index.
func (w *World) PutToken(slot int, tokenID hedera.TokenID) {
	w.tokens[slot] = tokenID
}

// Token returns the token a previous step created for the slot.
func (w *World) Token(slot int) (hedera.TokenID, error) {
	tokenID, ok := w.tokens[slot]
	if !ok {
		return hedera.TokenID{}, fmt.Errorf("no token in scenario context slot %d; an earlier step must create it", slot)
	}
	return tokenID, nil
}

// PutTopic records the topic created by this scenario.
func (w *World) PutTopic(topicID hedera.TopicID, memo string) {
	w.topicID = &topicID
	w.topicMemo = memo
}

// Topic returns the scenario's topic and its requested memo.
func (w *World) Topic() (hedera.TopicID, string, error) {
	if w.topicID == nil {
		return hedera.TopicID{}, "", fmt.Errorf("no topic in scenario context; an earlier step must create it")
	}
	return *w.topicID, w.topicMemo, nil
}

// PutThresholdKey records a composite submit key built by a step.
func (w *World) PutThresholdKey(keyList *hedera.KeyList) {
	w.thresholdKey = keyList
}

// ThresholdKey returns the composite key a previous step built.
func (w *World) ThresholdKey() (*hedera.KeyList, error) {
	if w.thresholdKey == nil {
		return nil, fmt.Errorf("no threshold key in scenario context; an earlier step must build it")
	}
	return w.thresholdKey, nil
}

// PutPendingTransfer stores a frozen transfer awaiting signatures and
// submission. Storing a new transfer resets the signature record.
func (w *World) PutPendingTransfer(transaction *hedera.TransferTransaction) {
	w.pendingTx = transaction
	w.pendingSigned = make(map[string]bool)
}

// PendingTransfer returns the in-flight transfer.
func (w *World) PendingTransfer() (*hedera.TransferTransaction, error) {
	if w.pendingTx == nil {
		return nil, fmt.Errorf("no pending transfer in scenario context; an earlier step must create it")
	}
	return w.pendingTx, nil
}

// MarkSigned records that the role's key has signed the pending
// transfer.
func (w *World) MarkSigned(role string) {
	w.pendingSigned[role] = true
}

// HasSigned reports whether the role already signed the pending
// transfer.
func (w *World) HasSigned(role string) bool {
	return w.pendingSigned[role]
}

// ClearPendingTransfer drops the in-flight transfer after submission.
func (w *World) ClearPendingTransfer() {
	w.pendingTx = nil
	w.pendingSigned = make(map[string]bool)
}

// SnapshotHbar records a role's balance at a point in the scenario.
func (w *World) SnapshotHbar(role string, balance hedera.Hbar) {
	w.hbarSnapshots[role] = balance
}

// HbarSnapshot returns the balance recorded for a role.
func (w *World) HbarSnapshot(role string) (hedera.Hbar, error) {
	balance, ok := w.hbarSnapshots[role]
	if !ok {
		return hedera.Hbar{}, fmt.Errorf("no balance snapshot for %q account; an earlier step must record it", role)
	}
	return balance, nil
}

// PutSubscription stores the live message stream for the scenario's
// topic, releasing any previous one.
func (w *World) PutSubscription(messages <-chan []byte, unsubscribe func()) {
	w.Close()
	w.messages = messages
	w.unsubscribe = unsubscribe
}

// Subscription returns the live message stream.
func (w *World) Subscription() (<-chan []byte, error) {
	if w.messages == nil {
		return nil, fmt.Errorf("no topic subscription in scenario context; an earlier step must subscribe")
	}
	return w.messages, nil
}

// SetLastSequence records the sequence number of the most recently
// published message.
func (w *World) SetLastSequence(sequence int64) {
	w.lastSequence = sequence
}

// LastSequence returns the sequence of the last published message.
func (w *World) LastSequence() (int64, error) {
	if w.lastSequence == 0 {
		return 0, fmt.Errorf("no published message in scenario context; an earlier step must publish one")
	}
	return w.lastSequence, nil
}

// SetLastError captures a ledger fault a step expects to assert on.
func (w *World) SetLastError(err error) {
	w.lastErr = err
}

// LastError returns the captured fault, which may be nil.
func (w *World) LastError() error {
	return w.lastErr
}
