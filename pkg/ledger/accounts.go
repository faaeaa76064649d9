package ledger

import (
	"context"
	"fmt"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"
)

// Account pairs a ledger account with the private key that controls
// it. Accounts created by the suite are funded from the operator and
// discarded when the scenario ends.
type Account struct {
	ID  hedera.AccountID
	Key hedera.PrivateKey
}

// PublicKey returns the account's verification key.
func (a Account) PublicKey() hedera.PublicKey {
	return a.Key.PublicKey()
}

// CreateAccount generates a fresh ED25519 key pair and creates an
// account holding initialHbar.
func (c *Client) CreateAccount(ctx context.Context, initialHbar float64) (Account, error) {
	_ = ctx

	privateKey, err := hedera.PrivateKeyGenerateEd25519()
	if err != nil {
		return Account{}, fmt.Errorf("failed to generate account key: %w", err)
	}

	transaction := hedera.NewAccountCreateTransaction().
		SetKey(privateKey.PublicKey()).
		SetInitialBalance(hedera.NewHbar(initialHbar)).
		SetTransactionMemo(c.transactionMemo())

	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return Account{}, fmt.Errorf("failed to execute account create transaction: %w", err)
	}

	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return Account{}, fmt.Errorf("failed to get account create receipt: %w", err)
	}
	if receipt.AccountID == nil {
		return Account{}, fmt.Errorf("account ID missing in account create receipt")
	}

	account := Account{ID: *receipt.AccountID, Key: privateKey}
	c.logger.Info("created account",
		zap.String("account", account.ID.String()),
		zap.Float64("initial_hbar", initialHbar),
	)

	return account, nil
}

// HbarBalance returns the native-currency balance of an account.
func (c *Client) HbarBalance(ctx context.Context, accountID hedera.AccountID) (hedera.Hbar, error) {
	_ = ctx

	balance, err := hedera.NewAccountBalanceQuery().
		SetAccountID(accountID).
		Execute(c.hederaClient)
	if err != nil {
		return hedera.Hbar{}, fmt.Errorf("failed to query balance of %s: %w", accountID.String(), err)
	}

	return balance.Hbars, nil
}

// TokenBalance returns how many units of a token an account holds.
// Unassociated accounts report zero.
func (c *Client) TokenBalance(
	ctx context.Context,
	accountID hedera.AccountID,
	tokenID hedera.TokenID,
) (int64, error) {
	_ = ctx

	balance, err := hedera.NewAccountBalanceQuery().
		SetAccountID(accountID).
		Execute(c.hederaClient)
	if err != nil {
		return 0, fmt.Errorf("failed to query balance of %s: %w", accountID.String(), err)
	}

	return int64(balance.Tokens.Get(tokenID)), nil
}
