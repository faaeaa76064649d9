package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/mirror"
)

// TokenSpec describes a fungible token to create. The operator acts
// as treasury and admin. FixedSupply tokens carry no supply key, so
// every later mint attempt is rejected by the network.
type TokenSpec struct {
	Name          string
	Symbol        string
	Decimals      uint
	InitialSupply uint64
	FixedSupply   bool
}

func (s TokenSpec) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("token name is required")
	}
	if strings.TrimSpace(s.Symbol) == "" {
		return fmt.Errorf("token symbol is required")
	}
	return nil
}

// CreateToken creates a fungible token with the operator as treasury.
func (c *Client) CreateToken(ctx context.Context, spec TokenSpec) (hedera.TokenID, error) {
	_ = ctx

	if err := spec.validate(); err != nil {
		return hedera.TokenID{}, err
	}

	transaction := hedera.NewTokenCreateTransaction().
		SetTokenName(spec.Name).
		SetTokenSymbol(spec.Symbol).
		SetDecimals(spec.Decimals).
		SetInitialSupply(spec.InitialSupply).
		SetTreasuryAccountID(c.operatorID).
		SetAdminKey(c.operatorKey.PublicKey()).
		SetTransactionMemo(c.transactionMemo())

	if spec.FixedSupply {
		transaction.
			SetSupplyType(hedera.TokenSupplyTypeFinite).
			SetMaxSupply(int64(spec.InitialSupply))
	} else {
		transaction.SetSupplyKey(c.operatorKey.PublicKey())
	}

	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return hedera.TokenID{}, fmt.Errorf("failed to execute token create transaction: %w", err)
	}

	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return hedera.TokenID{}, fmt.Errorf("failed to get token create receipt: %w", err)
	}
	if receipt.TokenID == nil {
		return hedera.TokenID{}, fmt.Errorf("token ID missing in token create receipt")
	}

	c.logger.Info("created token",
		zap.String("token", receipt.TokenID.String()),
		zap.String("symbol", spec.Symbol),
		zap.Uint64("initial_supply", spec.InitialSupply),
		zap.Bool("fixed_supply", spec.FixedSupply),
	)

	return *receipt.TokenID, nil
}

// AwaitTokenInfo polls the mirror node for a token's metadata until
// the token propagates or ctx expires. The mirror answers 404 for a
// token it has not yet ingested.
func (c *Client) AwaitTokenInfo(ctx context.Context, tokenID hedera.TokenID) (mirror.TokenInfo, error) {
	var info mirror.TokenInfo

	operation := func() error {
		fetched, err := c.mirrorClient.GetTokenInfo(ctx, tokenID.String())
		if err != nil {
			return err
		}
		info = fetched
		return nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(2*time.Second), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return mirror.TokenInfo{}, fmt.Errorf("timed out waiting for token info: %w", err)
	}

	return info, nil
}

// AwaitTokenSupply polls the mirror node until the token's reported
// total supply matches the expected base-unit value or ctx expires.
// Mirror ingestion lags consensus, so a mint is not visible there
// immediately after its receipt.
func (c *Client) AwaitTokenSupply(ctx context.Context, tokenID hedera.TokenID, supply uint64) error {
	expected := strconv.FormatUint(supply, 10)

	operation := func() error {
		info, err := c.mirrorClient.GetTokenInfo(ctx, tokenID.String())
		if err != nil {
			return err
		}
		if info.TotalSupply != expected {
			return fmt.Errorf("token %s supply is %s, want %s", tokenID.String(), info.TotalSupply, expected)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(2*time.Second), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("timed out waiting for token supply: %w", err)
	}

	return nil
}

// MintToken mints amount additional units into the treasury. The
// network rejects this for tokens created without a supply key.
func (c *Client) MintToken(ctx context.Context, tokenID hedera.TokenID, amount uint64) error {
	_ = ctx

	response, err := hedera.NewTokenMintTransaction().
		SetTokenID(tokenID).
		SetAmount(amount).
		SetTransactionMemo(c.transactionMemo()).
		Execute(c.hederaClient)
	if err != nil {
		return fmt.Errorf("failed to execute token mint transaction: %w", err)
	}

	if _, err := response.GetReceipt(c.hederaClient); err != nil {
		return fmt.Errorf("token mint rejected for %s: %w", tokenID.String(), err)
	}

	c.logger.Info("minted tokens",
		zap.String("token", tokenID.String()),
		zap.Uint64("amount", amount),
	)

	return nil
}

// EnsureAssociated associates the account with the token, signed by
// the account's own key. A token that is already associated is not an
// error; scenarios fund the same account more than once.
func (c *Client) EnsureAssociated(ctx context.Context, account Account, tokenID hedera.TokenID) error {
	_ = ctx

	transaction, err := hedera.NewTokenAssociateTransaction().
		SetAccountID(account.ID).
		SetTokenIDs(tokenID).
		FreezeWith(c.hederaClient)
	if err != nil {
		return fmt.Errorf("failed to freeze token associate transaction: %w", err)
	}

	response, err := transaction.Sign(account.Key).Execute(c.hederaClient)
	if err != nil {
		if IsStatus(err, hedera.StatusTokenAlreadyAssociatedToAccount) {
			return nil
		}
		return fmt.Errorf("failed to execute token associate transaction: %w", err)
	}

	if _, err := response.GetReceipt(c.hederaClient); err != nil {
		if IsStatus(err, hedera.StatusTokenAlreadyAssociatedToAccount) {
			return nil
		}
		return fmt.Errorf("token associate rejected for %s: %w", account.ID.String(), err)
	}

	return nil
}

// FundToken associates the account and transfers amount units from
// the treasury to it.
func (c *Client) FundToken(
	ctx context.Context,
	account Account,
	tokenID hedera.TokenID,
	amount int64,
) error {
	if amount < 0 {
		return fmt.Errorf("funding amount cannot be negative")
	}

	if err := c.EnsureAssociated(ctx, account, tokenID); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	response, err := hedera.NewTransferTransaction().
		AddTokenTransfer(tokenID, c.operatorID, -amount).
		AddTokenTransfer(tokenID, account.ID, amount).
		Execute(c.hederaClient)
	if err != nil {
		return fmt.Errorf("failed to execute token funding transfer: %w", err)
	}

	if _, err := response.GetReceipt(c.hederaClient); err != nil {
		return fmt.Errorf("token funding transfer rejected: %w", err)
	}

	c.logger.Info("funded account with tokens",
		zap.String("account", account.ID.String()),
		zap.String("token", tokenID.String()),
		zap.Int64("amount", amount),
	)

	return nil
}

// TokenTransfer is one leg of a multi-party token transfer. Negative
// amounts debit the account, positive amounts credit it.
type TokenTransfer struct {
	Account hedera.AccountID
	Amount  int64
}

func validateTransfers(transfers []TokenTransfer) error {
	if len(transfers) == 0 {
		return fmt.Errorf("at least one transfer leg is required")
	}

	var sum int64
	for _, transfer := range transfers {
		if transfer.Amount == 0 {
			return fmt.Errorf("transfer leg for %s has zero amount", transfer.Account.String())
		}
		sum += transfer.Amount
	}
	if sum != 0 {
		return fmt.Errorf("transfer legs must balance, got net %d", sum)
	}

	return nil
}

// BuildTokenTransfer assembles and freezes a token transfer paid by
// payer. The returned transaction must be signed by every debited
// party before submission; the network rejects it otherwise.
func (c *Client) BuildTokenTransfer(
	ctx context.Context,
	tokenID hedera.TokenID,
	payer hedera.AccountID,
	transfers []TokenTransfer,
) (*hedera.TransferTransaction, error) {
	_ = ctx

	if err := validateTransfers(transfers); err != nil {
		return nil, err
	}

	transaction := hedera.NewTransferTransaction().
		SetTransactionID(hedera.TransactionIDGenerate(payer)).
		SetTransactionMemo(c.transactionMemo())
	for _, transfer := range transfers {
		transaction.AddTokenTransfer(tokenID, transfer.Account, transfer.Amount)
	}

	frozen, err := transaction.FreezeWith(c.hederaClient)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze transfer transaction: %w", err)
	}

	return frozen, nil
}

// SubmitTransfer executes a previously built and signed transfer and
// waits for its receipt.
func (c *Client) SubmitTransfer(
	ctx context.Context,
	transaction *hedera.TransferTransaction,
) error {
	_ = ctx

	if transaction == nil {
		return fmt.Errorf("no transfer transaction to submit")
	}

	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return fmt.Errorf("failed to execute transfer transaction: %w", err)
	}

	if _, err := response.GetReceipt(c.hederaClient); err != nil {
		return fmt.Errorf("transfer rejected: %w", err)
	}

	c.logger.Info("submitted transfer", zap.String("transaction", response.TransactionID.String()))

	return nil
}
