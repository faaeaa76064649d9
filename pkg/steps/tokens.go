package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/ledger"
	"github.com/hashgraph-online/ledger-acceptance-go/pkg/mirror"
	"github.com/hashgraph-online/ledger-acceptance-go/pkg/world"
)

// Scenarios reference one token per run, kept in slot 0.
const tokenSlot = 0

func (s *Steps) registerTokenSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a (first|second|third|fourth) account with (\d+) hbars? and (\d+) HTT tokens$`, s.accountWithHbarAndTokens)
	ctx.Step(`^a mintable token named "([^"]*)" with symbol "([^"]*)" and an initial supply of (\d+) is created$`, s.mintableTokenCreated)
	ctx.Step(`^a fixed supply token named "([^"]*)" with symbol "([^"]*)" and a supply of (\d+) is created$`, s.fixedSupplyTokenCreated)
	ctx.Step(`^the token has the name "([^"]*)"$`, s.tokenHasName)
	ctx.Step(`^the token has the symbol "([^"]*)"$`, s.tokenHasSymbol)
	ctx.Step(`^the token has (\d+) decimals$`, s.tokenHasDecimals)
	ctx.Step(`^the token is owned by the operator account$`, s.tokenOwnedByOperator)
	ctx.Step(`^(\d+) additional tokens are minted$`, s.additionalTokensMinted)
	ctx.Step(`^an attempt to mint (\d+) additional tokens fails$`, s.mintAttemptFails)
	ctx.Step(`^the total supply of the token is (\d+)$`, s.totalSupplyIs)
	ctx.Step(`^the (first|second|third|fourth) account creates a transaction to transfer (\d+) HTT tokens to the (first|second|third|fourth) account$`, s.createTransferTransaction)
	ctx.Step(`^the (first|second|third|fourth) account creates a transaction to transfer (\d+) HTT tokens from the (first|second|third|fourth) account to the (first|second|third|fourth) account$`, s.createTransferTransactionOnBehalf)
	ctx.Step(`^a transaction is created to transfer (\d+) HTT tokens out of the first and second account and (\d+) HTT tokens into the third account and (\d+) HTT tokens into the fourth account$`, s.createFourPartyTransfer)
	ctx.Step(`^the (first|second|third|fourth) account signs the pending transaction$`, s.accountSignsPendingTransaction)
	ctx.Step(`^the (first|second|third|fourth) account submits the transaction$`, s.accountSubmitsTransaction)
	ctx.Step(`^the (first|second|third|fourth) account submits the transaction expecting rejection$`, s.accountSubmitsExpectingRejection)
	ctx.Step(`^the transfer is rejected for a missing signature$`, s.transferRejectedMissingSignature)
	ctx.Step(`^the (first|second|third|fourth) account holds (\d+) HTT tokens$`, s.accountHoldsTokens)
	ctx.Step(`^the (first|second|third|fourth) account has paid for the transaction fee$`, s.accountHasPaidFee)
	ctx.Step(`^the (first|second|third|fourth) account has not paid any transaction fee$`, s.accountHasNotPaidFee)
}

// ensureToken lazily creates the scenario's token the first time a
// funding step needs it.
func (s *Steps) ensureToken(ctx context.Context) (hedera.TokenID, error) {
	tokenID, err := s.world.Token(tokenSlot)
	if err == nil {
		return tokenID, nil
	}

	tokenID, err = s.client.CreateToken(ctx, ledger.TokenSpec{
		Name:          "Test Token",
		Symbol:        "HTT",
		Decimals:      2,
		InitialSupply: 1000,
	})
	if err != nil {
		return hedera.TokenID{}, err
	}

	s.world.PutToken(tokenSlot, tokenID)
	return tokenID, nil
}

func (s *Steps) accountWithHbarAndTokens(ctx context.Context, role string, hbar, tokens int) error {
	account, err := s.client.CreateAccount(ctx, float64(hbar))
	if err != nil {
		return err
	}

	tokenID, err := s.ensureToken(ctx)
	if err != nil {
		return err
	}
	if err := s.client.FundToken(ctx, account, tokenID, int64(tokens)); err != nil {
		return err
	}

	// Snapshot after funding so fee assertions see only what the
	// scenario's own transfer changed.
	balance, err := s.client.HbarBalance(ctx, account.ID)
	if err != nil {
		return err
	}

	s.world.PutAccount(role, account)
	s.world.SnapshotHbar(role, balance)
	return nil
}

func (s *Steps) mintableTokenCreated(ctx context.Context, name, symbol string, supply int) error {
	tokenID, err := s.client.CreateToken(ctx, ledger.TokenSpec{
		Name:          name,
		Symbol:        symbol,
		Decimals:      2,
		InitialSupply: uint64(supply),
	})
	if err != nil {
		return err
	}

	s.world.PutToken(tokenSlot, tokenID)
	return nil
}

func (s *Steps) fixedSupplyTokenCreated(ctx context.Context, name, symbol string, supply int) error {
	tokenID, err := s.client.CreateToken(ctx, ledger.TokenSpec{
		Name:          name,
		Symbol:        symbol,
		Decimals:      2,
		InitialSupply: uint64(supply),
		FixedSupply:   true,
	})
	if err != nil {
		return err
	}

	s.world.PutToken(tokenSlot, tokenID)
	return nil
}

// tokenInfo reads the scenario token's metadata from the mirror node,
// bounded by the message timeout while the mirror catches up.
func (s *Steps) tokenInfo(ctx context.Context) (mirror.TokenInfo, error) {
	tokenID, err := s.world.Token(tokenSlot)
	if err != nil {
		return mirror.TokenInfo{}, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.messageTimeout)
	defer cancel()

	return s.client.AwaitTokenInfo(waitCtx, tokenID)
}

func (s *Steps) tokenHasName(ctx context.Context, name string) error {
	info, err := s.tokenInfo(ctx)
	if err != nil {
		return err
	}
	if info.Name != name {
		return fmt.Errorf("expected token name %q, got %q", name, info.Name)
	}
	return nil
}

func (s *Steps) tokenHasSymbol(ctx context.Context, symbol string) error {
	info, err := s.tokenInfo(ctx)
	if err != nil {
		return err
	}
	if info.Symbol != symbol {
		return fmt.Errorf("expected token symbol %q, got %q", symbol, info.Symbol)
	}
	return nil
}

func (s *Steps) tokenHasDecimals(ctx context.Context, decimals int) error {
	info, err := s.tokenInfo(ctx)
	if err != nil {
		return err
	}
	if info.Decimals != strconv.Itoa(decimals) {
		return fmt.Errorf("expected %d decimals, got %s", decimals, info.Decimals)
	}
	return nil
}

func (s *Steps) tokenOwnedByOperator(ctx context.Context) error {
	info, err := s.tokenInfo(ctx)
	if err != nil {
		return err
	}
	if info.TreasuryID != s.client.OperatorID().String() {
		return fmt.Errorf("expected treasury %s, got %s", s.client.OperatorID().String(), info.TreasuryID)
	}
	return nil
}

func (s *Steps) additionalTokensMinted(ctx context.Context, amount int) error {
	tokenID, err := s.world.Token(tokenSlot)
	if err != nil {
		return err
	}
	return s.client.MintToken(ctx, tokenID, uint64(amount))
}

// mintAttemptFails is the one step where a ledger rejection is the
// expected outcome rather than a scenario failure.
func (s *Steps) mintAttemptFails(ctx context.Context, amount int) error {
	tokenID, err := s.world.Token(tokenSlot)
	if err != nil {
		return err
	}

	mintErr := s.client.MintToken(ctx, tokenID, uint64(amount))
	if mintErr == nil {
		return fmt.Errorf("expected mint of %d to be rejected for fixed supply token %s", amount, tokenID.String())
	}
	return nil
}

func (s *Steps) totalSupplyIs(ctx context.Context, supply int) error {
	tokenID, err := s.world.Token(tokenSlot)
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.messageTimeout)
	defer cancel()

	return s.client.AwaitTokenSupply(waitCtx, tokenID, uint64(supply))
}

func (s *Steps) createTransferTransaction(ctx context.Context, sender string, amount int, receiver string) error {
	return s.createTransferTransactionOnBehalf(ctx, sender, amount, sender, receiver)
}

// createTransferTransactionOnBehalf builds a transfer debiting `from`
// and crediting `to`, paid for by `payer`. The frozen transaction
// stays in the world until every debited party has signed it.
func (s *Steps) createTransferTransactionOnBehalf(ctx context.Context, payer string, amount int, from, to string) error {
	payerAccount, err := s.world.Account(payer)
	if err != nil {
		return err
	}
	fromAccount, err := s.world.Account(from)
	if err != nil {
		return err
	}
	toAccount, err := s.world.Account(to)
	if err != nil {
		return err
	}
	tokenID, err := s.world.Token(tokenSlot)
	if err != nil {
		return err
	}

	transaction, err := s.client.BuildTokenTransfer(ctx, tokenID, payerAccount.ID, []ledger.TokenTransfer{
		{Account: fromAccount.ID, Amount: -int64(amount)},
		{Account: toAccount.ID, Amount: int64(amount)},
	})
	if err != nil {
		return err
	}

	s.world.PutPendingTransfer(transaction)
	return nil
}

func (s *Steps) createFourPartyTransfer(ctx context.Context, out, intoThird, intoFourth int) error {
	tokenID, err := s.world.Token(tokenSlot)
	if err != nil {
		return err
	}

	accounts := make(map[string]ledger.Account, 4)
	for _, role := range []string{world.RoleFirst, world.RoleSecond, world.RoleThird, world.RoleFourth} {
		account, err := s.world.Account(role)
		if err != nil {
			return err
		}
		accounts[role] = account
	}

	transaction, err := s.client.BuildTokenTransfer(ctx, tokenID, accounts[world.RoleFirst].ID, []ledger.TokenTransfer{
		{Account: accounts[world.RoleFirst].ID, Amount: -int64(out)},
		{Account: accounts[world.RoleSecond].ID, Amount: -int64(out)},
		{Account: accounts[world.RoleThird].ID, Amount: int64(intoThird)},
		{Account: accounts[world.RoleFourth].ID, Amount: int64(intoFourth)},
	})
	if err != nil {
		return err
	}

	s.world.PutPendingTransfer(transaction)
	return nil
}

func (s *Steps) accountSignsPendingTransaction(ctx context.Context, role string) error {
	_ = ctx

	account, err := s.world.Account(role)
	if err != nil {
		return err
	}
	transaction, err := s.world.PendingTransfer()
	if err != nil {
		return err
	}

	transaction.Sign(account.Key)
	s.world.MarkSigned(role)
	return nil
}

func (s *Steps) accountSubmitsTransaction(ctx context.Context, role string) error {
	if err := s.signAsPayerAndSubmit(ctx, role); err != nil {
		return err
	}
	s.world.ClearPendingTransfer()
	return nil
}

func (s *Steps) accountSubmitsExpectingRejection(ctx context.Context, role string) error {
	err := s.signAsPayerAndSubmit(ctx, role)
	if err == nil {
		return fmt.Errorf("expected the network to reject the transfer")
	}

	s.world.SetLastError(err)
	s.world.ClearPendingTransfer()
	return nil
}

// signAsPayerAndSubmit adds the submitting account's own signature
// (it pays the fee) and executes. Signatures of the other debited
// parties must already be on the transaction.
func (s *Steps) signAsPayerAndSubmit(ctx context.Context, role string) error {
	account, err := s.world.Account(role)
	if err != nil {
		return err
	}
	transaction, err := s.world.PendingTransfer()
	if err != nil {
		return err
	}

	if !s.world.HasSigned(role) {
		transaction.Sign(account.Key)
		s.world.MarkSigned(role)
	}

	return s.client.SubmitTransfer(ctx, transaction)
}

func (s *Steps) transferRejectedMissingSignature(ctx context.Context) error {
	_ = ctx

	err := s.world.LastError()
	if err == nil {
		return fmt.Errorf("no rejection captured in scenario context")
	}
	if !ledger.IsStatus(err, hedera.StatusInvalidSignature) {
		return fmt.Errorf("expected INVALID_SIGNATURE rejection, got: %v", err)
	}
	return nil
}

func (s *Steps) accountHoldsTokens(ctx context.Context, role string, amount int) error {
	account, err := s.world.Account(role)
	if err != nil {
		return err
	}
	tokenID, err := s.world.Token(tokenSlot)
	if err != nil {
		return err
	}

	balance, err := s.client.TokenBalance(ctx, account.ID, tokenID)
	if err != nil {
		return err
	}
	if balance != int64(amount) {
		return fmt.Errorf("expected %s account to hold %d HTT, got %d", role, amount, balance)
	}
	return nil
}

func (s *Steps) accountHasPaidFee(ctx context.Context, role string) error {
	account, err := s.world.Account(role)
	if err != nil {
		return err
	}
	snapshot, err := s.world.HbarSnapshot(role)
	if err != nil {
		return err
	}

	balance, err := s.client.HbarBalance(ctx, account.ID)
	if err != nil {
		return err
	}
	if balance.AsTinybar() >= snapshot.AsTinybar() {
		return fmt.Errorf("expected %s account balance to drop below %s, got %s", role, snapshot.String(), balance.String())
	}
	return nil
}

func (s *Steps) accountHasNotPaidFee(ctx context.Context, role string) error {
	account, err := s.world.Account(role)
	if err != nil {
		return err
	}
	snapshot, err := s.world.HbarSnapshot(role)
	if err != nil {
		return err
	}

	balance, err := s.client.HbarBalance(ctx, account.ID)
	if err != nil {
		return err
	}
	if balance.AsTinybar() != snapshot.AsTinybar() {
		return fmt.Errorf("expected %s account balance to stay at %s, got %s", role, snapshot.String(), balance.String())
	}
	return nil
}
