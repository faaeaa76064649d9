package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/world"
)

func (s *Steps) registerAccountSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a (first|second|third|fourth) account with more than (\d+) hbars?$`, s.accountWithMoreThanHbar)
	ctx.Step(`^a new account is created with exactly (\d+) hbars?$`, s.accountWithExactHbar)
	ctx.Step(`^the new account holds exactly (\d+) hbars?$`, s.newAccountHoldsExactHbar)
}

// accountWithMoreThanHbar creates an account for the role funded one
// hbar above the threshold, then verifies the strict inequality the
// scenario states.
func (s *Steps) accountWithMoreThanHbar(ctx context.Context, role string, minimum int) error {
	account, err := s.client.CreateAccount(ctx, float64(minimum)+1)
	if err != nil {
		return err
	}

	balance, err := s.client.HbarBalance(ctx, account.ID)
	if err != nil {
		return err
	}
	threshold := hbarTinybar(minimum)
	if balance.AsTinybar() <= threshold {
		return fmt.Errorf("%s account balance %s is not more than %d hbar", role, balance.String(), minimum)
	}

	s.world.PutAccount(role, account)
	s.world.SnapshotHbar(role, balance)
	return nil
}

func (s *Steps) accountWithExactHbar(ctx context.Context, amount int) error {
	account, err := s.client.CreateAccount(ctx, float64(amount))
	if err != nil {
		return err
	}

	s.world.PutAccount(world.RoleFirst, account)
	return nil
}

func (s *Steps) newAccountHoldsExactHbar(ctx context.Context, amount int) error {
	account, err := s.world.Account(world.RoleFirst)
	if err != nil {
		return err
	}

	balance, err := s.client.HbarBalance(ctx, account.ID)
	if err != nil {
		return err
	}
	if balance.AsTinybar() != hbarTinybar(amount) {
		return fmt.Errorf("expected exactly %d hbar, got %s", amount, balance.String())
	}

	return nil
}

// hbarTinybar converts whole hbars to tinybars for exact comparison.
func hbarTinybar(hbar int) int64 {
	return int64(hbar) * 100_000_000
}
