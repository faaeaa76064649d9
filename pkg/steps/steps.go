// Package steps binds the Gherkin scenario vocabulary to ledger
// operations. Each handler reads the entities earlier steps left in
// the world, performs one logical ledger action, and either stores
// the result or asserts an expected outcome. Handlers never retry;
// any ledger fault fails the scenario, except where a rejection is
// the asserted outcome.
package steps

import (
	"context"
	"time"

	"github.com/cucumber/godog"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/ledger"
	"github.com/hashgraph-online/ledger-acceptance-go/pkg/world"
)

const defaultMessageTimeout = 60 * time.Second

// Steps owns the shared ledger client and the current scenario's
// world. The suite runs scenarios sequentially, so one Steps value
// serves the whole run; the world is replaced before each scenario.
type Steps struct {
	client         *ledger.Client
	world          *world.World
	messageTimeout time.Duration
}

// New creates a step library bound to the given ledger client.
func New(client *ledger.Client) *Steps {
	return &Steps{
		client:         client,
		world:          world.New(),
		messageTimeout: defaultMessageTimeout,
	}
}

// Register wires every step pattern and the per-scenario lifecycle
// hooks into the godog scenario context.
func (s *Steps) Register(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		s.world = world.New()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		s.world.Close()
		return ctx, err
	})

	s.registerAccountSteps(ctx)
	s.registerTokenSteps(ctx)
	s.registerTopicSteps(ctx)
}
