package steps_test

import (
	"os"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/ledger"
	"github.com/hashgraph-online/ledger-acceptance-go/pkg/shared"
	"github.com/hashgraph-online/ledger-acceptance-go/pkg/steps"
)

var opts = godog.Options{
	Output:      colors.Colored(os.Stdout),
	Format:      "pretty",
	Strict:      true,
	Concurrency: 1,

	Paths: []string{"../../features"},
}

func init() {
	godog.BindCommandLineFlags("godog.", &opts)
}

func TestFeatures(t *testing.T) {
	pflag.Parse()

	if os.Getenv("RUN_ACCEPTANCE") != "1" {
		t.Skip("set RUN_ACCEPTANCE=1 to run live ledger acceptance scenarios")
	}

	operatorConfig, err := shared.OperatorConfigFromEnv()
	if err != nil {
		t.Skipf("skipping acceptance run: %v", err)
	}
	if strings.EqualFold(operatorConfig.Network, shared.NetworkMainnet) && os.Getenv("ALLOW_MAINNET_ACCEPTANCE") != "1" {
		t.Skip("resolved mainnet credentials; set ALLOW_MAINNET_ACCEPTANCE=1 to allow live mainnet writes")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	client, err := ledger.NewClient(ledger.Config{
		Operator: operatorConfig,
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("failed to create ledger client: %v", err)
	}

	suite := godog.TestSuite{
		Name:                "acceptance",
		ScenarioInitializer: steps.New(client).Register,
		Options:             &opts,
	}

	if status := suite.Run(); status != 0 {
		t.Fatalf("acceptance suite failed with status %d", status)
	}
}
