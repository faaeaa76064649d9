package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/mirror"
	"github.com/hashgraph-online/ledger-acceptance-go/pkg/shared"
)

// Config wires the operator credentials and optional overrides into a
// Client. Logger defaults to a no-op logger.
type Config struct {
	Operator      shared.OperatorConfig
	MirrorBaseURL string
	Logger        *zap.Logger
}

// Client is the single ledger connection shared by every scenario in a
// run. It is read-only after construction; all mutable scenario state
// lives in the world, never here.
type Client struct {
	hederaClient *hedera.Client
	mirrorClient *mirror.Client
	operatorID   hedera.AccountID
	operatorKey  hedera.PrivateKey
	logger       *zap.Logger
	runID        string
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	operatorID, operatorKey, err := config.Operator.Operator()
	if err != nil {
		return nil, err
	}

	hederaClient, err := shared.NewHederaClient(config.Operator.Network)
	if err != nil {
		return nil, err
	}
	hederaClient.SetOperator(operatorID, operatorKey)

	mirrorClient, err := mirror.NewClient(mirror.Config{
		Network: config.Operator.Network,
		BaseURL: config.MirrorBaseURL,
	})
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	logger.Info("ledger client ready",
		zap.String("network", config.Operator.Network),
		zap.String("operator", operatorID.String()),
	)

	return &Client{
		hederaClient: hederaClient,
		mirrorClient: mirrorClient,
		operatorID:   operatorID,
		operatorKey:  operatorKey,
		logger:       logger,
		runID:        runID,
	}, nil
}

// Hedera returns the underlying SDK client.
func (c *Client) Hedera() *hedera.Client {
	return c.hederaClient
}

// Mirror returns the mirror node client.
func (c *Client) Mirror() *mirror.Client {
	return c.mirrorClient
}

// OperatorID returns the paying account for this run.
func (c *Client) OperatorID() hedera.AccountID {
	return c.operatorID
}

// OperatorKey returns the operator's signing key.
func (c *Client) OperatorKey() hedera.PrivateKey {
	return c.operatorKey
}

// RunID identifies this process's run in transaction memos and logs.
func (c *Client) RunID() string {
	return c.runID
}

func (c *Client) transactionMemo() string {
	return fmt.Sprintf("acceptance-run:%s", c.runID)
}

// IsStatus reports whether err is a network rejection carrying the
// given status, either at precheck or in the receipt.
func IsStatus(err error, status hedera.Status) bool {
	var receiptErr hedera.ErrHederaReceiptStatus
	if errors.As(err, &receiptErr) {
		return receiptErr.Status == status
	}

	var precheckErr hedera.ErrHederaPreCheckStatus
	if errors.As(err, &precheckErr) {
		return precheckErr.Status == status
	}

	return false
}
