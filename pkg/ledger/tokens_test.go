package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSpecValidate(t *testing.T) {
	valid := TokenSpec{Name: "Test Token", Symbol: "HTT", Decimals: 2, InitialSupply: 1000}
	require.NoError(t, valid.validate())

	missingName := valid
	missingName.Name = "  "
	assert.Error(t, missingName.validate())

	missingSymbol := valid
	missingSymbol.Symbol = ""
	assert.Error(t, missingSymbol.validate())
}

func TestValidateTransfersBalanced(t *testing.T) {
	first := hedera.AccountID{Account: 1001}
	second := hedera.AccountID{Account: 1002}
	third := hedera.AccountID{Account: 1003}
	fourth := hedera.AccountID{Account: 1004}

	require.NoError(t, validateTransfers([]TokenTransfer{
		{Account: first, Amount: -10},
		{Account: second, Amount: 10},
	}))

	// Four-party split: two debits feeding two credits.
	require.NoError(t, validateTransfers([]TokenTransfer{
		{Account: first, Amount: -10},
		{Account: second, Amount: -10},
		{Account: third, Amount: 5},
		{Account: fourth, Amount: 15},
	}))
}

func TestValidateTransfersRejectsImbalance(t *testing.T) {
	first := hedera.AccountID{Account: 1001}
	second := hedera.AccountID{Account: 1002}

	err := validateTransfers([]TokenTransfer{
		{Account: first, Amount: -10},
		{Account: second, Amount: 5},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must balance")
}

func TestValidateTransfersRejectsZeroLeg(t *testing.T) {
	err := validateTransfers([]TokenTransfer{
		{Account: hedera.AccountID{Account: 1001}, Amount: 0},
	})
	require.Error(t, err)
}

func TestValidateTransfersRejectsEmpty(t *testing.T) {
	require.Error(t, validateTransfers(nil))
}

func TestBuildTokenTransferValidates(t *testing.T) {
	client, err := NewClient(testConfig())
	require.NoError(t, err)

	tokenID := hedera.TokenID{Token: 555}
	payer := hedera.AccountID{Account: 1001}

	_, err = client.BuildTokenTransfer(context.Background(), tokenID, payer, []TokenTransfer{
		{Account: payer, Amount: -5},
	})
	require.Error(t, err)
}

func TestSubmitTransferRequiresTransaction(t *testing.T) {
	client, err := NewClient(testConfig())
	require.NoError(t, err)

	require.Error(t, client.SubmitTransfer(context.Background(), nil))
}

func TestFundTokenRejectsNegativeAmount(t *testing.T) {
	client, err := NewClient(testConfig())
	require.NoError(t, err)

	account := Account{ID: hedera.AccountID{Account: 1001}}
	require.Error(t, client.FundToken(context.Background(), account, hedera.TokenID{Token: 555}, -1))
}

func TestAwaitTokenInfoReturnsMetadata(t *testing.T) {
	calls := 0
	client := newClientWithMirror(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// First poll: mirror has not ingested the token yet.
			http.Error(w, `{"_status":{"messages":[{"message":"Not found"}]}}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"token_id":            "0.0.555",
			"name":                "Test Token",
			"symbol":              "HTT",
			"decimals":            "2",
			"total_supply":        "1000",
			"treasury_account_id": "0.0.12345",
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := client.AwaitTokenInfo(ctx, hedera.TokenID{Token: 555})
	require.NoError(t, err)
	assert.Equal(t, "Test Token", info.Name)
	assert.Equal(t, "HTT", info.Symbol)
	assert.Equal(t, "2", info.Decimals)
	assert.Equal(t, "0.0.12345", info.TreasuryID)
	assert.GreaterOrEqual(t, calls, 2)
}

func TestAwaitTokenSupplyWaitsForExpectedValue(t *testing.T) {
	calls := 0
	client := newClientWithMirror(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		supply := "1000"
		if calls > 1 {
			// Later polls: the mint has propagated.
			supply = "1100"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"token_id":     "0.0.555",
			"total_supply": supply,
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, client.AwaitTokenSupply(ctx, hedera.TokenID{Token: 555}, 1100))
	assert.GreaterOrEqual(t, calls, 2)
}

func TestAwaitTokenSupplyTimesOut(t *testing.T) {
	client := newClientWithMirror(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"token_id":     "0.0.555",
			"total_supply": "1000",
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := client.AwaitTokenSupply(ctx, hedera.TokenID{Token: 555}, 1100)
	require.Error(t, err)
}
