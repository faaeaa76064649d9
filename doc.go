// The ledger acceptance suite exercises a Hedera network's account,
// token, and consensus services end to end through the Hedera Go SDK.
//
// Scenarios are written in Gherkin under features/ and run with godog
// against a live network. Each scenario gets a fresh context (the
// world) that carries accounts, keys, tokens, topics, and in-flight
// transactions between steps; the ledger package wraps the SDK calls
// the steps orchestrate.
//
// # Running
//
// The suite needs a funded operator account, resolved from the
// environment or a .env file:
//
//	HEDERA_NETWORK=testnet
//	HEDERA_ACCOUNT_ID=0.0.xxxxx
//	HEDERA_PRIVATE_KEY=302e...
//
// Scenarios only run when explicitly enabled, since they spend real
// testnet hbar:
//
//	RUN_ACCEPTANCE=1 go test ./pkg/steps/
//
// Unit tests for the supporting packages run offline with plain
// go test ./...
package ledgeracceptance
