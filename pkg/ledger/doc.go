// Package ledger wraps the Hedera SDK client with the operations the
// acceptance scenarios exercise: account creation and balance queries,
// token lifecycle (create, associate, mint, transfer), and consensus
// topics (create, publish, await receipt). All consensus, signing, and
// retry behavior lives in the SDK; this package only assembles calls,
// enforces signing preconditions, and reports results.
package ledger
