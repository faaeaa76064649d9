package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/mirror"
)

// ThresholdKey builds an M-of-N composite signing policy over the
// given public keys.
func ThresholdKey(threshold int, publicKeys ...hedera.PublicKey) (*hedera.KeyList, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("threshold must be at least 1")
	}
	if threshold > len(publicKeys) {
		return nil, fmt.Errorf("threshold %d exceeds %d keys", threshold, len(publicKeys))
	}

	keyList := hedera.KeyListWithThreshold(uint(threshold))
	for _, publicKey := range publicKeys {
		keyList.Add(publicKey)
	}

	return keyList, nil
}

// CreateTopic creates a consensus topic. A non-nil submitKey restricts
// publication to holders of that key (or enough of a threshold list).
func (c *Client) CreateTopic(ctx context.Context, memo string, submitKey hedera.Key) (hedera.TopicID, error) {
	_ = ctx

	transaction := hedera.NewTopicCreateTransaction().
		SetTopicMemo(memo).
		SetTransactionMemo(c.transactionMemo())
	if submitKey != nil {
		transaction.SetSubmitKey(submitKey)
	}

	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return hedera.TopicID{}, fmt.Errorf("failed to execute topic create transaction: %w", err)
	}

	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return hedera.TopicID{}, fmt.Errorf("failed to get topic create receipt: %w", err)
	}
	if receipt.TopicID == nil {
		return hedera.TopicID{}, fmt.Errorf("topic ID missing in topic create receipt")
	}

	c.logger.Info("created topic",
		zap.String("topic", receipt.TopicID.String()),
		zap.String("memo", memo),
	)

	return *receipt.TopicID, nil
}

// AwaitTopicInfo polls the mirror node for a topic's metadata until
// the topic propagates or ctx expires.
func (c *Client) AwaitTopicInfo(ctx context.Context, topicID hedera.TopicID) (mirror.TopicInfo, error) {
	var info mirror.TopicInfo

	operation := func() error {
		fetched, err := c.mirrorClient.GetTopicInfo(ctx, topicID.String())
		if err != nil {
			return err
		}
		info = fetched
		return nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(2*time.Second), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return mirror.TopicInfo{}, fmt.Errorf("timed out waiting for topic info: %w", err)
	}

	return info, nil
}

// SubmitMessage publishes payload to the topic, signing with each of
// the given keys when the topic's submit key is not the operator's.
// It returns the consensus sequence number assigned to the message.
func (c *Client) SubmitMessage(
	ctx context.Context,
	topicID hedera.TopicID,
	payload []byte,
	submitKeys ...hedera.PrivateKey,
) (int64, error) {
	_ = ctx

	if len(payload) == 0 {
		return 0, fmt.Errorf("message payload is required")
	}

	transaction := hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(topicID).
		SetMessage(payload).
		SetTransactionMemo(c.transactionMemo())

	var response hedera.TransactionResponse
	var err error
	if len(submitKeys) > 0 {
		frozen, freezeErr := transaction.FreezeWith(c.hederaClient)
		if freezeErr != nil {
			return 0, fmt.Errorf("failed to freeze message submit transaction: %w", freezeErr)
		}
		for _, key := range submitKeys {
			frozen = frozen.Sign(key)
		}
		response, err = frozen.Execute(c.hederaClient)
	} else {
		response, err = transaction.Execute(c.hederaClient)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to execute message submit transaction: %w", err)
	}

	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return 0, fmt.Errorf("failed to get message submit receipt: %w", err)
	}

	sequence := int64(receipt.TopicSequenceNumber)
	c.logger.Info("submitted topic message",
		zap.String("topic", topicID.String()),
		zap.Int64("sequence", sequence),
		zap.Int("payload_bytes", len(payload)),
	)

	return sequence, nil
}

// SubscribeTopic streams message payloads from a topic, starting from
// the beginning of its history. The returned cancel function stops
// the subscription.
func (c *Client) SubscribeTopic(
	ctx context.Context,
	topicID hedera.TopicID,
) (<-chan []byte, func(), error) {
	_ = ctx

	messages := make(chan []byte, 16)

	handle, err := hedera.NewTopicMessageQuery().
		SetTopicID(topicID).
		SetStartTime(time.Unix(0, 0)).
		Subscribe(c.hederaClient, func(message hedera.TopicMessage) {
			select {
			case messages <- message.Contents:
			default:
				// Scenarios publish a handful of messages; drop on
				// overflow rather than block the SDK callback.
			}
		})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe to topic %s: %w", topicID.String(), err)
	}

	return messages, handle.Unsubscribe, nil
}

// AwaitTopicMessage polls the mirror node for a message by sequence
// number until it propagates or ctx expires. Mirror ingestion lags
// consensus by a few seconds, so this replaces a fixed sleep with a
// bounded constant-interval poll.
func (c *Client) AwaitTopicMessage(
	ctx context.Context,
	topicID hedera.TopicID,
	sequence int64,
) ([]byte, error) {
	var payload []byte

	operation := func() error {
		message, err := c.mirrorClient.GetTopicMessageBySequence(ctx, topicID.String(), sequence)
		if err != nil {
			// The mirror answers 404 until it has ingested a new
			// topic, so fetch errors are retried, not fatal.
			return err
		}
		if message == nil {
			return fmt.Errorf("message %d not yet visible on topic %s", sequence, topicID.String())
		}

		decoded, err := mirror.DecodeMessageData(*message)
		if err != nil {
			return backoff.Permanent(err)
		}
		payload = decoded
		return nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(2*time.Second), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("timed out waiting for topic message: %w", err)
	}

	return payload, nil
}
