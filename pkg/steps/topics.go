package steps

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/hashgraph-online/ledger-acceptance-go/pkg/ledger"
	"github.com/hashgraph-online/ledger-acceptance-go/pkg/world"
)

func (s *Steps) registerTopicSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a topic is created with the memo "([^"]*)" and the first account as submit key$`, s.topicCreatedWithAccountSubmitKey)
	ctx.Step(`^a (\d+) of (\d+) threshold key is created from the first and second account keys$`, s.thresholdKeyCreated)
	ctx.Step(`^a topic is created with the memo "([^"]*)" and the threshold key as submit key$`, s.topicCreatedWithThresholdSubmitKey)
	ctx.Step(`^the topic has the memo "([^"]*)"$`, s.topicHasMemo)
	ctx.Step(`^the message "([^"]*)" is published to the topic$`, s.messagePublished)
	ctx.Step(`^the message "([^"]*)" is published to the topic signed by the first and second account keys$`, s.messagePublishedWithThresholdSigners)
	ctx.Step(`^the message "([^"]*)" is received by the topic subscriber$`, s.messageReceivedBySubscriber)
	ctx.Step(`^the message "([^"]*)" is visible on the mirror node$`, s.messageVisibleOnMirror)
}

// topicCreatedWithAccountSubmitKey creates the topic and immediately
// opens a subscription so the receipt assertion sees every message
// from the start of the topic's history.
func (s *Steps) topicCreatedWithAccountSubmitKey(ctx context.Context, memo string) error {
	account, err := s.world.Account(world.RoleFirst)
	if err != nil {
		return err
	}

	topicID, err := s.client.CreateTopic(ctx, memo, account.PublicKey())
	if err != nil {
		return err
	}
	s.world.PutTopic(topicID, memo)

	messages, unsubscribe, err := s.client.SubscribeTopic(ctx, topicID)
	if err != nil {
		return err
	}
	s.world.PutSubscription(messages, unsubscribe)
	return nil
}

func (s *Steps) thresholdKeyCreated(ctx context.Context, threshold, total int) error {
	_ = ctx

	if total != 2 {
		return fmt.Errorf("threshold key steps cover two account keys, got %d", total)
	}

	first, err := s.world.Account(world.RoleFirst)
	if err != nil {
		return err
	}
	second, err := s.world.Account(world.RoleSecond)
	if err != nil {
		return err
	}

	keyList, err := ledger.ThresholdKey(threshold, first.PublicKey(), second.PublicKey())
	if err != nil {
		return err
	}

	s.world.PutThresholdKey(keyList)
	return nil
}

func (s *Steps) topicCreatedWithThresholdSubmitKey(ctx context.Context, memo string) error {
	keyList, err := s.world.ThresholdKey()
	if err != nil {
		return err
	}

	topicID, err := s.client.CreateTopic(ctx, memo, keyList)
	if err != nil {
		return err
	}

	s.world.PutTopic(topicID, memo)
	return nil
}

// topicHasMemo asserts the memo through the mirror node, bounded by
// the message timeout while the new topic propagates there.
func (s *Steps) topicHasMemo(ctx context.Context, memo string) error {
	topicID, _, err := s.world.Topic()
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.messageTimeout)
	defer cancel()

	info, err := s.client.AwaitTopicInfo(waitCtx, topicID)
	if err != nil {
		return err
	}
	if info.Memo != memo {
		return fmt.Errorf("expected topic memo %q, got %q", memo, info.Memo)
	}
	return nil
}

// messagePublished signs with the first account's key, which guards
// the topic created by the single-key scenario.
func (s *Steps) messagePublished(ctx context.Context, message string) error {
	account, err := s.world.Account(world.RoleFirst)
	if err != nil {
		return err
	}
	topicID, _, err := s.world.Topic()
	if err != nil {
		return err
	}

	sequence, err := s.client.SubmitMessage(ctx, topicID, []byte(message), account.Key)
	if err != nil {
		return err
	}

	s.world.SetLastSequence(sequence)
	return nil
}

func (s *Steps) messagePublishedWithThresholdSigners(ctx context.Context, message string) error {
	first, err := s.world.Account(world.RoleFirst)
	if err != nil {
		return err
	}
	second, err := s.world.Account(world.RoleSecond)
	if err != nil {
		return err
	}
	topicID, _, err := s.world.Topic()
	if err != nil {
		return err
	}

	sequence, err := s.client.SubmitMessage(ctx, topicID, []byte(message), first.Key, second.Key)
	if err != nil {
		return err
	}

	s.world.SetLastSequence(sequence)
	return nil
}

// messageReceivedBySubscriber drains the live subscription until the
// expected payload arrives byte-identical, bounded by the message
// timeout rather than a fixed sleep.
func (s *Steps) messageReceivedBySubscriber(ctx context.Context, message string) error {
	messages, err := s.world.Subscription()
	if err != nil {
		return err
	}

	expected := []byte(message)
	deadline := time.NewTimer(s.messageTimeout)
	defer deadline.Stop()

	for {
		select {
		case payload := <-messages:
			if bytes.Equal(payload, expected) {
				return nil
			}
		case <-deadline.C:
			return fmt.Errorf("message %q not received within %s", message, s.messageTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Steps) messageVisibleOnMirror(ctx context.Context, message string) error {
	topicID, _, err := s.world.Topic()
	if err != nil {
		return err
	}
	sequence, err := s.world.LastSequence()
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.messageTimeout)
	defer cancel()

	payload, err := s.client.AwaitTopicMessage(waitCtx, topicID, sequence)
	if err != nil {
		return err
	}
	if !bytes.Equal(payload, []byte(message)) {
		return fmt.Errorf("expected payload %q, got %q", message, payload)
	}
	return nil
}
