package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/azizikri/course-commerce/internal/config"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

func Topics() []string {
	return []string{
		TopicNotificationRequest,
		TopicNotificationRetry,
		TopicNotificationRequest + TopicDLQSuffix,
		TopicPaymentSettled,
	}
}

func EnsureTopics(ctx context.Context, client *kgo.Client, cfg *config.Config, logger *zap.Logger) error {
	adm := kadm.NewClient(client)

	partitions := cfg.TopicPartitions()
	retryPartitions := cfg.RetryPartitions()
	replicationFactor := cfg.ReplicationFactor()
	configs := map[string]*string{"min.insync.replicas": &cfg.KafkaMinISR}

	for _, topic := range Topics() {
		p := partitions
		if strings.HasSuffix(topic, TopicRetrySuffix) || strings.HasSuffix(topic, TopicDLQSuffix) {
			p = retryPartitions
		}

		resp, err := adm.CreateTopics(ctx, int32(p), replicationFactor, configs, topic)
		if err != nil {
			return fmt.Errorf("failed to create topic %s: %w", topic, err)
		}
		for _, detail := range resp {
			if detail.Err != nil && !strings.Contains(detail.Err.Error(), "already exists") {
				return fmt.Errorf("failed to create topic %s: %w", detail.Topic, detail.Err)
			}
		}
	}

	logger.Info("kafka topics ensured", zap.Strings("topics", Topics()))
	return nil
}
