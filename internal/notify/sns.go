package notify

import (
	"context"
	"fmt"

	"ironlog/fitness-tracker/internal/config"
	"ironlog/fitness-tracker/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	log "github.com/sirupsen/logrus"
)

// Publisher is the subset of the SNS client used for notifications.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type snsNotifier struct {
	publisher Publisher
	topicARN  string
}

// NewSNSNotifier publishes workout notifications to topicARN.
func NewSNSNotifier(publisher Publisher, topicARN string) Notifier {
	return &snsNotifier{publisher: publisher, topicARN: topicARN}
}

// NewFromConfig builds an SNS notifier, or Noop when no topic is configured.
func NewFromConfig(ctx context.Context, cfg config.SNSConfig) (Notifier, error) {
	if cfg.TopicARN == "" {
		log.Warnln("sns.topic_arn not set, workout notifications disabled")
		return Noop{}, nil
	}

	opts := []func(*awsCfg.LoadOptions) error{awsCfg.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config for sns: %w", err)
	}

	client := sns.NewFromConfig(awsSDKConfig, func(o *sns.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewSNSNotifier(client, cfg.TopicARN), nil
}

func (n *snsNotifier) WorkoutLogged(ctx context.Context, user *domain.User, workout *domain.WorkoutRecord) error {
	out, err := n.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(workoutLoggedSubject),
		Message:  aws.String(WorkoutLoggedMessage(user, workout)),
	})
	if err != nil {
		return fmt.Errorf("publish workout %s: %w", workout.WorkoutID, err)
	}
	log.Debugf("published workout %s notification, message id %s", workout.WorkoutID, aws.ToString(out.MessageId))
	return nil
}
