package snsx

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// API is the subset of the SNS client used here.
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	GetTopicAttributes(ctx context.Context, params *sns.GetTopicAttributesInput, optFns ...func(*sns.Options)) (*sns.GetTopicAttributesOutput, error)
}

type Config struct {
	Region string
	// Endpoint overrides the SNS endpoint, e.g. http://localstack:4566.
	Endpoint string
}

// Client publishes message bodies to SNS topic ARNs.
type Client struct {
	api API
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if r := strings.TrimSpace(cfg.Region); r != "" {
		opts = append(opts, awsconfig.WithRegion(r))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	api := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewWithAPI(api), nil
}

func NewWithAPI(api API) *Client {
	return &Client{api: api}
}

// Publish sends body to the topic ARN with no message attributes and returns the SNS message id.
func (c *Client) Publish(ctx context.Context, topicARN string, body []byte) (string, error) {
	out, err := c.api.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

// ReadyCheck verifies the first configured topic ARN is reachable.
func ReadyCheck(c *Client, topicARNs []string) func(context.Context) error {
	return func(ctx context.Context) error {
		if c == nil || c.api == nil {
			return errors.New("sns not configured")
		}
		arn := firstNonEmpty(topicARNs)
		if arn == "" {
			return errors.New("no sns topics configured")
		}
		_, err := c.api.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{TopicArn: aws.String(arn)})
		return err
	}
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
