package cloudwatch

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"go.uber.org/zap"
)

// Config holds the CloudWatch client configuration
type Config struct {
	// Timeout bounds each API operation, including all pages of a listing
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
	}
}

// CredentialSource supplies credentials and region for every request. The
// value is read per call, so replacing credentials needs no new client.
type CredentialSource interface {
	aws.CredentialsProvider
	Region() string
}

// logsAPI is the subset of the CloudWatch Logs API cwtail consumes
type logsAPI interface {
	cloudwatchlogs.DescribeLogGroupsAPIClient
	cloudwatchlogs.DescribeLogStreamsAPIClient
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// Client wraps the CloudWatch Logs API client
type Client struct {
	api    logsAPI
	cfg    Config
	source CredentialSource
	logger *zap.Logger
}

// NewClient creates a CloudWatch Logs client
func NewClient(ctx context.Context, cfg Config, source CredentialSource, logger *zap.Logger) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(source.Region()),
		config.WithCredentialsProvider(source),
	)
	if err != nil {
		return nil, Classify("load aws config", err)
	}

	return newClientWithAPI(cloudwatchlogs.NewFromConfig(awsCfg), cfg, source, logger), nil
}

func newClientWithAPI(api logsAPI, cfg Config, source CredentialSource, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api:    api,
		cfg:    cfg,
		source: source,
		logger: logger,
	}
}

// requestOptions points a single request at the credentials and region
// currently held by the source. The client-level provider is cached by the
// SDK, so it would not see a refresh.
func (c *Client) requestOptions(o *cloudwatchlogs.Options) {
	o.Credentials = c.source
	if region := c.source.Region(); region != "" {
		o.Region = region
	}
}

func msToTime(ms *int64) time.Time {
	if ms == nil || *ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(*ms)
}
