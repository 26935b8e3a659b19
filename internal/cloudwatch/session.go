package cloudwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rusenback/cwtail/internal/model"
)

type stsAPI interface {
	GetSessionToken(ctx context.Context, params *sts.GetSessionTokenInput, optFns ...func(*sts.Options)) (*sts.GetSessionTokenOutput, error)
}

// SessionIssuer exchanges a long-lived key pair for temporary credentials.
type SessionIssuer struct {
	cfg    Config
	newAPI func(ctx context.Context, creds model.Credentials) (stsAPI, error)
}

// NewSessionIssuer returns an issuer backed by STS GetSessionToken.
func NewSessionIssuer(cfg Config) *SessionIssuer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &SessionIssuer{cfg: cfg, newAPI: newSTS}
}

func newSTS(ctx context.Context, creds model.Credentials) (stsAPI, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(creds.Region),
		config.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
			creds.AccessKeyID, creds.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, err
	}
	return sts.NewFromConfig(awsCfg), nil
}

// IssueSessionToken returns a copy of creds carrying temporary keys, a
// session token and its expiration.
func (s *SessionIssuer) IssueSessionToken(ctx context.Context, creds model.Credentials, duration time.Duration) (model.Credentials, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	api, err := s.newAPI(ctx, creds)
	if err != nil {
		return model.Credentials{}, Classify("load aws config", err)
	}

	out, err := api.GetSessionToken(ctx, &sts.GetSessionTokenInput{
		DurationSeconds: aws.Int32(int32(duration / time.Second)),
	})
	if err != nil {
		return model.Credentials{}, Classify("get session token", err)
	}
	if out.Credentials == nil {
		return model.Credentials{}, fmt.Errorf("get session token: empty credentials in response")
	}

	issued := model.Credentials{
		AccessKeyID:     aws.ToString(out.Credentials.AccessKeyId),
		SecretAccessKey: aws.ToString(out.Credentials.SecretAccessKey),
		SessionToken:    aws.ToString(out.Credentials.SessionToken),
		Region:          creds.Region,
	}
	if out.Credentials.Expiration != nil {
		exp := *out.Credentials.Expiration
		issued.Expiration = &exp
	}
	return issued, nil
}
