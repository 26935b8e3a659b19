package cloudwatch

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/rusenback/cwtail/internal/model"
	"go.uber.org/zap"
)

// ListLogStreams returns every stream of a log group, all pages merged
func (c *Client) ListLogStreams(ctx context.Context, group string) ([]model.LogStream, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var result []model.LogStream
	paginator := cloudwatchlogs.NewDescribeLogStreamsPaginator(c.api, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(group),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx, c.requestOptions)
		if err != nil {
			return nil, Classify("describe log streams", err)
		}
		for _, s := range page.LogStreams {
			result = append(result, model.LogStream{
				Name:          aws.ToString(s.LogStreamName),
				LastEventTime: msToTime(s.LastEventTimestamp),
			})
		}
	}

	c.logger.Debug("listed log streams", zap.String("group", group), zap.Int("streams", len(result)))
	return result, nil
}
