// internal/cloudwatch/events.go
package cloudwatch

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/rusenback/cwtail/internal/model"
)

// FilterLogEvents fetches at most limit events of one stream with a
// timestamp at or after since (milliseconds). Events keep the API order.
func (c *Client) FilterLogEvents(ctx context.Context, group, stream string, since int64, limit int32) ([]model.LogEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	out, err := c.api.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName:   aws.String(group),
		LogStreamNames: []string{stream},
		StartTime:      aws.Int64(since),
		Limit:          aws.Int32(limit),
	}, c.requestOptions)
	if err != nil {
		return nil, Classify("filter log events", err)
	}

	events := make([]model.LogEvent, 0, len(out.Events))
	for _, e := range out.Events {
		events = append(events, model.LogEvent{
			EventID:    aws.ToString(e.EventId),
			StreamName: aws.ToString(e.LogStreamName),
			Timestamp:  aws.ToInt64(e.Timestamp),
			// CloudWatch keeps the trailing newline most agents send
			Message: strings.TrimRight(aws.ToString(e.Message), "\r\n"),
		})
	}
	return events, nil
}
