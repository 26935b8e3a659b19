package cloudwatch

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/rusenback/cwtail/internal/model"
	"go.uber.org/zap"
)

// ListLogGroups palauttaa kaikki log groupit (kaikki sivut yhdistettynä)
func (c *Client) ListLogGroups(ctx context.Context) ([]model.LogGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var result []model.LogGroup
	pages := 0
	paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(c.api, &cloudwatchlogs.DescribeLogGroupsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx, c.requestOptions)
		if err != nil {
			return nil, Classify("describe log groups", err)
		}
		pages++
		for _, g := range page.LogGroups {
			result = append(result, model.LogGroup{
				Name:         aws.ToString(g.LogGroupName),
				CreationTime: msToTime(g.CreationTime),
			})
		}
	}

	c.logger.Debug("listed log groups", zap.Int("groups", len(result)), zap.Int("pages", pages))
	return result, nil
}
