package cloudwatch

import (
	"context"

	"github.com/rusenback/cwtail/internal/model"
)

// LogsClient interface mahdollistaa mockauksen testeissä
type LogsClient interface {
	ListLogGroups(ctx context.Context) ([]model.LogGroup, error)
	ListLogStreams(ctx context.Context, group string) ([]model.LogStream, error)
	FilterLogEvents(ctx context.Context, group, stream string, since int64, limit int32) ([]model.LogEvent, error)
}

// Varmista että Client toteuttaa interfacen
var _ LogsClient = (*Client)(nil)
