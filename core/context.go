package core

import (
	"context"

	av "github.com/Ehomey/smartrisk-lite/api/alpha_vantage"
	r "github.com/Ehomey/smartrisk-lite/repos"
)

type ServiceContext struct {
	Context            context.Context
	PostgresConnection r.Postgres
	AlphaVantageClient av.AlphaVantageClient
}
