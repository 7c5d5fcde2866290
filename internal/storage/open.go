package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendDuckDB   = "duckdb"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// Options selects and configures a share backend.
type Options struct {
	Backend        string
	Path           string // duckdb / sqlite file
	DynamoTable    string
	DynamoRegion   string
	DynamoEndpoint string // optional, e.g. DynamoDB Local
}

// Open builds the backend named in opts.
func Open(ctx context.Context, opts Options, logger *logrus.Logger) (ShareStore, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendDuckDB:
		return NewDuckDBStore(opts.Path, logger)
	case BackendSQLite:
		return NewSQLiteStore(opts.Path, logger)
	case BackendDynamoDB:
		if opts.DynamoTable == "" {
			return nil, fmt.Errorf("dynamodb backend requires a table name")
		}
		client, err := newDynamoClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return NewDynamoStore(client, opts.DynamoTable, logger), nil
	default:
		return nil, fmt.Errorf("unknown share backend: %s", opts.Backend)
	}
}

func newDynamoClient(ctx context.Context, opts Options) (*dynamodb.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.DynamoRegion != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.DynamoRegion))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.DynamoEndpoint)
		}
	}), nil
}
