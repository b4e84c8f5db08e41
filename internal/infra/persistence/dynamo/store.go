// Package dynamo provides a DynamoDB-backed ProjectStore. Items are keyed
// by username and project_name so existing tables remain readable.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"coolingcore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.ProjectStore = (*Store)(nil)

// DefaultTable is used when no table name is configured.
const DefaultTable = "coolingcore-projects"

// Client is the subset of the DynamoDB API the store uses. The concrete
// *dynamodb.Client satisfies it; tests supply fakes.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Config describes how to reach DynamoDB.
type Config struct {
	Region          string
	Table           string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Store persists project records as DynamoDB items.
type Store struct {
	client Client
	table  string
}

// projectItem mirrors the table's key and timestamp attributes. The
// config and results JSON documents are handled separately: existing
// tables hold them as string attributes, so they are written as strings
// and read back from either string or binary form.
type projectItem struct {
	Username    string `dynamodbav:"username"`
	ProjectName string `dynamodbav:"project_name"`
	CreatedAt   string `dynamodbav:"created_at,omitempty"`
	UpdatedAt   string `dynamodbav:"updated_at,omitempty"`
}

// New builds a store from cfg, loading shared AWS config for anything the
// struct leaves unset.
func New(ctx context.Context, cfg Config) (*Store, error) {
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, table: table}, nil
}

// NewWithClient wires an explicit client, primarily for tests.
func NewWithClient(client Client, table string) *Store {
	if table == "" {
		table = DefaultTable
	}
	return &Store{client: client, table: table}
}

// OpenFromEnv builds a store from COOLINGCORE_DYNAMO_* variables, with
// DYNAMODB_TABLE_NAME honored as a fallback for the table.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	table := os.Getenv("COOLINGCORE_DYNAMO_TABLE")
	if table == "" {
		table = os.Getenv("DYNAMODB_TABLE_NAME")
	}
	cfg := Config{
		Region:          os.Getenv("COOLINGCORE_DYNAMO_REGION"),
		Table:           table,
		Endpoint:        os.Getenv("COOLINGCORE_DYNAMO_ENDPOINT"),
		AccessKeyID:     os.Getenv("COOLINGCORE_DYNAMO_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("COOLINGCORE_DYNAMO_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("COOLINGCORE_DYNAMO_SESSION_TOKEN"),
	}
	return New(ctx, cfg)
}

// Table reports the configured table name.
func (s *Store) Table() string { return s.table }

func (s *Store) key(owner, name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"username":     &types.AttributeValueMemberS{Value: owner},
		"project_name": &types.AttributeValueMemberS{Value: name},
	}
}

// Put implements domain.ProjectStore.
func (s *Store) Put(ctx context.Context, record domain.ProjectRecord) error {
	item, err := attributevalue.MarshalMap(projectItem{
		Username:    record.Owner,
		ProjectName: record.Name,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal project item: %w", err)
	}
	if len(record.Config) > 0 {
		item["config"] = &types.AttributeValueMemberS{Value: string(record.Config)}
	}
	if len(record.LegacyResults) > 0 {
		item["results"] = &types.AttributeValueMemberS{Value: string(record.LegacyResults)}
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put project %s/%s: %w", record.Owner, record.Name, err)
	}
	return nil
}

// Get implements domain.ProjectStore.
func (s *Store) Get(ctx context.Context, owner, name string) (domain.ProjectRecord, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(owner, name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.ProjectRecord{}, false, fmt.Errorf("get project %s/%s: %w", owner, name, err)
	}
	if len(out.Item) == 0 {
		return domain.ProjectRecord{}, false, nil
	}
	record, err := recordFromItem(out.Item)
	if err != nil {
		return domain.ProjectRecord{}, false, err
	}
	return record, true, nil
}

// List implements domain.ProjectStore via a partition-key query.
func (s *Store) List(ctx context.Context, owner string) ([]domain.ProjectRecord, error) {
	var (
		out     []domain.ProjectRecord
		lastKey map[string]types.AttributeValue
	)
	for {
		resp, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String("username = :owner"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":owner": &types.AttributeValueMemberS{Value: owner},
			},
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query projects for %s: %w", owner, err)
		}
		for _, item := range resp.Items {
			record, err := recordFromItem(item)
			if err != nil {
				return nil, err
			}
			out = append(out, record)
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		lastKey = resp.LastEvaluatedKey
	}
	return out, nil
}

// Delete implements domain.ProjectStore; ALL_OLD return values report
// whether the key existed.
func (s *Store) Delete(ctx context.Context, owner, name string) (bool, error) {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          s.key(owner, name),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("delete project %s/%s: %w", owner, name, err)
	}
	return len(out.Attributes) > 0, nil
}

func recordFromItem(item map[string]types.AttributeValue) (domain.ProjectRecord, error) {
	var decoded projectItem
	if err := attributevalue.UnmarshalMap(item, &decoded); err != nil {
		return domain.ProjectRecord{}, fmt.Errorf("unmarshal project item: %w", err)
	}
	if decoded.Username == "" || decoded.ProjectName == "" {
		return domain.ProjectRecord{}, errors.New("project item missing key attributes")
	}
	config, err := documentAttr(item, "config")
	if err != nil {
		return domain.ProjectRecord{}, err
	}
	results, err := documentAttr(item, "results")
	if err != nil {
		return domain.ProjectRecord{}, err
	}
	return domain.ProjectRecord{
		Owner:         decoded.Username,
		Name:          decoded.ProjectName,
		Config:        config,
		LegacyResults: results,
		CreatedAt:     decoded.CreatedAt,
		UpdatedAt:     decoded.UpdatedAt,
	}, nil
}

// documentAttr reads a JSON document attribute. Items written by earlier
// deployments store these as strings; binary attributes are accepted too.
func documentAttr(item map[string]types.AttributeValue, name string) ([]byte, error) {
	av, ok := item[name]
	if !ok {
		return nil, nil
	}
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		if v.Value == "" {
			return nil, nil
		}
		return []byte(v.Value), nil
	case *types.AttributeValueMemberB:
		if len(v.Value) == 0 {
			return nil, nil
		}
		return v.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	}
	return nil, fmt.Errorf("attribute %s: unexpected type %T", name, av)
}
