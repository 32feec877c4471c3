package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"faq-agent/internal/domain"
	"faq-agent/internal/transcript"
)

const (
	skPrefixMsg = "MSG#"
	skMeta      = "META#"
	ttlDuration = 24 * time.Hour // transcripts expire with the session
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Client stores session transcripts in a single DynamoDB table.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

var _ transcript.Store = (*Client)(nil)

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// sessionPK returns the partition key for a session.
func sessionPK(sessionID string) string {
	return "SESSION#" + sessionID
}

// msgSK returns the sort key for the message at position seq. Zero padding
// keeps lexical order equal to insertion order.
func msgSK(seq int) string {
	return fmt.Sprintf("%s%06d", skPrefixMsg, seq)
}

func (c *Client) ttlValue() int64 {
	return c.now().Add(ttlDuration).Unix()
}

// Load returns the stored messages of a session in insertion order.
func (c *Client) Load(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("repository: Load: session id is required")
	}

	in := &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: sessionPK(sessionID)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixMsg},
		},
		ScanIndexForward: aws.Bool(true),
		ConsistentRead:   aws.Bool(true),
	}

	var msgs []domain.Message
	for {
		out, err := c.api.Query(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("repository: Load query: %w", err)
		}
		for _, item := range out.Items {
			msg, err := itemToMessage(item)
			if err != nil {
				return nil, fmt.Errorf("repository: Load unmarshal: %w", err)
			}
			msgs = append(msgs, msg)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return msgs, nil
}

// AppendTurn writes the user and bot messages of one turn together with the
// session metadata in a single transaction. A position that is already taken
// yields transcript.ErrOffsetConflict.
func (c *Client) AppendTurn(ctx context.Context, sessionID string, offset int, user, bot domain.Message) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("repository: AppendTurn: session id is required")
	}
	if offset < 0 {
		return fmt.Errorf("repository: AppendTurn: negative offset %d", offset)
	}

	now := c.now().UTC()
	ttl := c.ttlValue()
	pk := sessionPK(sessionID)

	_, err := c.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: c.messagePut(pk, msgSK(offset), user, ttl)},
			{Put: c.messagePut(pk, msgSK(offset+1), bot, ttl)},
			{
				Put: &types.Put{
					TableName: aws.String(c.tableName),
					Item: map[string]types.AttributeValue{
						"PK":           &types.AttributeValueMemberS{Value: pk},
						"SK":           &types.AttributeValueMemberS{Value: skMeta},
						"sessionId":    &types.AttributeValueMemberS{Value: sessionID},
						"lastActivity": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
						"messages":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", offset+2)},
						"ttl":          &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ttl)},
					},
				},
			},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) && conditionFailed(canceled) {
			return fmt.Errorf("repository: AppendTurn: %w", transcript.ErrOffsetConflict)
		}
		return fmt.Errorf("repository: AppendTurn: %w", err)
	}
	return nil
}

func (c *Client) messagePut(pk, sk string, msg domain.Message, ttl int64) *types.Put {
	return &types.Put{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"PK":      &types.AttributeValueMemberS{Value: pk},
			"SK":      &types.AttributeValueMemberS{Value: sk},
			"role":    &types.AttributeValueMemberS{Value: string(msg.Role)},
			"content": &types.AttributeValueMemberS{Value: msg.Content},
			"ttl":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ttl)},
		},
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	}
}

func conditionFailed(e *types.TransactionCanceledException) bool {
	for _, r := range e.CancellationReasons {
		if aws.ToString(r.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// itemToMessage converts a DynamoDB attribute map to a Message.
func itemToMessage(item map[string]types.AttributeValue) (domain.Message, error) {
	role, err := strAttr(item, "role")
	if err != nil {
		return domain.Message{}, err
	}
	switch domain.Role(role) {
	case domain.RoleUser, domain.RoleBot:
	default:
		return domain.Message{}, fmt.Errorf("repository: unknown role %q", role)
	}
	content, err := strAttr(item, "content")
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{Role: domain.Role(role), Content: content}, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
