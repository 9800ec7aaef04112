package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConcurrentPublish is returned when two writers race to publish the same
// snapshot version.
var ErrConcurrentPublish = errors.New("s3: concurrent snapshot publish detected")

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Catalog tracks the published snapshot versions of one volume in DynamoDB.
//
// S3 writes are atomic per object but offer no compare-and-swap, so the
// catalog provides what "the current snapshot is X" needs: a monotonically
// increasing version per volume, advanced with a conditional write. Writers
// upload the image under a unique name first, then publish it here; readers
// ask Latest for the image to load.
//
// Table schema:
//   - Partition key: volume_uri (string)
//   - Sort key: version (number)
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name vfsgo-snapshots \
//	  --attribute-definitions AttributeName=volume_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=volume_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type Catalog struct {
	ddbClient DDBClient
	tableName string
	volumeURI string // e.g. "s3://bucket/volumes/root"
}

// NewCatalog creates a snapshot catalog for one volume.
func NewCatalog(ddbClient DDBClient, tableName, volumeURI string) *Catalog {
	return &Catalog{
		ddbClient: ddbClient,
		tableName: tableName,
		volumeURI: volumeURI,
	}
}

// Latest returns the most recently published version and its image name.
// Version 0 with an empty name means nothing has been published yet.
func (c *Catalog) Latest(ctx context.Context) (uint64, string, error) {
	resp, err := c.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("volume_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: c.volumeURI},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("s3: query snapshot catalog: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("s3: invalid version attribute in snapshot catalog")
	}
	imageAttr, ok := item["image_name"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("s3: invalid image_name attribute in snapshot catalog")
	}

	var version uint64
	if _, err := fmt.Sscanf(versionAttr.Value, "%d", &version); err != nil {
		return 0, "", fmt.Errorf("s3: parse snapshot version: %w", err)
	}

	return version, imageAttr.Value, nil
}

// Publish atomically records imageName as the next snapshot version.
// Returns the version assigned, or ErrConcurrentPublish when another writer
// claimed it first; callers retry by re-reading Latest.
func (c *Catalog) Publish(ctx context.Context, imageName string) (uint64, error) {
	currentVersion, _, err := c.Latest(ctx)
	if err != nil {
		return 0, err
	}

	newVersion := currentVersion + 1

	// Conditional put: only succeed if this version doesn't exist yet.
	_, err = c.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"volume_uri": &types.AttributeValueMemberS{Value: c.volumeURI},
			"version":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newVersion)},
			"image_name": &types.AttributeValueMemberS{Value: imageName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrConcurrentPublish
		}
		return 0, fmt.Errorf("s3: publish snapshot version: %w", err)
	}

	return newVersion, nil
}
