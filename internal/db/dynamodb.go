package db

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/polysent/polysent/internal/clients"
	"github.com/polysent/polysent/internal/models"
)

const (
	ANALYSES_TABLE_NAME = "Analyses"
	RESULTS_TABLE_NAME  = "AnalysisResults"

	// Stored batches expire after thirty days.
	HISTORY_TTL = 30 * 24 * time.Hour
)

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

// StoreAnalysis persists one batch summary to the history table.
func StoreAnalysis(ctx context.Context, record models.AnalysisRecord) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal analysis record: %w", err)
	}
	item["ttl"] = &types.AttributeValueMemberN{
		Value: strconv.FormatInt(time.Now().Add(HISTORY_TTL).Unix(), 10),
	}

	_, err = dbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ANALYSES_TABLE_NAME),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store analysis record: %w", err)
	}

	slog.Info("[DynamoDB] Analysis record stored",
		slog.String("batch_id", record.BatchID),
		slog.Int("records", record.TotalRecords))
	return nil
}

// BatchInsertResults stores every row of a results table under its batch
// id, chunked to DynamoDB's batch-write limit with unprocessed-item
// retries.
func BatchInsertResults(ctx context.Context, batchID string, table models.ResultsTable) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	const maxBatchSize = 25
	for i := 0; i < table.Len(); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:

			end := i + maxBatchSize
			if end > table.Len() {
				end = table.Len()
			}

			writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
			for _, result := range table[i:end] {
				writeRequests = append(writeRequests, types.WriteRequest{
					PutRequest: &types.PutRequest{
						Item: resultToItem(batchID, result),
					},
				})
			}

			out, err := dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					RESULTS_TABLE_NAME: writeRequests,
				},
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to batch write results: %w", err)
			}

			retryCount := 0
			backoff := 500 * time.Millisecond
			for len(out.UnprocessedItems) > 0 && retryCount < 3 {
				time.Sleep(backoff)
				backoff *= 2

				slog.Warn("[DynamoDB] Retrying unprocessed result items...",
					slog.Int("attempt", retryCount+1),
					slog.Int("remaining", len(out.UnprocessedItems[RESULTS_TABLE_NAME])))

				out, err = dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
					RequestItems: out.UnprocessedItems,
				})
				if err != nil {
					return fmt.Errorf("[DynamoDB] Failed to retry batch write: %w", err)
				}

				retryCount++
			}

			if len(out.UnprocessedItems) > 0 {
				slog.Error("[DynamoDB] Some result items failed after retries",
					slog.Int("remaining", len(out.UnprocessedItems[RESULTS_TABLE_NAME])))
			}
		}
	}

	slog.Info("[DynamoDB] Successfully stored results",
		slog.String("batch_id", batchID),
		slog.Int("count", table.Len()))
	return nil
}

// GetAnalyses scans the history table, newest first.
func GetAnalyses(ctx context.Context) ([]models.AnalysisRecord, error) {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	var records []models.AnalysisRecord
	input := &dynamodb.ScanInput{
		TableName: aws.String(ANALYSES_TABLE_NAME),
	}

	paginator := dynamodb.NewScanPaginator(dbClient, input)

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for analyses failed: %w", err)
		}
		var page []models.AnalysisRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal analyses page", slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, page...)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	slog.Info("[DynamoDB] Successfully retrieved analyses", slog.Int("count", len(records)))
	return records, nil
}

// GetResults loads a stored batch's rows in record order.
func GetResults(ctx context.Context, batchID string) (models.ResultsTable, error) {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	out, err := dbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(RESULTS_TABLE_NAME),
		KeyConditionExpression: aws.String("batch_id = :batch_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":batch_id": &types.AttributeValueMemberS{Value: batchID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Query for batch %s failed: %w", batchID, err)
	}

	var table models.ResultsTable
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &table); err != nil {
		return nil, fmt.Errorf("[DynamoDB] Unable to unmarshal results: %w", err)
	}

	sort.Slice(table, func(i, j int) bool {
		return table[i].RecordID < table[j].RecordID
	})

	return table, nil
}

func resultToItem(batchID string, result models.SentimentResult) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue)

	item["batch_id"] = &types.AttributeValueMemberS{Value: batchID}
	item["record_id"] = &types.AttributeValueMemberN{Value: strconv.Itoa(result.RecordID)}
	item["detected_language"] = &types.AttributeValueMemberS{Value: string(result.DetectedLanguage)}
	item["language_confidence"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", result.LanguageConfidence)}
	item["label"] = &types.AttributeValueMemberS{Value: string(result.Label)}
	item["confidence"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", result.Confidence)}
	item["created_at"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)}
	item["ttl"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Add(HISTORY_TTL).Unix(), 10)}

	if result.Text != "" {
		item["text"] = &types.AttributeValueMemberS{Value: result.Text}
	}
	if result.Model != "" {
		item["model"] = &types.AttributeValueMemberS{Value: result.Model}
	}
	if result.Err != "" {
		item["error"] = &types.AttributeValueMemberS{Value: result.Err}
	}

	return item
}
