package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"promptboard/internal/model"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// snapshotPartition groups every board snapshot in a single partition.
const snapshotPartition = "board"

type snapshotEntity struct {
	aztables.Entity
	Payload string
}

// entityTable is the subset of *aztables.Client the repository needs.
type entityTable interface {
	GetEntity(ctx context.Context, partitionKey string, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
	UpsertEntity(ctx context.Context, entity []byte, options *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error)
}

type AzureTableRepository struct {
	svc   *aztables.ServiceClient
	table entityTable
}

// NewAzureTableRepository connects to the table service and creates the
// table when it does not exist yet.
func NewAzureTableRepository(ctx context.Context, connStr, tableName string) (*AzureTableRepository, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    30 * time.Second,
				RetryDelay:    time.Second,
				MaxRetryDelay: 15 * time.Second,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, err
	}
	client := svc.NewClient(tableName)
	if _, err := client.CreateTable(ctx, nil); err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists)) {
			return nil, err
		}
	}
	return &AzureTableRepository{svc: svc, table: client}, nil
}

func newAzureTableRepository(table entityTable) *AzureTableRepository {
	return &AzureTableRepository{table: table}
}

func (r *AzureTableRepository) Load(ctx context.Context, key string) (*model.Board, error) {
	resp, err := r.table.GetEntity(ctx, snapshotPartition, key, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	var ent snapshotEntity
	if err := json.Unmarshal(resp.Value, &ent); err != nil {
		return nil, errors.Join(ErrCorruptSnapshot, err)
	}
	return decodeBoard([]byte(ent.Payload))
}

func (r *AzureTableRepository) Save(ctx context.Context, key string, board model.Board) error {
	payload, err := encodeBoard(board)
	if err != nil {
		return err
	}
	ent := snapshotEntity{
		Entity:  aztables.Entity{PartitionKey: snapshotPartition, RowKey: key},
		Payload: string(payload),
	}
	body, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	_, err = r.table.UpsertEntity(ctx, body, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace})
	return err
}

func (r *AzureTableRepository) Ping(ctx context.Context) error {
	if r.svc == nil {
		return nil
	}
	_, err := r.svc.GetProperties(ctx, nil)
	return err
}

func (r *AzureTableRepository) Close() error {
	return nil
}
