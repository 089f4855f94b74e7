package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix    = "installer-assets:"
	redisSequenceKey  = redisKeyPrefix + "seq"
	redisAllRecords   = redisKeyPrefix + "records"
	redisRecordPrefix = redisKeyPrefix + "record:"
	redisAssetPrefix  = redisKeyPrefix + "asset:"
	redisOpTimeout    = 5 * time.Second
)

var redisRecordFields = []string{
	"id", "run_id", "asset_name", "path", "format", "width", "height", "checksum", "created_at",
}

// RedisDatabase keeps each record in a hash and orders records in sorted sets
// scored by an increasing sequence number.
type RedisDatabase struct {
	client *redis.Client
}

// NewRedisDatabase connects using a redis:// URL connection string.
func NewRedisDatabase(connectionString string) (DatabaseService, error) {
	opts, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}
	return &RedisDatabase{client: redis.NewClient(opts)}, nil
}

func (r *RedisDatabase) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

func (r *RedisDatabase) CreateDatabase() error {
	ctx, cancel := r.opContext()
	defer cancel()
	// Keys are created on first write; only verify the server is reachable.
	return r.client.Ping(ctx).Err()
}

func (r *RedisDatabase) DoesDatabaseExist() bool {
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisDatabase) Close() error {
	return r.client.Close()
}

func (r *RedisDatabase) CreateRecord(record *AssetRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("record must not be nil")
	}
	if record.ID == "" {
		id, err := generateID()
		if err != nil {
			return "", err
		}
		record.ID = id
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := r.opContext()
	defer cancel()

	seq, err := r.client.Incr(ctx, redisSequenceKey).Result()
	if err != nil {
		return "", fmt.Errorf("failed to allocate record sequence: %w", err)
	}

	// Older records of the asset already lost their bytes; only the current latest holds any.
	previous, err := r.client.ZRevRange(ctx, redisAssetPrefix+record.AssetName, 0, 0).Result()
	if err != nil {
		return "", fmt.Errorf("failed to look up previous record: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisRecordPrefix+record.ID, map[string]any{
			"id":         record.ID,
			"run_id":     record.RunID,
			"asset_name": record.AssetName,
			"path":       record.Path,
			"format":     record.Format,
			"width":      record.Width,
			"height":     record.Height,
			"checksum":   record.Checksum,
			"data":       record.Data,
			"created_at": record.CreatedAt.UnixNano(),
		})
		member := redis.Z{Score: float64(seq), Member: record.ID}
		pipe.ZAdd(ctx, redisAllRecords, member)
		pipe.ZAdd(ctx, redisAssetPrefix+record.AssetName, member)
		for _, id := range previous {
			if id != record.ID {
				pipe.HDel(ctx, redisRecordPrefix+id, "data")
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to store record: %w", err)
	}

	return record.ID, nil
}

func (r *RedisDatabase) GetLatestRecord(assetName string) (*AssetRecord, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	ids, err := r.client.ZRevRange(ctx, redisAssetPrefix+assetName, 0, 0).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, assetName)
	}
	return r.getRecord(ctx, ids[0])
}

func (r *RedisDatabase) GetRecordData(id string) ([]byte, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	data, err := r.client.HGet(ctx, redisRecordPrefix+id, "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RedisDatabase) GetAllRecords() ([]*AssetRecord, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	ids, err := r.client.ZRevRange(ctx, redisAllRecords, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*AssetRecord, 0, len(ids))
	for _, id := range ids {
		record, err := r.getRecord(ctx, id)
		if errors.Is(err, ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *RedisDatabase) getRecord(ctx context.Context, id string) (*AssetRecord, error) {
	// The encoded bytes are left on the server.
	values, err := r.client.HMGet(ctx, redisRecordPrefix+id, redisRecordFields...).Result()
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(values))
	for i, value := range values {
		if str, ok := value.(string); ok {
			fields[redisRecordFields[i]] = str
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	width, err := strconv.Atoi(fields["width"])
	if err != nil {
		return nil, fmt.Errorf("corrupt width in record %s: %w", id, err)
	}
	height, err := strconv.Atoi(fields["height"])
	if err != nil {
		return nil, fmt.Errorf("corrupt height in record %s: %w", id, err)
	}
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at in record %s: %w", id, err)
	}

	record := &AssetRecord{
		ID:        fields["id"],
		RunID:     fields["run_id"],
		AssetName: fields["asset_name"],
		Path:      fields["path"],
		Format:    fields["format"],
		Width:     width,
		Height:    height,
		Checksum:  fields["checksum"],
		CreatedAt: time.Unix(0, createdAt).UTC(),
	}
	return record, nil
}
