package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
)

const (
	keyPrefix        = "godash:"
	datasetKeyPrefix = keyPrefix + "dataset:"
	hashKeyPrefix    = keyPrefix + "hash:"
	sessionKeyPrefix = keyPrefix + "session:"
)

type RedisConfig struct {
	// TTL applies to every key; zero keeps keys until deleted.
	TTL time.Duration
	// CompressionLevel is a zstd level (1-22); zero uses the library default.
	CompressionLevel int
}

// RedisStore shares datasets between instances. Payloads are JSON encoded
// and zstd compressed.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	enc    *zstd.Encoder
	dec    *zstd.Decoder
}

func NewRedisStore(client redis.UniversalClient, cfg RedisConfig) (*RedisStore, error) {
	var opts []zstd.EOption
	if cfg.CompressionLevel > 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(cfg.CompressionLevel)))
	}

	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &RedisStore{client: client, ttl: cfg.TTL, enc: enc, dec: dec}, nil
}

type datasetRecord struct {
	ID        string         `json:"id"`
	Hash      string         `json:"hash"`
	FileName  string         `json:"file_name"`
	CreatedAt time.Time      `json:"created_at"`
	Columns   []string       `json:"columns"`
	Rows      [][]cellRecord `json:"rows"`
}

type cellRecord struct {
	Kind entity.ValueKind `json:"k"`
	Num  float64          `json:"n,omitempty"`
	Raw  string           `json:"r,omitempty"`
}

func (s *RedisStore) Save(ctx context.Context, ds entity.Dataset) error {
	payload, err := s.encode(ds)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, datasetKeyPrefix+ds.ID, payload, s.ttl)
		if ds.Hash != "" {
			pipe.Set(ctx, hashKeyPrefix+ds.Hash, ds.ID, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save dataset %s: %w", ds.ID, err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (entity.Dataset, error) {
	payload, err := s.client.Get(ctx, datasetKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.Dataset{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("get dataset %s: %w", id, err)
	}

	return s.decode(payload)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, datasetKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("delete dataset %s: %w", id, err)
	}
	if n == 0 {
		return pkgerror.ErrNotFound
	}

	return nil
}

// FindByHash may return the ID of a dataset that has since expired; Get
// reports that as ErrNotFound.
func (s *RedisStore) FindByHash(ctx context.Context, hash string) (string, error) {
	id, err := s.client.Get(ctx, hashKeyPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return "", pkgerror.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find hash: %w", err)
	}

	return id, nil
}

func (s *RedisStore) BindSession(ctx context.Context, sessionID, datasetID string) (string, error) {
	key := sessionKeyPrefix + sessionID

	prev, err := s.client.GetSet(ctx, key, datasetID).Result()
	if errors.Is(err, redis.Nil) {
		prev, err = "", nil
	}
	if err != nil {
		return "", fmt.Errorf("bind session: %w", err)
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return prev, fmt.Errorf("expire session: %w", err)
		}
	}

	return prev, nil
}

// Close releases the codec resources. The Redis client is owned by the caller.
func (s *RedisStore) Close() error {
	s.dec.Close()
	return s.enc.Close()
}

func (s *RedisStore) encode(ds entity.Dataset) ([]byte, error) {
	rec := datasetRecord{
		ID:        ds.ID,
		Hash:      ds.Hash,
		FileName:  ds.FileName,
		CreatedAt: ds.CreatedAt,
		Columns:   ds.Table.Columns(),
		Rows:      make([][]cellRecord, ds.Table.NumRows()),
	}

	for r := range rec.Rows {
		row := ds.Table.Row(r)
		cells := make([]cellRecord, len(row))
		for i, v := range row {
			cells[i] = cellRecord{Kind: v.Kind, Num: v.Num, Raw: v.Raw}
		}
		rec.Rows[r] = cells
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode dataset %s: %w", ds.ID, err)
	}

	return s.enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

func (s *RedisStore) decode(payload []byte) (entity.Dataset, error) {
	raw, err := s.dec.DecodeAll(payload, nil)
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("decompress dataset: %w", err)
	}

	var rec datasetRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return entity.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}

	rows := make([][]entity.Value, len(rec.Rows))
	for r, cells := range rec.Rows {
		row := make([]entity.Value, len(cells))
		for i, c := range cells {
			row[i] = entity.Value{Kind: c.Kind, Num: c.Num, Raw: c.Raw}
		}
		rows[r] = row
	}

	table, err := entity.NewTable(rec.Columns, rows)
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("rebuild dataset %s: %w", rec.ID, err)
	}

	return entity.Dataset{
		ID:        rec.ID,
		Hash:      rec.Hash,
		FileName:  rec.FileName,
		Table:     table,
		CreatedAt: rec.CreatedAt,
	}, nil
}
