package redis

import (
	"context"
	"fmt"

	"github.com/modaic-ai/modaic-antm/internal/db"
	"github.com/modaic-ai/modaic-antm/internal/domain"
)

func metaKey(name string) string {
	return fmt.Sprintf("%scollection:%s", domain.KeyPrefix, name)
}

// GetMeta returns the metadata hash of one collection written at ingestion
// time (db.ErrCollectionMissing when the hash does not exist).
func (s *Store) GetMeta(ctx context.Context, name string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(metaKey(name)).Build()
	fields, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: "HGETALL", Err: err}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", db.ErrCollectionMissing, name)
	}
	return fields, nil
}

// ScanMeta returns the metadata of every collection by cursoring over the
// collection key namespace.
func (s *Store) ScanMeta(ctx context.Context) ([]map[string]string, error) {
	pattern := domain.KeyPrefix + "collection:*"

	var metas []map[string]string
	var cursor uint64
	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		entry, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: "SCAN", Err: err}
		}

		for _, key := range entry.Elements {
			hcmd := s.b().Hgetall().Key(key).Build()
			fields, err := s.do(ctx, hcmd).AsStrMap()
			if err != nil {
				return nil, &db.Error{Op: "HGETALL", Err: err}
			}
			if len(fields) > 0 {
				metas = append(metas, fields)
			}
		}

		cursor = entry.Cursor
		if cursor == 0 {
			break
		}
	}
	return metas, nil
}
