package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedFile is the on-disk shape accepted by Import. JSON documents parse as
// YAML too, so one decoder serves both formats.
//
//	items:
//	  - key: myth
//	    payload: {myth: "Reading in dim light ruins eyes", truth: "..."}
//	  - key: "sentence:easy"
//	    payload: '{"original_sentence": "The cat sat"}'
type SeedFile struct {
	Items []SeedItem `yaml:"items"`
}

// SeedItem is one content entry. Payload may be a string, kept verbatim, or a
// mapping/list, stored as compact JSON.
type SeedItem struct {
	Key     string    `yaml:"key"`
	Payload yaml.Node `yaml:"payload"`
}

// ImportResult summarises an Import call.
type ImportResult struct {
	Inserted int            `json:"inserted"`
	Skipped  int            `json:"skipped"`
	PerKey   map[string]int `json:"per_key"`
}

// Import reads a seed document and inserts its items in one transaction.
// Items whose key and payload already exist are skipped, so importing the
// same file twice is harmless.
func (s *Store) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	ctx = ensureContext(ctx)
	var seed SeedFile
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return ImportResult{}, errors.New("import: seed document is empty")
		}
		return ImportResult{}, fmt.Errorf("import: parse seed document: %w", err)
	}

	type row struct{ key, payload string }
	rows := make([]row, 0, len(seed.Items))
	for i, item := range seed.Items {
		key := strings.TrimSpace(item.Key)
		if key == "" {
			return ImportResult{}, fmt.Errorf("import: item %d: key required", i)
		}
		payload, err := payloadText(&item.Payload)
		if err != nil {
			return ImportResult{}, fmt.Errorf("import: item %d (%s): %w", i, key, err)
		}
		rows = append(rows, row{key: key, payload: payload})
	}

	result := ImportResult{PerKey: make(map[string]int)}
	err := retryOnBusy(ctx, func() error {
		result = ImportResult{PerKey: make(map[string]int)}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin import tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		now := timestamp()
		for _, r := range rows {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO content_items (rotation_key, payload, created_at)
				 SELECT ?, ?, ?
				 WHERE NOT EXISTS (SELECT 1 FROM content_items WHERE rotation_key = ? AND payload = ?)`,
				r.key, r.payload, now, r.key, r.payload,
			)
			if err != nil {
				return fmt.Errorf("insert %s item: %w", r.key, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("insert %s item: %w", r.key, err)
			}
			if affected == 0 {
				result.Skipped++
				continue
			}
			result.Inserted++
			result.PerKey[r.key]++
		}
		return tx.Commit()
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}
	return result, nil
}

func payloadText(node *yaml.Node) (string, error) {
	if node == nil || node.Kind == 0 {
		return "", errors.New("payload required")
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" {
		if strings.TrimSpace(node.Value) == "" {
			return "", errors.New("payload required")
		}
		return node.Value, nil
	}
	var value any
	if err := node.Decode(&value); err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	if value == nil {
		return "", errors.New("payload required")
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(encoded), nil
}
