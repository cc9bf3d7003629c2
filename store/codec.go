/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion is written into every collection envelope. Decoding
// rejects envelopes from a newer schema.
const SchemaVersion = 1

var ErrSchema = errors.New("store: unsupported schema")

type envelope struct {
	Schema     int             `json:"schema"`
	Collection string          `json:"collection"`
	Data       json.RawMessage `json:"data"`
}

func encode(collection string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store.encode: %v: %w", collection, err)
	}

	return json.Marshal(&envelope{
		Schema:     SchemaVersion,
		Collection: collection,
		Data:       data,
	})
}

func decode(collection string, raw []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("store.decode: %v: %w", collection, err)
	}
	if env.Schema < 1 || env.Schema > SchemaVersion {
		return fmt.Errorf("%w: %v has schema %v, want <= %v", ErrSchema,
			collection, env.Schema, SchemaVersion)
	}
	if env.Collection != collection {
		return fmt.Errorf("%w: expected collection %v but found %v", ErrSchema,
			collection, env.Collection)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("store.decode: %v: %w", collection, err)
	}

	return nil
}
