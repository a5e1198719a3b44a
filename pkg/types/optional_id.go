package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// OptionalID is an id field of a request body that distinguishes an absent
// key from an explicit null. Present is false when the key was omitted; ID is
// nil when the key was null.
type OptionalID struct {
	Present bool
	ID      *uuid.UUID
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	o.Present = true
	if bytes.Equal(raw, []byte("null")) {
		o.ID = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(raw, &id); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	o.ID = &id
	return nil
}
