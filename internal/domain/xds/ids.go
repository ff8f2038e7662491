package xds

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Transport variants recognized in IDS metadata. Anything else falls through to
// the once-SSE response shape.
const (
	ProtoStreamableStateless = "streamable-stateless"
	ProtoStreamableStateful  = "streamable-stateful"
)

// IDS is an Instance Discovery Service record: one MCP endpoint served by the
// gateway. ToolIDs selects the TDS records exposed on it, in order.
type IDS struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	ToolIDs []string `json:"tool_ids"`
	// Metadata is a JSON string carrying the transport variant selector.
	Metadata string `json:"metadata"`
}

// IDSMetadata is the parsed form of IDS.Metadata.
type IDSMetadata struct {
	ProtoType string `json:"proto_type"`
}

func (i *IDS) Validate() error {
	if i.ID == "" {
		return errors.New("IDS validation failed: id is empty")
	}
	if i.Name == "" {
		return errors.New("IDS validation failed: name is empty")
	}
	if len(i.ToolIDs) == 0 {
		return errors.New("IDS validation failed: tool_ids must contain at least 1 element")
	}
	return nil
}

// ParseMetadata decodes the metadata JSON string.
func (i *IDS) ParseMetadata() (IDSMetadata, error) {
	var md IDSMetadata
	if err := json.Unmarshal([]byte(i.Metadata), &md); err != nil {
		return IDSMetadata{}, fmt.Errorf("parse IDS %s metadata: %w", i.ID, err)
	}
	return md, nil
}
