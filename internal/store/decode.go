package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dbsmedya/objectgraph/internal/types"
)

func newDecoder(raw string) *json.Decoder {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	return dec
}

// decodeScalar converts the raw JSON of a reference field into an id. JSON
// null, empty strings and non-scalar values carry no id.
func decodeScalar(raw string) (string, bool) {
	var v interface{}
	if err := newDecoder(raw).Decode(&v); err != nil {
		// Drivers that already unquoted the value hand back bare text.
		raw = strings.TrimSpace(raw)
		return raw, raw != ""
	}
	id, ok := types.ToID(v)
	return id, ok && id != ""
}

// decodeCollection reads the ids of a collection field. Objects contribute
// their keys in document order, arrays their scalar elements. A JSON string
// is parsed once more, since some writers store the collection serialized.
func decodeCollection(raw string) ([]string, error) {
	dec := newDecoder(raw)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrNotParseable, err)
	}

	switch t := tok.(type) {
	case nil:
		return nil, nil
	case json.Delim:
		switch t {
		case '{':
			return objectKeys(dec)
		case '[':
			return arrayIDs(dec)
		}
	case string:
		if inner := strings.TrimSpace(t); strings.HasPrefix(inner, "{") || strings.HasPrefix(inner, "[") {
			return decodeCollection(inner)
		}
	}
	return nil, types.ErrNotParseable
}

func objectKeys(dec *json.Decoder) ([]string, error) {
	var ids []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrNotParseable, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, types.ErrNotParseable
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrNotParseable, err)
		}
		ids = append(ids, key)
	}
	return ids, nil
}

func arrayIDs(dec *json.Decoder) ([]string, error) {
	var ids []string
	for dec.More() {
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrNotParseable, err)
		}
		id, ok := types.ToID(v)
		if !ok {
			return nil, types.ErrNotParseable
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// decodeDocument decodes a whole stored record.
func decodeDocument(raw string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	dec := newDecoder(raw)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document is not a JSON object")
	}
	return doc, nil
}
