package query

import "encoding/json"

// Project reduces a document to the requested field names (plus id, which
// is always kept). An empty field list returns the document untouched;
// callers then serialize the full struct.
func Project(doc any, fields []string) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return full, nil
	}

	out := make(map[string]any, len(fields)+1)

	if id, ok := full["id"]; ok {
		out["id"] = id
	}

	for _, f := range fields {
		if v, ok := full[f]; ok {
			out[f] = v
		}
	}

	return out, nil
}

// ProjectList applies Project to each document.
func ProjectList[T any](docs []T, fields []string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(docs))

	for _, doc := range docs {
		m, err := Project(doc, fields)
		if err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return out, nil
}
