package docstore

// Clone deep-copies a document so stored state never aliases caller state.
func Clone(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	default:
		return v
	}
}

// Merge applies a shallow patch on top of a copy of doc.
func Merge(doc, patch Document) Document {
	out := Clone(doc)
	if out == nil {
		out = Document{}
	}
	for k, v := range patch {
		out[k] = cloneValue(v)
	}
	return out
}
