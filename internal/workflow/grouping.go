package workflow

// Group is a batch of records sharing a grouping key. Header is the first
// record encountered for the key; when later records disagree on a shared
// header field the first record's value silently wins.
type Group[T any] struct {
	Key    string `json:"key"`
	Header T      `json:"header"`
	Items  []T    `json:"items"`
}

// GroupByKey folds flat records into ordered groups. Groups appear in the
// order their key is first encountered, items in input encounter order.
// Records with an empty key are grouped together under the empty key rather
// than dropped, so every input record lands in exactly one group.
func GroupByKey[T any](records []T, key func(T) string) []Group[T] {
	var groups []Group[T]
	index := make(map[string]int, len(records))

	for _, rec := range records {
		k := key(rec)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k, Header: rec})
		}
		groups[i].Items = append(groups[i].Items, rec)
	}
	return groups
}
