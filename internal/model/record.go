package model

import "time"

// Record is one personal-data record held by the remote store. The engine
// only ever reads records; Content is a free-form field-name -> value map and
// Tags are the store-side search tags.
type Record struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   map[string]string `json:"content"`
	Tags      []string          `json:"tags"`
	CreatedAt time.Time         `json:"created_at"`
}

// RecordQuery is the request shape of the remote record-store query. One
// query covers every still-unresolved field type of a match cycle, so
// BackingFields and SearchTags are combined lists.
type RecordQuery struct {
	BackingFields []string          `json:"backing_field_names"`
	SearchTags    []string          `json:"search_tags"`
	Filters       map[string]string `json:"filters,omitempty"`
	Limit         int               `json:"limit,omitempty"`
}

// RecordQueryResult is the response shape. A nil or absent records array
// decodes as an empty result, never an error.
type RecordQueryResult struct {
	Records []Record `json:"records"`
}
