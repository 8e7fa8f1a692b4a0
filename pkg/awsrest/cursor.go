package awsrest

// Cursor is an opaque continuation token issued by the provider during a
// paginated listing. An empty cursor means the start of the sequence; an
// empty next cursor in a response means the sequence is exhausted. The
// value is replayed verbatim on the next call: never reordered, never
// mutated. Where the provider places it differs per service, so each
// service wrapper surfaces it from its own result record.
type Cursor string

func (c Cursor) IsZero() bool { return c == "" }

func (c Cursor) String() string { return string(c) }
