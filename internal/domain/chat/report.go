package chat

// ReportQuery is a parameterized, read-only query synthesized from a user
// question. It exists only for the duration of one message's processing.
// The query text originates from an untrusted generator and must pass
// safety re-validation before it is ever executed.
type ReportQuery struct {
	Query  string        `json:"query"`
	Params []interface{} `json:"params"`
}
