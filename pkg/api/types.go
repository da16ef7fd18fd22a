package api

// LocalModel is a model installed in the local store.
type LocalModel struct {
	Name   string `json:"name"`
	Model  string `json:"model,omitempty"`
	Digest string `json:"digest"`
	Size   int64  `json:"size,omitempty"`
}

// ListResponse is the body of GET /api/tags.
type ListResponse struct {
	Models []LocalModel `json:"models"`
}

// PullRequest is the body of POST /api/pull.
type PullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// ProgressEvent is one line of a streamed pull. Completed and Total are
// zero when the store did not report them.
type ProgressEvent struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Error     string `json:"error,omitempty"`
}
