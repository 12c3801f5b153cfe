package query

type Path []PathElement

type PathElement any

func appendPath(path Path, elem PathElement) Path {
	out := make(Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

// ReadError is an error located at a response path.
type ReadError struct {
	Message string `json:"message"`
	Path    Path   `json:"path,omitempty"`
}

func (e ReadError) Error() string {
	return e.Message
}

// Result is the outcome of reading a query from the cache. Data is nil when
// the cache cannot serve the query and it must be fetched.
type Result struct {
	Data    map[string]any `json:"data"`
	Partial bool           `json:"partial"`
	Errors  []ReadError    `json:"errors,omitempty"`
}
