package preview

// PreviewQuery contains query parameters for the preview endpoint.
type PreviewQuery struct {
	Path string `query:"path" json:"path" validate:"required"`
}

// Kind tells the client how to render a Result.
type Kind string

const (
	KindText        Kind = "text"
	KindImage       Kind = "image"
	KindUnsupported Kind = "unsupported"
	KindError       Kind = "error"
)

// Result is the outcome of previewing a file. Files that are too large or of
// an unknown type are normal results with a Message, not errors.
type Result struct {
	Kind      Kind   `json:"kind"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type,omitempty"`
	Content   string `json:"content,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Message   string `json:"message,omitempty"`
}
