package uploads

import "mime/multipart"

// UploadPayload is the multipart form for the upload endpoint. Path names the
// directory the files are saved into; every file part is uploaded regardless
// of its field name.
type UploadPayload struct {
	Path      string                             `form:"path" json:"path"`
	FormFiles map[string][]*multipart.FileHeader `form:"-" json:"-"`
}

type UploadResponse struct {
	Paths []string `json:"paths"`
}
