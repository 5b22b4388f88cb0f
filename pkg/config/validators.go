package config

// PublicConfig is the subset of the configuration clients need to know about,
// mostly so they can reject oversized uploads before sending them.
type PublicConfig struct {
	MaxUploadSizeBytes   int64 `json:"max_upload_size_bytes"`
	MaxPreviewBytes      int64 `json:"max_preview_bytes"`
	MaxPreviewTextChars  int   `json:"max_preview_text_chars"`
	MaxPreviewImageBytes int64 `json:"max_preview_image_bytes"`
	CaseSensitivePaths   bool  `json:"case_sensitive_paths"`
}
