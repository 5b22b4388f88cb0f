package items

// DeleteQuery contains query parameters for deleting a file or directory.
type DeleteQuery struct {
	Path      string `query:"path" json:"path" validate:"required"`
	Recursive bool   `query:"recursive" json:"recursive"`
}

// CopyPayload contains the body for copying an item into a directory.
// Destination names the containing directory; an empty destination is the
// root.
type CopyPayload struct {
	Source      string `json:"source" validate:"required"`
	Destination string `json:"destination"`
}

// MovePayload contains the body for moving an item into a directory.
type MovePayload struct {
	Source      string `json:"source" validate:"required"`
	Destination string `json:"destination"`
}

// CreateFolderPayload contains the body for creating a directory.
type CreateFolderPayload struct {
	Path string `json:"path"`
	Name string `json:"name" mod:"trim" validate:"required,max=255"`
}

// ItemResponse is returned by every operation that produces a new item.
type ItemResponse struct {
	Path string `json:"path"`
}
