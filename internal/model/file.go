package model

// FileMetadata describes the uploaded dataset. Only server-confirmed values
// are ever stored here; a zero Rows with Confirmed=false renders as pending
// rather than a fabricated count.
type FileMetadata struct {
	FileID     string `json:"file_id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Rows       int    `json:"rows"`
	UploadedAt string `json:"uploadedAt"`
	Confirmed  bool   `json:"-"`
}

// User is the authenticated principal as issued by the login endpoint.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
