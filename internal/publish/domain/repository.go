package domain

// FileLocation addresses a single path on a branch of a repository.
type FileLocation struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// RemoteFile is what a content lookup found at a FileLocation.
type RemoteFile struct {
	SHA   string
	IsDir bool // The path holds a directory listing rather than a file
}

// FileWrite is a create-or-update request for repository contents.
// PriorSHA is nil for a create and must hold the current blob SHA for an
// update, otherwise the hosting API rejects the write as a conflict.
type FileWrite struct {
	Location FileLocation
	Message  string
	Content  []byte
	PriorSHA *string
}

// IsUpdate reports whether the write replaces existing content.
func (w FileWrite) IsUpdate() bool {
	return w.PriorSHA != nil
}

// WriteResult is what the hosting API returned for a FileWrite.
type WriteResult struct {
	DownloadURL string
}
