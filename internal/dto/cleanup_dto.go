package dto

// PublishCleanupMessage asks the cleanup worker to remove orphaned blobs
// after a note or folder deletion.
type PublishCleanupMessage struct {
	Paths []string `json:"paths"`
}
