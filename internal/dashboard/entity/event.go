package entity

// DatasetReleasedEvent asks the release consumer to drop a dataset that a
// session no longer points at.
type DatasetReleasedEvent struct {
	EventID   string
	DatasetID string
	SessionID string
}
