package model

type Notification struct {
	ID        int    `json:"id"`
	UserID    int32  `json:"user_id"`
	CopyID    string `json:"copy_id,omitempty"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedTs int64  `json:"created_ts"`
}

type FindNotification struct {
	ID     *int
	UserID *int32
	Read   *bool
	// CreatedAfter filters out notifications older than the given unix time.
	CreatedAfter *int64
	CopyID       *string
}
