package model

type Review struct {
	ID        int    `json:"id"`
	BookID    int    `json:"book_id"`
	UserID    int32  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Text      string `json:"review"`
	CreatedTs int64  `json:"created_ts"`
}

type FindReview struct {
	ID     *int
	BookID *int
	UserID *int32
}

type ReviewRequest struct {
	Text string `json:"review" validate:"required,max=150"`
}
