package marketing

import "github.com/progarden/garden-crm/internal/shared"

// Post tracks a single social media post and the sales attributed to it.
type Post struct {
	ID            int64        `json:"id"`
	Platform      string       `json:"platform"`
	PostDate      *shared.Date `json:"post_date,omitempty"`
	ContentType   string       `json:"content_type,omitempty"`
	Description   string       `json:"description,omitempty"`
	Engagement    string       `json:"engagement,omitempty"`
	SalesFromPost float64      `json:"sales_from_post"`
	Notes         string       `json:"notes,omitempty"`
}

// CreatePostRequest carries a new marketing post payload.
type CreatePostRequest struct {
	Platform      string       `json:"platform" validate:"required"`
	PostDate      *shared.Date `json:"post_date"`
	ContentType   string       `json:"content_type"`
	Description   string       `json:"description"`
	Engagement    string       `json:"engagement"`
	SalesFromPost float64      `json:"sales_from_post" validate:"gte=0"`
	Notes         string       `json:"notes"`
}

// UpdatePostRequest is a partial patch. Nil fields are left unchanged.
type UpdatePostRequest struct {
	Platform      *string      `json:"platform" validate:"omitempty,min=1"`
	PostDate      *shared.Date `json:"post_date"`
	ContentType   *string      `json:"content_type"`
	Description   *string      `json:"description"`
	Engagement    *string      `json:"engagement"`
	SalesFromPost *float64     `json:"sales_from_post" validate:"omitempty,gte=0"`
	Notes         *string      `json:"notes"`
}
