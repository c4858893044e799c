package dto

import (
	"time"

	"gigmarket_backend/internal/models"
)

const anonymousName = "Anonymous"

type CreateReviewRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Message   string `json:"message" validate:"required,max=1000"`
	Anonymous bool   `json:"anonymous"`
}

// ReviewerView - автор отзыва, как его видят читатели
type ReviewerView struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profilePicture"`
}

type ReviewResponse struct {
	ID         string        `json:"id"`
	OrderID    string        `json:"orderId"`
	GigID      string        `json:"gigId,omitempty"`
	RevieweeID string        `json:"revieweeId"`
	Rating     int           `json:"rating"`
	Message    string        `json:"message"`
	Anonymous  bool          `json:"anonymous"`
	CreatedAt  time.Time     `json:"createdAt"`
	Reviewer   *ReviewerView `json:"reviewer"`
}

// NewReviewResponse собирает ответ. При mask=true анонимный отзыв
// скрывает автора, на агрегацию это не влияет.
func NewReviewResponse(r *models.Review, mask bool) *ReviewResponse {
	resp := &ReviewResponse{
		ID:         r.ID,
		OrderID:    r.OrderID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Message:    r.Message,
		Anonymous:  r.Anonymous,
		CreatedAt:  r.CreatedAt,
	}
	if r.Order != nil {
		resp.GigID = r.Order.GigID
	}

	switch {
	case mask && r.Anonymous:
		resp.Reviewer = &ReviewerView{Name: anonymousName}
	case r.Reviewer != nil:
		resp.Reviewer = &ReviewerView{ID: r.Reviewer.ID, Name: r.Reviewer.Name, ProfilePicture: r.Reviewer.ProfilePicture}
	default:
		resp.Reviewer = &ReviewerView{ID: r.ReviewerID}
	}
	return resp
}

func NewReviewList(reviews []models.Review) []*ReviewResponse {
	out := make([]*ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewReviewResponse(&reviews[i], true))
	}
	return out
}
