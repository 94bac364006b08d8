package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateGoalInput carries the raw multipart form fields. TargetAmount
// stays a string here: anything that does not parse becomes 0.
type CreateGoalInput struct {
	Title             string
	TargetAmount      string
	MotivationalQuote string
	Description       string
}

type UpdateGoalFieldDTO struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type GoalImageResponse struct {
	ID               uuid.UUID `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	Position         int       `json:"position"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

type GoalResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Title              string              `json:"title"`
	TargetAmount       decimal.Decimal     `json:"target_amount"`
	SavedAmount        decimal.Decimal     `json:"saved_amount"`
	RemainingAmount    decimal.Decimal     `json:"remaining_amount"`
	ProgressPercentage float64             `json:"progress_percentage"`
	MotivationalQuote  *string             `json:"motivational_quote,omitempty"`
	Description        *string             `json:"description,omitempty"`
	UserID             uuid.UUID           `json:"user_id"`
	Images             []GoalImageResponse `json:"images"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func toImageResponse(img *GoalImage) GoalImageResponse {
	return GoalImageResponse{
		ID:               img.ID,
		Filename:         img.Filename,
		OriginalFilename: img.OriginalFilename,
		Position:         img.Position,
		UploadedAt:       img.CreatedAt,
	}
}

func ToResponse(g *Goal) *GoalResponse {
	images := make([]GoalImageResponse, 0, len(g.Images))
	for i := range g.Images {
		images = append(images, toImageResponse(&g.Images[i]))
	}

	return &GoalResponse{
		ID:                 g.ID,
		Title:              g.Title,
		TargetAmount:       g.TargetAmount,
		SavedAmount:        g.SavedAmount,
		RemainingAmount:    g.RemainingAmount(),
		ProgressPercentage: g.ProgressPercentage(),
		MotivationalQuote:  g.MotivationalQuote,
		Description:        g.Description,
		UserID:             g.UserID,
		Images:             images,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
}
