package goal

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamuuh/tamuuh-api/internal/config"
	"gorm.io/gorm"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrAccessDenied = errors.New("access denied")
	ErrInvalidField = errors.New("invalid field")
	ErrMissingTitle = errors.New("title is required")
)

// ImageStore is the slice of the media store the goal lifecycle needs.
type ImageStore interface {
	Save(r io.Reader, originalFilename string) (string, error)
	Remove(filename string) error
}

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateGoalInput, files []*multipart.FileHeader) (*GoalResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]GoalResponse, error)
	Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*GoalResponse, error)
	UpdateField(ctx context.Context, id uuid.UUID, userID uuid.UUID, dto UpdateGoalFieldDTO) (*GoalResponse, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type service struct {
	repo   Repository
	images ImageStore
}

func NewService(repo Repository, images ImageStore) Service {
	return &service{repo: repo, images: images}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateGoalInput, files []*multipart.FileHeader) (*GoalResponse, error) {
	log := config.WithContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	// Anything that does not parse as a non-negative amount becomes 0;
	// a zero-target goal is legal and reads as 0% progress.
	target, err := decimal.NewFromString(strings.TrimSpace(input.TargetAmount))
	if err != nil || target.IsNegative() {
		target = decimal.Zero
	}

	g := Goal{
		ID:                uuid.New(),
		Title:             title,
		TargetAmount:      target,
		SavedAmount:       decimal.Zero,
		UserID:            userID,
		MotivationalQuote: nilIfBlank(input.MotivationalQuote),
		Description:       nilIfBlank(input.Description),
	}

	images := s.storeImages(ctx, files)

	if err := s.repo.CreateWithImages(&g, images); err != nil {
		log.WithError(err).Error("Failed to create goal")
		return nil, err
	}

	return ToResponse(&g), nil
}

// storeImages accepts at most MaxImagesPerGoal uploads. Entries with a
// disallowed extension or an unreadable body are skipped, not fatal.
// Position keeps the file's index in the submitted list.
func (s *service) storeImages(ctx context.Context, files []*multipart.FileHeader) []GoalImage {
	log := config.WithContext(ctx)

	var images []GoalImage
	for i, fh := range files {
		if len(images) >= MaxImagesPerGoal {
			break
		}
		if fh == nil || fh.Filename == "" {
			continue
		}

		f, err := fh.Open()
		if err != nil {
			log.WithError(err).WithField("filename", fh.Filename).Warn("Skipping unreadable upload")
			continue
		}
		stored, err := s.images.Save(f, fh.Filename)
		f.Close()
		if err != nil {
			log.WithError(err).WithField("filename", fh.Filename).Warn("Skipping rejected upload")
			continue
		}

		images = append(images, GoalImage{
			ID:               uuid.New(),
			Filename:         stored,
			OriginalFilename: fh.Filename,
			Position:         i,
		})
	}
	return images
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]GoalResponse, error) {
	goals, err := s.repo.FindAllByUserID(userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list goals")
		return nil, err
	}

	responses := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		responses = append(responses, *ToResponse(&goals[i]))
	}
	return responses, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*GoalResponse, error) {
	g, err := s.ownedGoal(id, userID)
	if err != nil {
		return nil, err
	}
	return ToResponse(g), nil
}

func (s *service) UpdateField(ctx context.Context, id uuid.UUID, userID uuid.UUID, dto UpdateGoalFieldDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)

	if _, err := s.ownedGoal(id, userID); err != nil {
		return nil, err
	}

	var column string
	switch dto.Field {
	case "motivational_quote":
		column = "motivational_quote"
	case "description":
		column = "description"
	default:
		return nil, ErrInvalidField
	}

	// Blank values store as NULL, not empty string.
	if err := s.repo.UpdateOptionalField(id, column, nilIfBlank(dto.Value)); err != nil {
		log.WithError(err).Error("Failed to update goal field")
		return nil, err
	}

	g, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return ToResponse(g), nil
}

// Delete removes backing files first, then the rows. If the row
// delete fails the files are already gone; leaking files is the worse
// failure, so that ordering stands.
func (s *service) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	log := config.WithContext(ctx)

	g, err := s.ownedGoal(id, userID)
	if err != nil {
		return err
	}

	for _, img := range g.Images {
		if err := s.images.Remove(img.Filename); err != nil {
			log.WithError(err).WithField("filename", img.Filename).Warn("Failed to remove image file")
		}
	}

	if err := s.repo.DeleteCascade(id); err != nil {
		log.WithError(err).Error("Failed to delete goal")
		return err
	}
	return nil
}

// ownedGoal loads a goal and enforces ownership. Non-owners get the
// same denial whether or not they guessed a real id's owner.
func (s *service) ownedGoal(id uuid.UUID, userID uuid.UUID) (*Goal, error) {
	g, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrAccessDenied
	}
	return g, nil
}

func nilIfBlank(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
