// Package food keeps the food entry log and fills it from photos through the
// recognition service.
package food

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/recognition"
	"github.com/meltforce/fittrack/internal/storage"
)

var (
	ErrEntryNotFound = errors.New("food entry not found")
	ErrInvalidEntry  = errors.New("invalid food entry")
)

// ImageUploader stores a local image file and returns its URL.
type ImageUploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// Recognizer identifies the food in an image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (*recognition.Result, error)
}

// Service manages the foodHistory document.
type Service struct {
	repo       *storage.Repository
	images     ImageUploader
	recognizer Recognizer
	log        *slog.Logger
	now        func() time.Time

	mu sync.Mutex
}

// NewService creates a food log service. images and recognizer may be nil,
// in which case image entries and recognition are rejected.
func NewService(repo *storage.Repository, images ImageUploader, recognizer Recognizer, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		images:     images,
		recognizer: recognizer,
		log:        log,
		now:        time.Now,
	}
}

func validate(e *models.FoodEntry) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if e.Calories < 0 || e.Protein < 0 || e.Carbs < 0 || e.Fat < 0 {
		return fmt.Errorf("%w: nutrition values must not be negative", ErrInvalidEntry)
	}
	return nil
}

// AddFoodEntry appends an entry to the log, assigning an id and date when
// missing. A local ImageURI is uploaded first; if that fails nothing is stored.
// ImageURI names a file on this host, so it must never come from a remote
// caller; it is cleared before the entry is saved.
func (s *Service) AddFoodEntry(ctx context.Context, e models.FoodEntry) (*models.FoodEntry, error) {
	if err := validate(&e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}

	if e.ImageURI != "" {
		if s.images == nil {
			return nil, fmt.Errorf("%w: image uploads are not configured", ErrInvalidEntry)
		}
		url, err := s.images.Upload(ctx, e.ImageURI)
		if err != nil {
			return nil, fmt.Errorf("uploading food image: %w", err)
		}
		e.ImageURL = url
		e.ImageURI = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Update(ctx, func(c storage.Collections) error {
		entries, err := c.GetFoodHistory(ctx)
		if err != nil {
			return err
		}
		return c.SaveFoodHistory(ctx, append(entries, e))
	})
	if err != nil {
		return nil, fmt.Errorf("saving food entry: %w", err)
	}
	s.log.Debug("food entry added", "id", e.ID, "name", e.Name, "calories", e.Calories)
	return &e, nil
}

// AddFoodEntryWithImage stores image through the image store and then logs e
// with the resulting URL.
func (s *Service) AddFoodEntryWithImage(ctx context.Context, e models.FoodEntry, image []byte) (*models.FoodEntry, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidEntry)
	}
	if s.images == nil {
		return nil, fmt.Errorf("%w: image uploads are not configured", ErrInvalidEntry)
	}
	path, err := writeTempImage(image)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	e.ImageURI = path
	return s.AddFoodEntry(ctx, e)
}

// GetFoodEntries returns the whole log ordered by date.
func (s *Service) GetFoodEntries(ctx context.Context) ([]models.FoodEntry, error) {
	entries, err := s.repo.GetFoodHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading food history: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}

// GetFoodEntriesForDate returns entries that fall on day's calendar day in
// day's location.
func (s *Service) GetFoodEntriesForDate(ctx context.Context, day time.Time) ([]models.FoodEntry, error) {
	entries, err := s.GetFoodEntries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.FoodEntry, 0, len(entries))
	for _, e := range entries {
		if models.SameDay(e.Date, day) {
			out = append(out, e)
		}
	}
	return out, nil
}

// DeleteFoodEntry removes one entry by id.
func (s *Service) DeleteFoodEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Update(ctx, func(c storage.Collections) error {
		entries, err := c.GetFoodHistory(ctx)
		if err != nil {
			return err
		}
		for i := range entries {
			if entries[i].ID == id {
				return c.SaveFoodHistory(ctx, append(entries[:i], entries[i+1:]...))
			}
		}
		return ErrEntryNotFound
	})
}

// DailyTotals sums calories and macros for day.
func (s *Service) DailyTotals(ctx context.Context, day time.Time) (models.NutritionTotals, error) {
	entries, err := s.GetFoodEntriesForDate(ctx, day)
	if err != nil {
		return models.NutritionTotals{}, err
	}
	totals := models.NutritionTotals{Date: day.Format(time.DateOnly), Entries: len(entries)}
	for _, e := range entries {
		totals.Calories += e.Calories
		totals.Protein += e.Protein
		totals.Carbs += e.Carbs
		totals.Fat += e.Fat
	}
	return totals, nil
}

// RecognizeAndLog sends image to the recognition service and logs the result
// as a new entry. The photo itself is kept through the image store when one is
// configured.
func (s *Service) RecognizeAndLog(ctx context.Context, image []byte) (*models.FoodEntry, error) {
	if s.recognizer == nil {
		return nil, fmt.Errorf("%w: recognition is not configured", recognition.ErrRecognitionFailed)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidEntry)
	}

	res, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		return nil, err
	}
	confidence := res.Nutrition.Confidence
	entry := models.FoodEntry{
		Name:       res.Name,
		Calories:   res.Nutrition.Calories,
		Protein:    res.Nutrition.Protein,
		Carbs:      res.Nutrition.Carbohydrates,
		Fat:        res.Nutrition.Fat,
		Confidence: &confidence,
	}

	var added *models.FoodEntry
	if s.images != nil {
		added, err = s.AddFoodEntryWithImage(ctx, entry, image)
	} else {
		added, err = s.AddFoodEntry(ctx, entry)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("food recognized", "name", added.Name, "calories", added.Calories, "confidence", confidence)
	return added, nil
}

func writeTempImage(image []byte) (string, error) {
	f, err := os.CreateTemp("", "fittrack-*"+imageExt(image))
	if err != nil {
		return "", fmt.Errorf("creating temp image: %w", err)
	}
	if _, err := f.Write(image); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing temp image: %w", err)
	}
	return f.Name(), nil
}

func imageExt(image []byte) string {
	switch http.DetectContentType(image) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}
