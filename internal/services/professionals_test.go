package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KainanGuerra/therapy-chatbot/internal/llm"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
)

type fakeProfessionalRepo struct {
	professionals map[uuid.UUID]*models.Professional
}

func newFakeProfessionalRepo() *fakeProfessionalRepo {
	return &fakeProfessionalRepo{professionals: make(map[uuid.UUID]*models.Professional)}
}

func (f *fakeProfessionalRepo) Create(ctx context.Context, professional *models.Professional) error {
	if professional.ID == uuid.Nil {
		professional.ID = uuid.New()
	}
	professional.CreatedAt = time.Now()
	f.professionals[professional.ID] = professional
	return nil
}

func (f *fakeProfessionalRepo) Get(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	return f.professionals[id], nil
}

func (f *fakeProfessionalRepo) List(ctx context.Context, filter repository.ProfessionalFilter) ([]*models.Professional, error) {
	var out []*models.Professional
	for _, p := range f.professionals {
		if !p.IsAvailable {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProfessionalRepo) Update(ctx context.Context, professional *models.Professional) error {
	f.professionals[professional.ID] = professional
	return nil
}

func (f *fakeProfessionalRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if p, ok := f.professionals[id]; ok {
		p.IsAvailable = available
	}
	return nil
}

func (f *fakeProfessionalRepo) Search(ctx context.Context, query string, limit int) ([]*models.Professional, error) {
	var out []*models.Professional
	for _, p := range f.professionals {
		if p.IsAvailable && strings.Contains(strings.ToLower(p.Name+" "+p.Bio), strings.ToLower(query)) {
			out = append(out, p)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProfessionalRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error {
	if p, ok := f.professionals[id]; ok {
		p.Rating = rating
		p.ReviewCount = reviewCount
	}
	return nil
}

type stubRecommender struct {
	result llm.RecommendationResult
	calls  int
}

func (s *stubRecommender) RecommendProfessional(ctx context.Context, moodLevel models.MoodLevel, messageHistory []string, prefs models.UserPreferences) llm.RecommendationResult {
	s.calls++
	return s.result
}

func newProfessionalsFixture(recommender *stubRecommender) (*ProfessionalsService, *fakeProfessionalRepo, *fakeMoodRepo, *models.User) {
	user := &models.User{
		ID:          uuid.New(),
		Email:       "test@example.com",
		Preferences: models.DefaultPreferences(),
	}
	professionals := newFakeProfessionalRepo()
	moods := &fakeMoodRepo{}
	svc := NewProfessionalsService(professionals, moods, newFakeUserRepo(user), NewCacheService(), recommender)
	return svc, professionals, moods, user
}

func TestProfessionalsService_RemoveIsSoftDelete(t *testing.T) {
	svc, repo, _, _ := newProfessionalsFixture(&stubRecommender{})

	professional, err := svc.CreateProfessional(context.Background(), &models.Professional{
		Name: "Dr. Test",
		Type: models.ProfessionalCounselor,
	})
	require.NoError(t, err)
	assert.True(t, professional.IsAvailable)

	require.NoError(t, svc.RemoveProfessional(context.Background(), professional.ID))

	// The row survives for past referrals but drops out of listings
	assert.Contains(t, repo.professionals, professional.ID)
	assert.False(t, repo.professionals[professional.ID].IsAvailable)

	list, err := svc.ListProfessionals(context.Background(), repository.ProfessionalFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProfessionalsService_RemoveUnknownRejected(t *testing.T) {
	svc, _, _, _ := newProfessionalsFixture(&stubRecommender{})

	err := svc.RemoveProfessional(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestProfessionalsService_RatingRollsUp(t *testing.T) {
	svc, _, _, _ := newProfessionalsFixture(&stubRecommender{})

	professional, err := svc.CreateProfessional(context.Background(), &models.Professional{
		Name: "Dr. Test",
		Type: models.ProfessionalTherapist,
	})
	require.NoError(t, err)

	professional, err = svc.RateProfessional(context.Background(), professional.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, professional.Rating)
	assert.Equal(t, 1, professional.ReviewCount)

	professional, err = svc.RateProfessional(context.Background(), professional.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, professional.Rating)
	assert.Equal(t, 2, professional.ReviewCount)

	// Averages round to two decimals
	professional, err = svc.RateProfessional(context.Background(), professional.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 4.67, professional.Rating)
}

func TestProfessionalsService_RatingBoundsEnforced(t *testing.T) {
	svc, _, _, _ := newProfessionalsFixture(&stubRecommender{})

	_, err := svc.RateProfessional(context.Background(), uuid.New(), 0)
	assert.Error(t, err)
	_, err = svc.RateProfessional(context.Background(), uuid.New(), 6)
	assert.Error(t, err)
}

func TestRecommendations_MatchesDirectoryToModelOutput(t *testing.T) {
	recommender := &stubRecommender{result: llm.RecommendationResult{
		Recommendation: models.ProfessionalRecommendation{
			Type:            models.ProfessionalPsychologist,
			Reason:          "Sustained low mood",
			Urgency:         "medium",
			Specializations: []string{"burnout"},
		},
	}}
	svc, _, moods, user := newProfessionalsFixture(recommender)

	_, err := svc.CreateProfessional(context.Background(), &models.Professional{
		Name: "Dr. Match",
		Type: models.ProfessionalPsychologist,
	})
	require.NoError(t, err)
	_, err = svc.CreateProfessional(context.Background(), &models.Professional{
		Name: "Dr. Other",
		Type: models.ProfessionalPsychiatrist,
	})
	require.NoError(t, err)

	_ = moods.Create(context.Background(), &models.MoodEntry{
		UserID:    user.ID,
		Level:     models.MoodLow,
		Keywords:  models.StringList{"overwhelmed"},
		Sentiment: models.SentimentNegative,
	})

	output, err := svc.Recommendations(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ProfessionalPsychologist, output.Recommendation.Type)
	require.Len(t, output.Professionals, 1)
	assert.Equal(t, "Dr. Match", output.Professionals[0].Name)
}

func TestRecommendations_FallBackToGeneralCounselor(t *testing.T) {
	recommender := &stubRecommender{result: llm.RecommendationResult{
		Fallback: llm.FallbackParseFailed,
	}}
	svc, _, _, user := newProfessionalsFixture(recommender)

	output, err := svc.Recommendations(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ProfessionalCounselor, output.Recommendation.Type)
	assert.Equal(t, "General workplace support recommended", output.Recommendation.Reason)
	assert.Equal(t, "low", output.Recommendation.Urgency)
	assert.Equal(t, []string{"workplace wellness", "stress management"}, output.Recommendation.Specializations)
}

func TestRecommendations_Cached(t *testing.T) {
	recommender := &stubRecommender{result: llm.RecommendationResult{
		Recommendation: models.ProfessionalRecommendation{Type: models.ProfessionalCounselor},
	}}
	svc, _, _, user := newProfessionalsFixture(recommender)

	_, err := svc.Recommendations(context.Background(), user.ID)
	require.NoError(t, err)
	_, err = svc.Recommendations(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, recommender.calls)
}
