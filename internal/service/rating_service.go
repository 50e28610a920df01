package service

import (
	"fmt"
	"math"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/util"
)

type RatingService struct {
	RatingRepo   *repository.RatingRepository
	LearningRepo *repository.LearningRepository
	UserRepo     *repository.UserRepository
	Notifier     *NotificationService
}

func NewRatingService(ratingRepo *repository.RatingRepository, learningRepo *repository.LearningRepository, userRepo *repository.UserRepository, notifier *NotificationService) *RatingService {
	return &RatingService{
		RatingRepo:   ratingRepo,
		LearningRepo: learningRepo,
		UserRepo:     userRepo,
		Notifier:     notifier,
	}
}

// Rate 仅参与方、仅已完成、每人每会话一次，被评者是对端
func (s *RatingService) Rate(raterID, sessionID uint, rating int, feedback string) (*model.SkillRating, error) {
	if !model.ValidRating(rating) {
		return nil, util.ErrInvalidRating
	}

	session, err := s.LearningRepo.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.LearnerID != raterID && session.TeacherID != raterID {
		return nil, util.ErrNotSessionParty
	}
	if session.Status != model.SessionCompleted {
		return nil, util.ErrSessionNotCompleted
	}

	if rated, err := s.RatingRepo.Exists(sessionID, raterID); err != nil {
		return nil, err
	} else if rated {
		return nil, util.ErrAlreadyRated
	}

	ratedUserID := session.TeacherID
	if raterID == session.TeacherID {
		ratedUserID = session.LearnerID
	}

	skillRating := &model.SkillRating{
		SessionID:   sessionID,
		RaterID:     raterID,
		RatedUserID: ratedUserID,
		SkillName:   session.SkillName,
		Rating:      rating,
		Feedback:    feedback,
	}
	if err := s.RatingRepo.Create(skillRating); err != nil {
		return nil, err
	}

	s.Notifier.Notify(ratedUserID, model.NotifySkillMatch,
		"You received a rating",
		fmt.Sprintf("%s rated you %d/5 for %s", skillRating.Rater.Username, rating, session.SkillName),
		&raterID,
		"/profile")

	return skillRating, nil
}

type CanRateResult struct {
	CanRate       bool   `json:"can_rate"`
	SessionStatus string `json:"session_status"`
	HasRated      bool   `json:"has_rated"`
	Reason        string `json:"reason,omitempty"`
}

func (s *RatingService) CanRate(userID, sessionID uint) (*CanRateResult, error) {
	session, err := s.LearningRepo.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.LearnerID != userID && session.TeacherID != userID {
		return nil, util.ErrNotSessionParty
	}

	result := &CanRateResult{SessionStatus: string(session.Status)}
	if session.Status != model.SessionCompleted {
		result.Reason = "session is not completed"
		return result, nil
	}

	rated, err := s.RatingRepo.Exists(sessionID, userID)
	if err != nil {
		return nil, err
	}
	result.HasRated = rated
	if rated {
		result.Reason = "already rated"
		return result, nil
	}

	result.CanRate = true
	return result, nil
}

// SessionRatings 会话下的全部评分
func (s *RatingService) SessionRatings(userID, sessionID uint) ([]model.SkillRating, *CanRateResult, error) {
	canRate, err := s.CanRate(userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ratings, err := s.RatingRepo.FindBySession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return ratings, canRate, nil
}

type UserRatingSummary struct {
	Ratings []model.SkillRating `json:"ratings"`
	Average float64             `json:"average_rating"`
	Count   int                 `json:"count"`
}

// UserRatings 用户收到的评分，可按其当时角色过滤
func (s *RatingService) UserRatings(username, role string) (*UserRatingSummary, error) {
	user, err := s.UserRepo.FindByUsername(model.NormalizeUsername(username))
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	ratings, err := s.RatingRepo.FindByRatedUser(user.ID)
	if err != nil {
		return nil, err
	}

	if role == "as_learner" || role == "as_teacher" {
		filtered := make([]model.SkillRating, 0, len(ratings))
		for _, r := range ratings {
			session, err := s.LearningRepo.FindByID(r.SessionID)
			if err != nil {
				continue
			}
			wasLearner := session.LearnerID == user.ID
			if (role == "as_learner") == wasLearner {
				filtered = append(filtered, r)
			}
		}
		ratings = filtered
	}

	summary := &UserRatingSummary{Ratings: ratings, Count: len(ratings)}
	if len(ratings) > 0 {
		total := 0
		for _, r := range ratings {
			total += r.Rating
		}
		summary.Average = math.Round(float64(total)/float64(len(ratings))*100) / 100
	}
	return summary, nil
}
