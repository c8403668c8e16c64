package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edulane/tutora-backend/internal/config"
	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/repository"
)

// Meeting errors.
var (
	ErrNotEnrolled     = errors.New("student is not enrolled in this class")
	ErrMeetingNotOpen  = errors.New("meeting room is not open for this class")
	ErrBadMeetingToken = errors.New("invalid meeting token")
)

// MeetingClaims is the short-lived token handed to the video-meeting client.
type MeetingClaims struct {
	jwt.RegisteredClaims
	ClassID string     `json:"class_id"`
	Room    string     `json:"room"`
	UserID  int        `json:"user_id"`
	Role    model.Role `json:"role"`
	Name    string     `json:"name"`
}

// MeetingService owns the video-meeting hand-off: issuing signed join
// tokens and recording observed teacher presence when a join happens.
type MeetingService struct {
	cfg        *config.Config
	classRepo  *repository.ClassRepository
	enrollRepo *repository.EnrollmentRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	cfg *config.Config,
	classRepo *repository.ClassRepository,
	enrollRepo *repository.EnrollmentRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *MeetingService {
	return &MeetingService{
		cfg:        cfg,
		classRepo:  classRepo,
		enrollRepo: enrollRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "meeting_service").Logger(),
	}
}

// TokenTTL returns the configured meeting token lifetime.
func (s *MeetingService) TokenTTL() time.Duration {
	return s.cfg.MeetingTokenTTL
}

// IssueJoinToken returns a signed token admitting the user to the class's
// meeting room. Teachers must own the class; students must hold a seat.
// The room opens only while the class is scheduled or live.
func (s *MeetingService) IssueJoinToken(ctx context.Context, user *model.User, classID uuid.UUID) (string, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return "", err
	}
	if class.Status.Terminal() {
		return "", ErrMeetingNotOpen
	}

	switch user.Role {
	case model.RoleTeacher:
		if class.TeacherID != user.ID {
			return "", ErrNotClassOwner
		}
	case model.RoleStudent:
		enrolled, err := s.enrollRepo.Exists(ctx, classID, user.ID)
		if err != nil {
			return "", err
		}
		if !enrolled {
			return "", ErrNotEnrolled
		}
	}

	now := time.Now()
	claims := MeetingClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.MeetingTokenTTL)),
		},
		ClassID: class.ID.String(),
		Room:    class.MeetingRoom,
		UserID:  user.ID,
		Role:    user.Role,
		Name:    user.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign meeting token: %w", err)
	}
	return signed, nil
}

// ValidateJoinToken parses a meeting token presented at the presence socket
// or by the provider webhook.
func (s *MeetingService) ValidateJoinToken(tokenStr string) (*MeetingClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &MeetingClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMeetingToken, err)
	}

	claims, ok := token.Claims.(*MeetingClaims)
	if !ok || !token.Valid {
		return nil, ErrBadMeetingToken
	}
	return claims, nil
}

// RecordJoin processes an observed meeting join. A teacher joining their own
// room flips the class's presence flag — the single signal the lifecycle
// engine later uses to tell "taught" from "no-show". The flag is never
// cleared again, so repeated joins and reconnects are no-ops.
func (s *MeetingService) RecordJoin(ctx context.Context, claims *MeetingClaims) error {
	classID, err := uuid.Parse(claims.ClassID)
	if err != nil {
		return fmt.Errorf("%w: bad class id", ErrBadMeetingToken)
	}

	if claims.Role == model.RoleTeacher {
		if err := s.classRepo.SetTeacherJoined(ctx, classID); err != nil {
			return fmt.Errorf("set teacher joined: %w", err)
		}
		s.log.Info().
			Str("class_id", claims.ClassID).
			Int("teacher_id", claims.UserID).
			Msg("Teacher presence observed")
	}

	s.publishRosterEvent(ctx, claims, "joined")
	return nil
}

// RecordLeave fans out the departure to roster listeners. Leaving never
// clears the presence flag.
func (s *MeetingService) RecordLeave(ctx context.Context, claims *MeetingClaims) {
	s.publishRosterEvent(ctx, claims, "left")
}

// publishRosterEvent best-effort broadcasts a presence change on the
// class's Redis channel for any monitoring consumer.
func (s *MeetingService) publishRosterEvent(ctx context.Context, claims *MeetingClaims, event string) {
	channel := config.CacheKey.ClassRosterChannel(claims.ClassID)
	payload := fmt.Sprintf(`{"event":%q,"user_id":%d,"role":%q,"name":%q}`,
		event, claims.UserID, claims.Role, claims.Name)
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("class_id", claims.ClassID).Msg("Roster event publish failed")
	}
}
