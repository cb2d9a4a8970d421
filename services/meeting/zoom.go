package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	credentialsRepo "coachdesk/database/repository/credentials"
	"coachdesk/models"
)

// DefaultMeetingService talks to a Zoom-compatible HTTP API using the calendar
// owner's stored access token.
type DefaultMeetingService struct {
	Credentials credentialsRepo.CredentialsRepository
	BaseURL     string
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

func NewDefaultMeetingService(creds credentialsRepo.CredentialsRepository, baseURL string, logger *zap.Logger) *DefaultMeetingService {
	return &DefaultMeetingService{
		Credentials: creds,
		BaseURL:     baseURL,
		HTTPClient:  &http.Client{Timeout: 5 * time.Second},
		Logger:      logger,
	}
}

func (s *DefaultMeetingService) HasValidCredentials(ctx context.Context, ownerID string) (bool, error) {
	creds, err := s.Credentials.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return creds.Valid(time.Now()), nil
}

func (s *DefaultMeetingService) CreateMeeting(ctx context.Context, appointmentID, ownerID string) (*models.MeetingDetails, error) {
	creds, err := s.Credentials.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no meeting credentials for owner %s", ownerID)
		}
		return nil, err
	}
	if !creds.Valid(time.Now()) {
		return nil, fmt.Errorf("meeting credentials for owner %s expired", ownerID)
	}

	body, err := json.Marshal(map[string]any{
		"topic":  "Coaching appointment " + appointmentID,
		"type":   2, // scheduled meeting
		"agenda": appointmentID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meeting provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("meeting provider returned status %d", resp.StatusCode)
	}

	var out struct {
		ID       json.Number `json:"id"`
		JoinURL  string      `json:"join_url"`
		StartURL string      `json:"start_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode meeting response: %w", err)
	}

	s.Logger.Info("meeting created",
		zap.String("appointmentId", appointmentID),
		zap.String("ownerId", ownerID),
		zap.String("meetingId", out.ID.String()))

	return &models.MeetingDetails{
		MeetingID: out.ID.String(),
		JoinURL:   out.JoinURL,
		StartURL:  out.StartURL,
	}, nil
}
