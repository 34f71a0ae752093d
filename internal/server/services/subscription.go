package services

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/repomanager"
)

// SubscriptionInput mirrors the browser PushSubscription JSON.
type SubscriptionInput struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// SubscriptionStatus reports whether the user has any registered endpoint.
type SubscriptionStatus struct {
	Subscribed bool `json:"subscribed"`
	Endpoints  int  `json:"endpoints"`
}

type SubscriptionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSubscriptionService(db *sql.DB, m repomanager.RepositoryManager) *SubscriptionService {
	return &SubscriptionService{db: db, repomanager: m}
}

func validEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	return err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

// Subscribe registers the endpoint or refreshes its keys.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID string, in SubscriptionInput) (*models.PushSubscription, error) {
	endpoint := strings.TrimSpace(in.Endpoint)
	if !validEndpoint(endpoint) {
		return nil, common.NewValidationError("endpoint", "endpoint must be an absolute URL")
	}
	if strings.TrimSpace(in.Keys.P256dh) == "" {
		return nil, common.NewValidationError("keys.p256dh", "p256dh key is required")
	}
	if strings.TrimSpace(in.Keys.Auth) == "" {
		return nil, common.NewValidationError("keys.auth", "auth key is required")
	}
	return s.repomanager.Subscriptions(s.db).Upsert(ctx, &models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   in.Keys.P256dh,
		Auth:     in.Keys.Auth,
	})
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return common.NewValidationError("endpoint", "endpoint is required")
	}
	return s.repomanager.Subscriptions(s.db).Delete(ctx, userID, endpoint)
}

func (s *SubscriptionService) Status(ctx context.Context, userID string) (*SubscriptionStatus, error) {
	subs, err := s.repomanager.Subscriptions(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SubscriptionStatus{Subscribed: len(subs) > 0, Endpoints: len(subs)}, nil
}
