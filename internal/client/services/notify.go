package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/learnjournal/internal/client/models"
	"github.com/dmitrijs2005/learnjournal/internal/client/repositories/metadata"
)

const keyPushEndpoint = "push_endpoint"

// ErrNoPushEndpoint means there is nothing to unsubscribe from.
var ErrNoPushEndpoint = errors.New("no push endpoint registered")

// PushPort produces the push subscription for this device. Delivery of the
// notifications themselves happens outside the CLI.
type PushPort interface {
	Subscription(ctx context.Context) (models.Subscription, error)
}

// StaticPush is a PushPort for a subscription obtained elsewhere, for
// example from a browser.
type StaticPush models.Subscription

func (p StaticPush) Subscription(context.Context) (models.Subscription, error) {
	if p.Endpoint == "" {
		return models.Subscription{}, ErrNoPushEndpoint
	}
	return models.Subscription(p), nil
}

type PushAPI interface {
	Subscribe(ctx context.Context, sub models.Subscription) error
	Unsubscribe(ctx context.Context, endpoint string) error
	SubscriptionStatus(ctx context.Context) (*models.SubscriptionStatus, error)
}

type NotifyService struct {
	api  PushAPI
	meta metadata.Repository
}

func NewNotifyService(api PushAPI, meta metadata.Repository) *NotifyService {
	return &NotifyService{api: api, meta: meta}
}

// Enable registers the port's subscription and remembers its endpoint so
// Disable can remove it later.
func (s *NotifyService) Enable(ctx context.Context, port PushPort) error {
	sub, err := port.Subscription(ctx)
	if err != nil {
		return fmt.Errorf("push subscription: %w", err)
	}
	if err := s.api.Subscribe(ctx, sub); err != nil {
		return err
	}
	return s.meta.Set(ctx, keyPushEndpoint, []byte(sub.Endpoint))
}

// Disable removes endpoint, or the remembered one when endpoint is empty.
func (s *NotifyService) Disable(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		v, err := s.meta.Get(ctx, keyPushEndpoint)
		if err != nil {
			return err
		}
		endpoint = string(v)
	}
	if endpoint == "" {
		return ErrNoPushEndpoint
	}
	if err := s.api.Unsubscribe(ctx, endpoint); err != nil {
		return err
	}
	return s.meta.Delete(ctx, keyPushEndpoint)
}

func (s *NotifyService) Status(ctx context.Context) (*models.SubscriptionStatus, error) {
	return s.api.SubscriptionStatus(ctx)
}
