package httpserver

import (
	"context"
	"io"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/server/services"
	"github.com/dmitrijs2005/learnjournal/internal/streak"
)

// The interfaces below are the slices of the services package each route
// group depends on.

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type EntryService interface {
	Create(ctx context.Context, userID string, in services.EntryInput) (*models.Entry, error)
	Get(ctx context.Context, userID, id string) (*models.Entry, error)
	List(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.Entry, error)
	Update(ctx context.Context, userID, id string, in services.EntryInput) (*models.Entry, error)
	Delete(ctx context.Context, userID, id string) error
}

type TopicService interface {
	List(ctx context.Context, userID string) ([]models.Topic, error)
	Create(ctx context.Context, userID, name, color string) (*models.Topic, error)
	Delete(ctx context.Context, userID, id string) error
}

type TagService interface {
	List(ctx context.Context, userID string) ([]models.Tag, error)
	Create(ctx context.Context, userID, name string) (*models.Tag, error)
	Delete(ctx context.Context, userID, id string) error
}

type StreakService interface {
	Stats(ctx context.Context, userID string) (streak.Stats, error)
	Window(ctx context.Context, userID string, days int) ([]streak.Day, error)
}

type FavoriteService interface {
	List(ctx context.Context, userID string) ([]models.FavoriteQuestion, error)
	Add(ctx context.Context, userID string, in services.FavoriteInput) (*models.FavoriteQuestion, error)
	Remove(ctx context.Context, userID, id string) error
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, userID string, in services.SubscriptionInput) (*models.PushSubscription, error)
	Unsubscribe(ctx context.Context, userID, endpoint string) error
	Status(ctx context.Context, userID string) (*services.SubscriptionStatus, error)
}

type ReminderService interface {
	Check(ctx context.Context) (*services.ReminderResult, error)
}

type ExportService interface {
	Export(ctx context.Context, userID string) (*models.Export, error)
}

type AssistantService interface {
	Stream(ctx context.Context, req *assistant.Request) (io.ReadCloser, error)
	InterviewPrep(ctx context.Context, req *assistant.Request) (*assistant.InterviewPrep, error)
}

// Services groups the dependencies of the router. Nil members leave their
// routes unregistered.
type Services struct {
	Users         UserService
	Entries       EntryService
	Topics        TopicService
	Tags          TagService
	Streak        StreakService
	Favorites     FavoriteService
	Subscriptions SubscriptionService
	Reminders     ReminderService
	Export        ExportService
	Assistant     AssistantService
}
