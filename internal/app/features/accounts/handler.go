// internal/app/features/accounts/handler.go
package accounts

import (
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/mailer"
	"github.com/agorahub/agorahub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the accounts feature:
// signup, email verification, login, and logout.
type Handler struct {
	DB       *mongo.Database
	SM       *auth.SessionManager
	Mailer   *mailer.Mailer
	Limits   *ratelimit.LoginLimiter
	SiteName string
	BaseURL  string
	Log      *zap.Logger
}

// NewHandler constructs a new accounts Handler. Mailer may be nil in
// tests; signup then skips the verification email.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, m *mailer.Mailer, siteName, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		SM:       sm,
		Mailer:   m,
		Limits:   ratelimit.NewLoginLimiter(),
		SiteName: siteName,
		BaseURL:  baseURL,
		Log:      logger,
	}
}
