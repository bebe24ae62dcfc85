package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shaka3507/amanos/internal/feed"
	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/internal/notify"
	"github.com/shaka3507/amanos/internal/repositories"
	"github.com/shaka3507/amanos/validators"
)

// recordingSender captures outbound emails instead of delivering them.
type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Email
}

func (s *recordingSender) Send(_ context.Context, email notify.Email) error {
	s.mu.Lock()
	s.sent = append(s.sent, email)
	s.mu.Unlock()
	return nil
}

type testEnv struct {
	e           *echo.Echo
	db          *gorm.DB
	users       repositories.UserRepository
	groups      repositories.GroupRepository
	alerts      repositories.AlertRepository
	items       repositories.ItemRepository
	messages    repositories.MessageRepository
	reactions   repositories.ReactionRepository
	invitations repositories.InvitationRepository
	contacts    repositories.ContactRepository
	sender      *recordingSender
	notifier    *notify.Notifier
	hub         *feed.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "amanos-handlers-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := gorm.Open(sqlite.Open(filepath.Join(tempDir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Alert{},
		&models.CrisisItem{},
		&models.ItemClaim{},
		&models.AlertMessage{},
		&models.MessageReaction{},
		&models.AlertInvitation{},
		&models.EmergencyContact{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	env := &testEnv{
		e:           e,
		db:          db,
		users:       repositories.NewPostgresUserRepository(db),
		groups:      repositories.NewPostgresGroupRepository(db),
		alerts:      repositories.NewPostgresAlertRepository(db),
		items:       repositories.NewPostgresItemRepository(db),
		messages:    repositories.NewPostgresMessageRepository(db),
		reactions:   repositories.NewPostgresReactionRepository(db),
		invitations: repositories.NewPostgresInvitationRepository(db),
		contacts:    repositories.NewPostgresContactRepository(db),
		sender:      &recordingSender{},
		hub:         feed.NewHub(),
	}
	env.notifier = notify.NewNotifier(env.users, env.groups, env.contacts, nil, env.sender, "http://localhost:3000")
	return env
}

// newNotifierWithSender builds a notifier backed by an unconfigured
// Mailgun sender, for exercising the not-configured paths.
func newNotifierWithSender(env *testEnv) *notify.Notifier {
	return notify.NewNotifier(env.users, env.groups, env.contacts, nil,
		notify.NewMailgunSender("", "", "Amanos <alerts@amanos.app>"), "http://localhost:3000")
}

// newRequest builds an echo context with an optional JSON body, an
// authenticated user (userID 0 leaves the session unset) and path
// params given as alternating name/value pairs.
func (env *testEnv) newRequest(t *testing.T, method string, body interface{}, userID uint, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, "/", reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)

	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func (env *testEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{FullName: name, Email: email, Role: models.SiteRoleUser}
	if err := env.users.CreateUser(user); err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// createAlert seeds a group, an alert created by the given user, the
// creator's admin membership, and one claimable item.
func (env *testEnv) createAlert(t *testing.T, creatorID uint, quantity int) (*models.Alert, *models.CrisisItem) {
	t.Helper()

	group := &models.Group{CreatedBy: creatorID}
	if err := env.groups.CreateGroup(group); err != nil {
		t.Fatalf("Failed to create group: %v", err)
	}
	alert := &models.Alert{
		GroupID:   group.ID,
		Title:     "Tornado Alert",
		Status:    models.AlertStatusActive,
		CreatedBy: creatorID,
	}
	if err := env.alerts.CreateAlert(alert); err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}
	if err := env.groups.AddMember(&models.GroupMember{GroupID: group.ID, UserID: creatorID, Role: models.GroupRoleAdmin}); err != nil {
		t.Fatalf("Failed to add creator membership: %v", err)
	}

	if err := env.items.CreateItems([]models.CrisisItem{{AlertID: alert.ID, Name: "Water Bottles", Quantity: quantity}}); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	items, err := env.items.GetItemsByAlertID(alert.ID)
	if err != nil {
		t.Fatalf("Failed to load items: %v", err)
	}
	return alert, &items[0]
}

func (env *testEnv) addMember(t *testing.T, groupID, userID uint, role string) {
	t.Helper()
	if err := env.groups.AddMember(&models.GroupMember{GroupID: groupID, UserID: userID, Role: role}); err != nil {
		t.Fatalf("Failed to add member: %v", err)
	}
}

// wantHTTPError asserts that a handler returned an *echo.HTTPError with
// the given status code.
func wantHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected *echo.HTTPError with code %d, got %v", code, err)
	}
	if httpErr.Code != code {
		t.Fatalf("Status = %d, want %d (message: %v)", httpErr.Code, code, httpErr.Message)
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", rec.Body.String(), err)
	}
}
