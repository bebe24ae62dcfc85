package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shaka3507/amanos/internal/models"
)

func (env *testEnv) invitationHandler() *InvitationHandler {
	return NewInvitationHandler(env.invitations, env.groups, env.alerts)
}

func (env *testEnv) seedInvitation(t *testing.T, alert *models.Alert) *models.AlertInvitation {
	t.Helper()
	invitation := &models.AlertInvitation{
		AlertID:   alert.ID,
		GroupID:   alert.GroupID,
		Name:      "Dana",
		Email:     "dana@example.com",
		InvitedBy: alert.CreatedBy,
		Token:     uuid.NewString(),
		Status:    models.InvitationStatusPending,
	}
	if err := env.invitations.CreateInvitation(invitation); err != nil {
		t.Fatalf("CreateInvitation failed: %v", err)
	}
	return invitation
}

// acceptRequest builds a context whose token rides in the query string,
// the way the join page calls the endpoint.
func (env *testEnv) acceptRequest(userID uint, token string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/?token="+token, strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func TestPreviewInvitation(t *testing.T) {
	env := newTestEnv(t)
	handler := env.invitationHandler()
	creator := env.createUser(t, "Alma", "alma@example.com")
	alert, _ := env.createAlert(t, creator.ID, 1)
	invitation := env.seedInvitation(t, alert)

	c, rec := env.newRequest(t, http.MethodGet, nil, 0, "token", invitation.Token)
	if err := handler.PreviewInvitation(c); err != nil {
		t.Fatalf("PreviewInvitation failed: %v", err)
	}

	var preview models.InvitationPreview
	decodeBody(t, rec, &preview)
	if preview.AlertID != alert.ID || preview.AlertTitle != alert.Title {
		t.Errorf("preview = %+v, want alert %d %q", preview, alert.ID, alert.Title)
	}
	if preview.Status != models.InvitationStatusPending {
		t.Errorf("status = %q, want pending", preview.Status)
	}
}

func TestPreviewInvitationUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	handler := env.invitationHandler()

	c, _ := env.newRequest(t, http.MethodGet, nil, 0, "token", "bogus")
	wantHTTPError(t, handler.PreviewInvitation(c), http.StatusNotFound)
}

func TestAcceptInvitationIdempotent(t *testing.T) {
	env := newTestEnv(t)
	handler := env.invitationHandler()
	creator := env.createUser(t, "Alma", "alma@example.com")
	joiner := env.createUser(t, "Dana", "dana@example.com")
	alert, _ := env.createAlert(t, creator.ID, 1)
	invitation := env.seedInvitation(t, alert)

	t.Run("first accept joins the group", func(t *testing.T) {
		c, rec := env.acceptRequest(joiner.ID, invitation.Token)
		if err := handler.AcceptInvitation(c); err != nil {
			t.Fatalf("AcceptInvitation failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}

		member, err := env.groups.GetMember(alert.GroupID, joiner.ID)
		if err != nil {
			t.Fatalf("Joiner has no membership: %v", err)
		}
		if member.Role != models.GroupRoleMember {
			t.Errorf("role = %q, want member", member.Role)
		}

		got, err := env.invitations.GetByToken(invitation.Token)
		if err != nil {
			t.Fatalf("GetByToken failed: %v", err)
		}
		if got.Status != models.InvitationStatusAccepted {
			t.Errorf("status = %q, want accepted", got.Status)
		}
	})

	t.Run("second accept performs no writes", func(t *testing.T) {
		c, rec := env.acceptRequest(joiner.ID, invitation.Token)
		if err := handler.AcceptInvitation(c); err != nil {
			t.Fatalf("Second AcceptInvitation failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}

		var resp struct {
			AlertID uint   `json:"alert_id"`
			Status  string `json:"status"`
		}
		decodeBody(t, rec, &resp)
		if resp.AlertID != alert.ID {
			t.Errorf("alert_id = %d, want %d", resp.AlertID, alert.ID)
		}

		members, err := env.groups.GetMembers(alert.GroupID)
		if err != nil {
			t.Fatalf("GetMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("Expected 2 members (creator + joiner), got %d", len(members))
		}
	})
}

func TestAcceptInvitationUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	handler := env.invitationHandler()
	user := env.createUser(t, "Dana", "dana@example.com")

	c, _ := env.acceptRequest(user.ID, "bogus")
	wantHTTPError(t, handler.AcceptInvitation(c), http.StatusNotFound)
}

func TestAcceptInvitationMissingToken(t *testing.T) {
	env := newTestEnv(t)
	handler := env.invitationHandler()
	user := env.createUser(t, "Dana", "dana@example.com")

	c, _ := env.newRequest(t, http.MethodPost, nil, user.ID)
	wantHTTPError(t, handler.AcceptInvitation(c), http.StatusBadRequest)
}
