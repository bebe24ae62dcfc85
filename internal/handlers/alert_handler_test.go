package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/shaka3507/amanos/internal/models"
)

func (env *testEnv) alertHandler() *AlertHandler {
	return NewAlertHandler(env.alerts, env.groups, env.items, env.messages, env.reactions, env.contacts, env.users, env.notifier, env.hub)
}

func TestCreateAlertFlow(t *testing.T) {
	env := newTestEnv(t)
	handler := env.alertHandler()
	creator := env.createUser(t, "Alma", "alma@example.com")

	c, rec := env.newRequest(t, http.MethodPost, models.CreateAlertRequest{
		Category:         "weather",
		WeatherEventType: "tornado",
	}, creator.ID)

	if err := handler.CreateAlert(c); err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Status = %d, want 201", rec.Code)
	}

	var resp struct {
		Alert models.Alert        `json:"alert"`
		Items []models.CrisisItem `json:"items"`
	}
	decodeBody(t, rec, &resp)

	if resp.Alert.Title != "Tornado Alert" {
		t.Errorf("title = %q, want %q", resp.Alert.Title, "Tornado Alert")
	}
	if resp.Alert.Status != models.AlertStatusActive {
		t.Errorf("status = %q, want active", resp.Alert.Status)
	}
	if len(resp.Items) != len(models.DefaultItemsFor("tornado")) {
		t.Errorf("Expected the default tornado catalog, got %d items", len(resp.Items))
	}

	member, err := env.groups.GetMember(resp.Alert.GroupID, creator.ID)
	if err != nil {
		t.Fatalf("Creator has no membership row: %v", err)
	}
	if member.Role != models.GroupRoleAdmin {
		t.Errorf("Creator role = %q, want admin", member.Role)
	}
}

func TestCreateAlertExplicitItems(t *testing.T) {
	env := newTestEnv(t)
	handler := env.alertHandler()
	creator := env.createUser(t, "Alma", "alma@example.com")

	c, rec := env.newRequest(t, http.MethodPost, models.CreateAlertRequest{
		Category:         "weather",
		WeatherEventType: "flood",
		Title:            "Riverside Flooding",
		Items: []models.CreateItemRequest{
			{Name: "Sandbags", Quantity: 40},
		},
	}, creator.ID)

	if err := handler.CreateAlert(c); err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}

	var resp struct {
		Alert models.Alert        `json:"alert"`
		Items []models.CrisisItem `json:"items"`
	}
	decodeBody(t, rec, &resp)
	if resp.Alert.Title != "Riverside Flooding" {
		t.Errorf("title = %q, want explicit title kept", resp.Alert.Title)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Sandbags" {
		t.Errorf("Expected only the explicit item, got %+v", resp.Items)
	}
}

func TestCreateAlertRejectsBadCategory(t *testing.T) {
	env := newTestEnv(t)
	handler := env.alertHandler()
	creator := env.createUser(t, "Alma", "alma@example.com")

	c, _ := env.newRequest(t, http.MethodPost, models.CreateAlertRequest{
		Category:         "earthquake",
		WeatherEventType: "tornado",
	}, creator.ID)

	wantHTTPError(t, handler.CreateAlert(c), http.StatusBadRequest)
}

func TestGetAlertViewMembership(t *testing.T) {
	env := newTestEnv(t)
	handler := env.alertHandler()
	creator := env.createUser(t, "Alma", "alma@example.com")
	outsider := env.createUser(t, "Oz", "oz@example.com")
	alert, _ := env.createAlert(t, creator.ID, 3)
	alertID := strconv.Itoa(int(alert.ID))

	t.Run("member sees the snapshot with admin flag", func(t *testing.T) {
		c, rec := env.newRequest(t, http.MethodGet, nil, creator.ID, "id", alertID)
		if err := handler.GetAlertView(c); err != nil {
			t.Fatalf("GetAlertView failed: %v", err)
		}
		var view models.AlertView
		decodeBody(t, rec, &view)
		if !view.IsAdmin {
			t.Error("Creator should be flagged as admin")
		}
		if len(view.Items) != 1 {
			t.Errorf("Expected 1 item, got %d", len(view.Items))
		}
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		c, _ := env.newRequest(t, http.MethodGet, nil, outsider.ID, "id", alertID)
		wantHTTPError(t, handler.GetAlertView(c), http.StatusForbidden)
	})

	t.Run("unknown alert is 404", func(t *testing.T) {
		c, _ := env.newRequest(t, http.MethodGet, nil, creator.ID, "id", "9999")
		wantHTTPError(t, handler.GetAlertView(c), http.StatusNotFound)
	})

	t.Run("missing session is 401", func(t *testing.T) {
		c, _ := env.newRequest(t, http.MethodGet, nil, 0, "id", alertID)
		wantHTTPError(t, handler.GetAlertView(c), http.StatusUnauthorized)
	})
}

func TestUpdateAlertStatusCreatorOnly(t *testing.T) {
	env := newTestEnv(t)
	handler := env.alertHandler()
	creator := env.createUser(t, "Alma", "alma@example.com")
	member := env.createUser(t, "Benny", "benny@example.com")
	alert, _ := env.createAlert(t, creator.ID, 1)
	env.addMember(t, alert.GroupID, member.ID, models.GroupRoleMember)
	alertID := strconv.Itoa(int(alert.ID))

	c, _ := env.newRequest(t, http.MethodPatch, models.UpdateAlertStatusRequest{Status: models.AlertStatusPast}, member.ID, "id", alertID)
	wantHTTPError(t, handler.UpdateAlertStatus(c), http.StatusForbidden)

	c, rec := env.newRequest(t, http.MethodPatch, models.UpdateAlertStatusRequest{Status: models.AlertStatusPast}, creator.ID, "id", alertID)
	if err := handler.UpdateAlertStatus(c); err != nil {
		t.Fatalf("UpdateAlertStatus failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	got, err := env.alerts.GetAlertByID(alert.ID)
	if err != nil {
		t.Fatalf("GetAlertByID failed: %v", err)
	}
	if got.Status != models.AlertStatusPast {
		t.Errorf("status = %q, want past", got.Status)
	}
}

func TestListAlertsScopedToMembership(t *testing.T) {
	env := newTestEnv(t)
	handler := env.alertHandler()
	creator := env.createUser(t, "Alma", "alma@example.com")
	other := env.createUser(t, "Oz", "oz@example.com")
	env.createAlert(t, creator.ID, 1)
	env.createAlert(t, other.ID, 1)

	c, rec := env.newRequest(t, http.MethodGet, nil, creator.ID)
	if err := handler.ListAlerts(c); err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	var resp struct {
		Alerts []models.Alert `json:"alerts"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(resp.Alerts))
	}
	if resp.Alerts[0].CreatedBy != creator.ID {
		t.Error("Listing leaked another user's alert")
	}
}
