package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"parcel-delivery-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRiderApplication(t *testing.T) {
	r, db := newTestServer(t)
	tok := tokenFor(t, "r@x.com", models.RoleUser)

	body := map[string]any{
		"name": "Rahim", "email": "r@x.com", "phone": "0170000000",
		"district": "Dhaka", "region": "Dhaka",
	}
	w := doJSON(r, http.MethodPost, "/rider", tok, body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "pending", decode(t, w)["status"])

	var app models.RiderApplication
	require.NoError(t, db.Where("email = ?", "r@x.com").First(&app).Error)
	assert.Equal(t, models.ApplicationPending, app.Status)

	// Duplicate open application is a conflict
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, "/rider", tok, body).Code)

	// Applying with someone else's email is forbidden
	body["email"] = "other@x.com"
	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodPost, "/rider", tok, body).Code)
}

func TestUpdateRiderStatus_ApprovePromotesUser(t *testing.T) {
	r, db := newTestServer(t)
	require.NoError(t, db.Create(&models.User{Email: "r@x.com", Role: models.RoleUser}).Error)
	app := models.RiderApplication{Name: "Rahim", Email: "r@x.com", Phone: "0170000000", District: "Dhaka"}
	require.NoError(t, db.Create(&app).Error)

	admin := adminToken(t, db)
	w := doJSON(r, http.MethodPatch, fmt.Sprintf("/riders/status/%d", app.ID), admin,
		map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["user_role_updated"])

	var user models.User
	require.NoError(t, db.Where("email = ?", "r@x.com").First(&user).Error)
	assert.Equal(t, models.RoleRider, user.Role)

	var reloaded models.RiderApplication
	require.NoError(t, db.First(&reloaded, app.ID).Error)
	assert.Equal(t, models.ApplicationApproved, reloaded.Status)
	assert.NotNil(t, reloaded.ReviewedAt)
}

func TestUpdateRiderStatus_ApprovalWithoutUserRecordIsVisible(t *testing.T) {
	r, db := newTestServer(t)
	app := models.RiderApplication{Name: "Ghost", Email: "ghost@x.com", Phone: "0", District: "Dhaka"}
	require.NoError(t, db.Create(&app).Error)

	admin := adminToken(t, db)
	w := doJSON(r, http.MethodPatch, fmt.Sprintf("/riders/status/%d", app.ID), admin,
		map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	// The approval itself succeeds, but the divergence is reported
	assert.Equal(t, false, decode(t, w)["user_role_updated"])

	var reloaded models.RiderApplication
	require.NoError(t, db.First(&reloaded, app.ID).Error)
	assert.Equal(t, models.ApplicationApproved, reloaded.Status)
}

func TestUpdateRiderStatus_Validation(t *testing.T) {
	r, db := newTestServer(t)
	app := models.RiderApplication{Name: "Rahim", Email: "r@x.com", Phone: "0", District: "Dhaka"}
	require.NoError(t, db.Create(&app).Error)
	admin := adminToken(t, db)

	// Only approved/rejected are acceptable targets
	w := doJSON(r, http.MethodPatch, fmt.Sprintf("/riders/status/%d", app.ID), admin,
		map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNotFound,
		doJSON(r, http.MethodPatch, "/riders/status/999", admin, map[string]any{"status": "rejected"}).Code)

	// Terminal applications cannot be re-reviewed
	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/riders/status/%d", app.ID), admin,
		map[string]any{"status": "rejected"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/riders/status/%d", app.ID), admin,
		map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListRiders_StatusFilter(t *testing.T) {
	r, db := newTestServer(t)
	require.NoError(t, db.Create(&models.RiderApplication{Name: "A", Email: "a@x.com", Phone: "1", District: "Dhaka", Status: models.ApplicationPending}).Error)
	require.NoError(t, db.Create(&models.RiderApplication{Name: "B", Email: "b@x.com", Phone: "2", District: "Dhaka", Status: models.ApplicationApproved}).Error)

	admin := adminToken(t, db)

	w := doJSON(r, http.MethodGet, "/riders", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["count"])

	w = doJSON(r, http.MethodGet, "/riders?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/riders?status=bogus", admin, nil).Code)
}

func TestAvailableRiders_DistrictFilter(t *testing.T) {
	r, db := newTestServer(t)
	require.NoError(t, db.Create(&models.RiderApplication{Name: "A", Email: "a@x.com", Phone: "1", District: "Dhaka", Status: models.ApplicationApproved}).Error)
	require.NoError(t, db.Create(&models.RiderApplication{Name: "B", Email: "b@x.com", Phone: "2", District: "Khulna", Status: models.ApplicationApproved}).Error)
	require.NoError(t, db.Create(&models.RiderApplication{Name: "C", Email: "c@x.com", Phone: "3", District: "Dhaka", Status: models.ApplicationPending}).Error)

	admin := adminToken(t, db)
	w := doJSON(r, http.MethodGet, "/availableriders?district=Dhaka", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["count"])

	w = doJSON(r, http.MethodGet, "/availableriders", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["count"])
}
