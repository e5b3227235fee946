package motorhall

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/motorhall/motorhall/query"
	"github.com/motorhall/motorhall/schema"
	"github.com/stretchr/testify/require"
)

func createAdminRouter(t *testing.T) *gin.Engine {
	t.Helper()

	router := gin.New()

	cnt.Auth().SetupRouter(router)

	adminREST, err := cnt.AdminREST()
	require.NoError(t, err)

	adminREST.SetupRouter(router)

	return router
}

func adminRequest(t *testing.T, action AdminAction, payload any) *http.Request {
	t.Helper()

	rawPayload, err := json.Marshal(payload)
	require.NoError(t, err)

	body, err := json.Marshal(AdminCommand{Action: action, Payload: rawPayload})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin", bytes.NewReader(body))
	req.Header.Add("Authorization", "Bearer "+cnt.Config().Admin.Password)

	return req
}

func TestLogin(t *testing.T) {
	t.Parallel()

	router := createAdminRouter(t)

	body := fmt.Sprintf(`{"password": %q}`, cnt.Config().Admin.Password)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(
		http.MethodPost, "/api/login", bytes.NewReader([]byte(`{"password": "wrong"}`)),
	))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	t.Parallel()

	router := createAdminRouter(t)

	req := httptest.NewRequest(
		http.MethodPost, "/api/admin",
		bytes.NewReader([]byte(`{"action": "site-config.list"}`)),
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminUnknownAction(t *testing.T) {
	t.Parallel()

	router := createAdminRouter(t)

	req := adminRequest(t, "vehicle.explode", IDPayload{ID: 1})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminVehicleLifecycle(t *testing.T) {
	t.Parallel()

	router := createAdminRouter(t)

	req := adminRequest(t, AdminActionVehicleCreate, VehiclePayload{
		Make:  "Subaru",
		Model: "Outback",
		Year:  2021,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		ID int64 `json:"id"`
	}

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	sold := true
	req = adminRequest(t, AdminActionVehicleUpdate, VehicleUpdatePayload{ID: created.ID, Sold: &sold})

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Sold bool `json:"sold"`
	}

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.True(t, updated.Sold)

	req = adminRequest(t, AdminActionVehicleDelete, IDPayload{ID: created.ID})

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// the row is gone now
	req = adminRequest(t, AdminActionVehicleUpdate, VehicleUpdatePayload{ID: created.ID, Sold: &sold})

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminReviewModeration(t *testing.T) {
	t.Parallel()

	router := createAdminRouter(t)

	reviewsRepository, err := cnt.ReviewsRepository()
	require.NoError(t, err)

	reviewID, err := reviewsRepository.Create(testContext(t), &schema.ReviewRow{
		Author:  "Moderated Author",
		Rating:  4,
		Message: "great experience",
	})
	require.NoError(t, err)

	// hidden reviews are only reachable through the admin listing
	req := adminRequest(t, AdminActionReviewList, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Items []struct {
			ID      int64 `json:"id"`
			Visible bool  `json:"visible"`
		} `json:"items"`
	}

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))

	found := false

	for _, item := range listed.Items {
		if item.ID == reviewID {
			found = true

			require.False(t, item.Visible)
		}
	}

	require.True(t, found)

	req = adminRequest(t, AdminActionReviewSetVisible, ReviewVisiblePayload{ID: reviewID, Visible: true})

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	row, err := reviewsRepository.Review(testContext(t), &query.ReviewListOptions{ID: reviewID, OnlyVisible: true})
	require.NoError(t, err)
	require.True(t, row.Visible)

	req = adminRequest(t, AdminActionReviewDelete, IDPayload{ID: reviewID})

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminConsignmentListCountAndLimit(t *testing.T) {
	t.Parallel()

	router := createAdminRouter(t)

	consignmentsRepository, err := cnt.ConsignmentsRepository()
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = consignmentsRepository.Create(testContext(t), &schema.ConsignmentRow{
			Make:      "Honda",
			Model:     "Civic",
			Year:      2018,
			OwnerName: "List Owner",
		})
		require.NoError(t, err)
	}

	req := adminRequest(t, AdminActionConsignmentList, ConsignmentListPayload{Limit: 1})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Items []json.RawMessage `json:"items"`
		Count int               `json:"count"`
	}

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Items, 1)
	require.GreaterOrEqual(t, listed.Count, 2)
}

func TestAdminConsignmentWorkflowFieldClearing(t *testing.T) {
	t.Parallel()

	router := createAdminRouter(t)

	consignmentsRepository, err := cnt.ConsignmentsRepository()
	require.NoError(t, err)

	id, err := consignmentsRepository.Create(testContext(t), &schema.ConsignmentRow{
		Make:      "Mazda",
		Model:     "CX-5",
		Year:      2020,
		OwnerName: "Clearing Owner",
	})
	require.NoError(t, err)

	payload := fmt.Sprintf(
		`{"id": %d, "appraisal_value": "15600.00", "inspection_checklist": {"brakes": "ok"}}`, id,
	)
	req := adminRequest(t, AdminActionConsignmentUpdate, json.RawMessage(payload))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated map[string]any

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Contains(t, updated, "appraisal_value")
	require.Contains(t, updated, "inspection_checklist")

	// explicit nulls clear the columns, absent fields leave them alone
	payload = fmt.Sprintf(`{"id": %d, "appraisal_value": null, "inspection_checklist": null}`, id)
	req = adminRequest(t, AdminActionConsignmentUpdate, json.RawMessage(payload))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cleared map[string]any

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cleared))
	require.NotContains(t, cleared, "appraisal_value")
	require.NotContains(t, cleared, "inspection_checklist")
}

func TestAdminMissingPayload(t *testing.T) {
	t.Parallel()

	router := createAdminRouter(t)

	req := httptest.NewRequest(
		http.MethodPost, "/api/admin",
		bytes.NewReader([]byte(`{"action": "vehicle.delete"}`)),
	)
	req.Header.Add("Authorization", "Bearer "+cnt.Config().Admin.Password)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
