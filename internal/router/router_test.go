package router_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tamuuh/tamuuh-api/internal/auth"
	"github.com/tamuuh/tamuuh-api/internal/dashboard"
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"github.com/tamuuh/tamuuh-api/internal/media"
	"github.com/tamuuh/tamuuh-api/internal/router"
	"github.com/tamuuh/tamuuh-api/internal/savings"
	"github.com/tamuuh/tamuuh-api/internal/testutil"
	"github.com/tamuuh/tamuuh-api/internal/user"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	os.Setenv("JWT_SECRET", "router-test-secret-key")
	auth.Init()

	db := testutil.OpenDB(t)
	store, err := media.NewStore(t.TempDir())
	require.NoError(t, err)

	userC := user.NewUserContainer(db, "")
	goalC := goal.NewGoalContainer(db, store)
	savingsC := savings.NewSavingsContainer(db, goalC.Repo)
	dashC := dashboard.NewDashboardContainer(db)

	return router.New(router.RouterConfig{
		UserHandler:      userC.Handler,
		GoalHandler:      goalC.Handler,
		SavingsHandler:   savingsC.Handler,
		DashboardHandler: dashC.Handler,
		MediaRoot:        store.Root(),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body io.Reader, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, h http.Handler, email string) *http.Cookie {
	t.Helper()

	signup := `{"name":"Test","email":"` + email + `","password":"hunter22"}`
	rec := do(t, h, http.MethodPost, "/auth/signup", strings.NewReader(signup), "application/json", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	login := `{"email":"` + email + `","password":"hunter22"}`
	rec = do(t, h, http.MethodPost, "/auth/login", strings.NewReader(login), "application/json", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "jwt" {
			return cookie
		}
	}
	t.Fatal("login did not set the jwt cookie")
	return nil
}

func createGoalForm(t *testing.T, title, target string, imageNames []string) (io.Reader, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("target_amount", target))

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	for _, name := range imageNames {
		part, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(img.Bytes())
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestGoalLifecycleOverHTTP(t *testing.T) {
	h := newTestServer(t)
	alice := loginAs(t, h, "alice@example.com")
	bob := loginAs(t, h, "bob@example.com")

	// Create a goal with two images.
	form, contentType := createGoalForm(t, "New Laptop", "1000", []string{"a.png", "b.png"})
	rec := do(t, h, http.MethodPost, "/goals", form, contentType, alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created goal.GoalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.Images, 2)

	goalPath := "/goals/" + created.ID.String()

	// Stored image is served under /media.
	rec = do(t, h, http.MethodGet, "/media/"+created.Images[0].Filename, nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Deposit twice; the second proves overshoot and clamping.
	rec = do(t, h, http.MethodPost, goalPath+"/deposits",
		strings.NewReader(`{"amount":250,"note":"birthday gift"}`), "application/json", alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, goalPath+"/deposits",
		strings.NewReader(`{"amount":900}`), "application/json", alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, goalPath, nil, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched goal.GoalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	require.Equal(t, "1150", fetched.SavedAmount.String())
	require.Equal(t, float64(100), fetched.ProgressPercentage)
	require.True(t, fetched.RemainingAmount.IsZero())

	// Bad deposit amounts are rejected.
	rec = do(t, h, http.MethodPost, goalPath+"/deposits",
		strings.NewReader(`{"amount":-1}`), "application/json", alice)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Bob cannot read, mutate, or delete Alice's goal.
	rec = do(t, h, http.MethodGet, goalPath, nil, "", bob)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(t, h, http.MethodPost, goalPath+"/deposits",
		strings.NewReader(`{"amount":10}`), "application/json", bob)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(t, h, http.MethodDelete, goalPath, nil, "", bob)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Update one mutable field; anything else is a 400.
	rec = do(t, h, http.MethodPatch, goalPath,
		strings.NewReader(`{"field":"motivational_quote","value":"almost there"}`), "application/json", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPatch, goalPath,
		strings.NewReader(`{"field":"saved_amount","value":"1"}`), "application/json", alice)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Dashboard reflects committed state.
	rec = do(t, h, http.MethodGet, "/dashboard/summary", nil, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary dashboard.SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, "1150", summary.TotalSavings.String())
	require.EqualValues(t, 1, summary.ActiveGoals)

	// Delete tears the goal down; it is gone afterwards.
	rec = do(t, h, http.MethodDelete, goalPath, nil, "", alice)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, goalPath, nil, "", alice)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Unauthenticated callers never reach the goal surface.
	rec = do(t, h, http.MethodGet, "/goals", nil, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
