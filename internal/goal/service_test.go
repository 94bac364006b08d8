package goal_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"github.com/tamuuh/tamuuh-api/internal/media"
	"github.com/tamuuh/tamuuh-api/internal/savings"
	"github.com/tamuuh/tamuuh-api/internal/testutil"
	"gorm.io/gorm"
)

type upload struct {
	name string
	data []byte
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// fileHeaders round-trips uploads through a real multipart form so the
// service sees what an HTTP handler would hand it.
func fileHeaders(t *testing.T, uploads []upload) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, u := range uploads {
		part, err := mw.CreateFormFile("images", u.name)
		require.NoError(t, err)
		_, err = part.Write(u.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["images"]
}

func newService(t *testing.T) (goal.Service, *gorm.DB, *media.Store) {
	t.Helper()
	db := testutil.OpenDB(t)
	store, err := media.NewStore(t.TempDir())
	require.NoError(t, err)
	return goal.NewService(goal.NewRepository(db), store), db, store
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("BasicGoal", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")

		resp, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{
			Title:        "New Laptop",
			TargetAmount: "1000",
		}, nil)
		require.NoError(t, err)
		require.Equal(t, "New Laptop", resp.Title)
		require.True(t, resp.TargetAmount.Equal(decimal.NewFromInt(1000)))
		require.True(t, resp.SavedAmount.IsZero())
		require.Zero(t, resp.ProgressPercentage)
		require.Empty(t, resp.Images)
	})

	t.Run("BadTargetAmountBecomesZero", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")

		for _, raw := range []string{"", "not-a-number", "-50"} {
			resp, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{
				Title:        "Odd Target",
				TargetAmount: raw,
			}, nil)
			require.NoError(t, err, "target %q", raw)
			require.True(t, resp.TargetAmount.IsZero(), "target %q", raw)
			require.Zero(t, resp.ProgressPercentage, "zero target must not divide")
			require.True(t, resp.RemainingAmount.IsZero())
		}
	})

	t.Run("BlankOptionalFieldsStoreNull", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")

		resp, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{
			Title:             "Trip",
			TargetAmount:      "500",
			MotivationalQuote: "   ",
			Description:       "",
		}, nil)
		require.NoError(t, err)
		require.Nil(t, resp.MotivationalQuote)
		require.Nil(t, resp.Description)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")

		_, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{TargetAmount: "100"}, nil)
		require.ErrorIs(t, err, goal.ErrMissingTitle)
	})

	t.Run("CapsAtThreeImagesSkippingInvalid", func(t *testing.T) {
		svc, db, store := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")

		valid := pngBytes(t, 10, 10)
		files := fileHeaders(t, []upload{
			{"a.png", valid},
			{"notes.txt", []byte("not an image")},
			{"b.png", valid},
			{"c.png", valid},
			{"d.png", valid},
		})

		resp, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{
			Title:        "Gallery",
			TargetAmount: "100",
		}, files)
		require.NoError(t, err)
		require.Len(t, resp.Images, 3, "first three valid uploads only")

		require.Equal(t, "a.png", resp.Images[0].OriginalFilename)
		require.Equal(t, "b.png", resp.Images[1].OriginalFilename)
		require.Equal(t, "c.png", resp.Images[2].OriginalFilename)
		// Position keeps the submitted index, so it skips the bad entry.
		require.Equal(t, []int{0, 2, 3}, []int{
			resp.Images[0].Position,
			resp.Images[1].Position,
			resp.Images[2].Position,
		})

		for _, img := range resp.Images {
			require.NotEqual(t, img.OriginalFilename, img.Filename)
			_, err := os.Stat(store.Path(img.Filename))
			require.NoError(t, err, "stored file must exist")
		}

		var count int64
		require.NoError(t, db.Model(&goal.GoalImage{}).Where("goal_id = ?", resp.ID).Count(&count).Error)
		require.EqualValues(t, 3, count)
	})

	t.Run("AllImagesInvalidStillCreatesGoal", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")

		files := fileHeaders(t, []upload{
			{"nope.txt", []byte("x")},
			{"fake.png", []byte("not png data")},
		})

		resp, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{
			Title:        "No Pictures",
			TargetAmount: "100",
		}, files)
		require.NoError(t, err)
		require.Empty(t, resp.Images)
	})

	t.Run("RollsBackGoalWhenImageRowFails", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")

		require.NoError(t, db.Migrator().DropTable(&goal.GoalImage{}))

		files := fileHeaders(t, []upload{{"a.png", pngBytes(t, 10, 10)}})
		_, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{
			Title:        "Doomed",
			TargetAmount: "100",
		}, files)
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&goal.Goal{}).Count(&count).Error)
		require.Zero(t, count, "goal row must not survive a failed image insert")
	})
}

func TestUpdateField(t *testing.T) {
	ctx := context.Background()

	t.Run("MutableFields", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")
		g := testutil.SeedGoal(t, db, owner.ID, "Trip", "500")

		resp, err := svc.UpdateField(ctx, g.ID, owner.ID, goal.UpdateGoalFieldDTO{
			Field: "motivational_quote",
			Value: "keep going",
		})
		require.NoError(t, err)
		require.NotNil(t, resp.MotivationalQuote)
		require.Equal(t, "keep going", *resp.MotivationalQuote)

		resp, err = svc.UpdateField(ctx, g.ID, owner.ID, goal.UpdateGoalFieldDTO{
			Field: "description",
			Value: "two weeks in Lisbon",
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Description)
	})

	t.Run("BlankValueStoresNull", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")
		g := testutil.SeedGoal(t, db, owner.ID, "Trip", "500")

		_, err := svc.UpdateField(ctx, g.ID, owner.ID, goal.UpdateGoalFieldDTO{
			Field: "description",
			Value: "something",
		})
		require.NoError(t, err)

		resp, err := svc.UpdateField(ctx, g.ID, owner.ID, goal.UpdateGoalFieldDTO{
			Field: "description",
			Value: "   ",
		})
		require.NoError(t, err)
		require.Nil(t, resp.Description)
	})

	t.Run("RejectsOtherFields", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")
		g := testutil.SeedGoal(t, db, owner.ID, "Trip", "500")

		for _, field := range []string{"saved_amount", "target_amount", "title", ""} {
			_, err := svc.UpdateField(ctx, g.ID, owner.ID, goal.UpdateGoalFieldDTO{
				Field: field,
				Value: "1000000",
			})
			require.ErrorIs(t, err, goal.ErrInvalidField, "field %q", field)
		}
	})

	t.Run("DeniesNonOwner", func(t *testing.T) {
		svc, db, _ := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")
		stranger := testutil.SeedUser(t, db, "bob@example.com")
		g := testutil.SeedGoal(t, db, owner.ID, "Trip", "500")

		_, err := svc.UpdateField(ctx, g.ID, stranger.ID, goal.UpdateGoalFieldDTO{
			Field: "description",
			Value: "mine now",
		})
		require.ErrorIs(t, err, goal.ErrAccessDenied)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesFilesAndRows", func(t *testing.T) {
		svc, db, store := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")

		files := fileHeaders(t, []upload{
			{"a.png", pngBytes(t, 10, 10)},
			{"b.png", pngBytes(t, 10, 10)},
		})
		resp, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{
			Title:        "Gallery",
			TargetAmount: "100",
		}, files)
		require.NoError(t, err)
		require.Len(t, resp.Images, 2)

		// A deposit, so the cascade has a ledger row to remove too.
		txn := savings.Transaction{GoalID: resp.ID, Amount: decimal.NewFromInt(10)}
		require.NoError(t, db.Create(&txn).Error)

		require.NoError(t, svc.Delete(ctx, resp.ID, owner.ID))

		for _, img := range resp.Images {
			_, err := os.Stat(store.Path(img.Filename))
			require.True(t, os.IsNotExist(err), "backing file must be removed")
		}

		var goals, images, txns int64
		require.NoError(t, db.Model(&goal.Goal{}).Count(&goals).Error)
		require.NoError(t, db.Model(&goal.GoalImage{}).Count(&images).Error)
		require.NoError(t, db.Model(&savings.Transaction{}).Count(&txns).Error)
		require.Zero(t, goals)
		require.Zero(t, images)
		require.Zero(t, txns)
	})

	t.Run("MissingBackingFileIsNotFatal", func(t *testing.T) {
		svc, db, store := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")

		files := fileHeaders(t, []upload{{"a.png", pngBytes(t, 10, 10)}})
		resp, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{
			Title:        "Gallery",
			TargetAmount: "100",
		}, files)
		require.NoError(t, err)
		require.NoError(t, os.Remove(store.Path(resp.Images[0].Filename)))

		require.NoError(t, svc.Delete(ctx, resp.ID, owner.ID))
	})

	t.Run("DeniesNonOwnerWithoutMutation", func(t *testing.T) {
		svc, db, store := newService(t)
		owner := testutil.SeedUser(t, db, "alice@example.com")
		stranger := testutil.SeedUser(t, db, "bob@example.com")

		files := fileHeaders(t, []upload{{"a.png", pngBytes(t, 10, 10)}})
		resp, err := svc.Create(ctx, owner.ID, goal.CreateGoalInput{
			Title:        "Gallery",
			TargetAmount: "100",
		}, files)
		require.NoError(t, err)

		err = svc.Delete(ctx, resp.ID, stranger.ID)
		require.ErrorIs(t, err, goal.ErrAccessDenied)

		var count int64
		require.NoError(t, db.Model(&goal.Goal{}).Count(&count).Error)
		require.EqualValues(t, 1, count)
		_, err = os.Stat(filepath.Join(store.Root(), resp.Images[0].Filename))
		require.NoError(t, err, "files must survive a denied delete")
	})
}

func TestGetAndList(t *testing.T) {
	ctx := context.Background()

	svc, db, _ := newService(t)
	owner := testutil.SeedUser(t, db, "alice@example.com")
	stranger := testutil.SeedUser(t, db, "bob@example.com")
	g := testutil.SeedGoal(t, db, owner.ID, "Trip", "500")
	testutil.SeedGoal(t, db, stranger.ID, "Other", "100")

	resp, err := svc.Get(ctx, g.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, g.ID, resp.ID)

	_, err = svc.Get(ctx, g.ID, stranger.ID)
	require.ErrorIs(t, err, goal.ErrAccessDenied)

	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1, "only the caller's goals")
}
