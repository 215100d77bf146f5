package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const planNS = "study_craft.study_plans"

func mockOpts() *mtest.Options {
	return mtest.NewOptions().ClientType(mtest.Mock)
}

// sentFilter returns the query document of the first write statement
// (updates/deletes) of the most recent command.
func sentFilter(mt *mtest.T, batchKey string) bson.Raw {
	mt.Helper()
	evt := mt.GetStartedEvent()
	if evt == nil {
		mt.Fatal("no command was sent")
	}
	return evt.Command.Lookup(batchKey).Array().Index(0).Value().Document().Lookup("q").Document()
}

func TestStudyPlanDeleteOwned(t *testing.T) {
	mt := mtest.New(t, mockOpts())
	ctx := context.Background()
	planID := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	mt.Run("deleted", func(mt *mtest.T) {
		repo := NewMongoStudyPlanRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := repo.DeleteOwned(ctx, planID, owner); err != nil {
			mt.Fatalf("DeleteOwned: %v", err)
		}
		q := sentFilter(mt, "deletes")
		if got := q.Lookup("userId").ObjectID(); got != owner {
			mt.Errorf("delete filter userId = %s, want %s", got.Hex(), owner.Hex())
		}
		if got := q.Lookup("_id").ObjectID(); got != planID {
			mt.Errorf("delete filter _id = %s, want %s", got.Hex(), planID.Hex())
		}
	})

	mt.Run("other owner", func(mt *mtest.T) {
		repo := NewMongoStudyPlanRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateCursorResponse(0, planNS, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: planID},
				{Key: "userId", Value: primitive.NewObjectID()},
			}),
		)
		if err := repo.DeleteOwned(ctx, planID, owner); !errors.Is(err, repository.ErrForbidden) {
			mt.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewMongoStudyPlanRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateCursorResponse(0, planNS, mtest.FirstBatch),
		)
		if err := repo.DeleteOwned(ctx, planID, owner); !errors.Is(err, repository.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStudyPlanUpdateProgressForeignPlan(t *testing.T) {
	mt := mtest.New(t, mockOpts())

	mt.Run("foreign", func(mt *mtest.T) {
		repo := NewMongoStudyPlanRepository(mt.DB)
		planID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, planNS, mtest.FirstBatch, bson.D{{Key: "_id", Value: planID}}),
		)
		err := repo.UpdateProgress(context.Background(), planID, primitive.NewObjectID(), 40)
		if !errors.Is(err, repository.ErrForbidden) {
			mt.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestStudyPlanCreateDuplicate(t *testing.T) {
	mt := mtest.New(t, mockOpts())

	mt.Run("duplicate key", func(mt *mtest.T) {
		repo := NewMongoStudyPlanRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: study_craft.study_plans index: uniq_active_subject",
		}))
		_, err := repo.Create(context.Background(), &domain.StudyPlan{
			UserID:            primitive.NewObjectID(),
			NormalizedSubject: "linear algebra",
			IsActive:          true,
		})
		if !errors.Is(err, repository.ErrDuplicate) {
			mt.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})
}

func TestStudyPlanDeactivateExpired(t *testing.T) {
	mt := mtest.New(t, mockOpts())

	mt.Run("filters active plans before cutoff", func(mt *mtest.T) {
		repo := NewMongoStudyPlanRepository(mt.DB)
		cutoff := time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}))

		n, err := repo.DeactivateExpired(context.Background(), cutoff)
		if err != nil {
			mt.Fatalf("DeactivateExpired: %v", err)
		}
		if n != 2 {
			mt.Errorf("modified = %d, want 2", n)
		}

		q := sentFilter(mt, "updates")
		if !q.Lookup("isActive").Boolean() {
			mt.Error("filter must only match active plans")
		}
		if got := q.Lookup("examAt", "$lt").Time(); !got.Equal(cutoff) {
			mt.Errorf("examAt $lt = %v, want %v", got, cutoff)
		}
	})
}

func TestStudyPlanListByUser(t *testing.T) {
	mt := mtest.New(t, mockOpts())

	mt.Run("empty result is not nil", func(mt *mtest.T) {
		repo := NewMongoStudyPlanRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, planNS, mtest.FirstBatch))

		plans, err := repo.ListByUser(context.Background(), primitive.NewObjectID(), false)
		if err != nil {
			mt.Fatalf("ListByUser: %v", err)
		}
		if plans == nil || len(plans) != 0 {
			mt.Fatalf("plans = %#v, want empty slice", plans)
		}
		evt := mt.GetStartedEvent()
		filter := evt.Command.Lookup("filter").Document()
		if _, err := filter.LookupErr("isActive"); err == nil {
			mt.Error("includeInactive listing must not filter on isActive")
		}
	})

	mt.Run("active only", func(mt *mtest.T) {
		repo := NewMongoStudyPlanRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, planNS, mtest.FirstBatch))

		if _, err := repo.ListByUser(context.Background(), primitive.NewObjectID(), true); err != nil {
			mt.Fatalf("ListByUser: %v", err)
		}
		evt := mt.GetStartedEvent()
		if !evt.Command.Lookup("filter", "isActive").Boolean() {
			mt.Error("active listing must filter isActive=true")
		}
		if got := evt.Command.Lookup("sort", "createdAt").AsInt64(); got != -1 {
			mt.Errorf("sort createdAt = %d, want -1", got)
		}
	})
}

func TestEnsureStudyPlanIndexes(t *testing.T) {
	mt := mtest.New(t, mockOpts())

	mt.Run("partial unique index on active subject", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := EnsureStudyPlanIndexes(context.Background(), mt.Coll); err != nil {
			mt.Fatalf("EnsureStudyPlanIndexes: %v", err)
		}

		evt := mt.GetStartedEvent()
		first := evt.Command.Lookup("indexes").Array().Index(0).Value().Document()
		if name := first.Lookup("name").StringValue(); name != "uniq_active_subject" {
			mt.Errorf("index name = %q", name)
		}
		if !first.Lookup("unique").Boolean() {
			mt.Error("index must be unique")
		}
		if !first.Lookup("partialFilterExpression", "isActive").Boolean() {
			mt.Error("index must only cover active plans")
		}
	})
}
