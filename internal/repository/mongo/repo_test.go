package mongo

import (
	"context"
	"testing"

	"gymflow/fitness-app/internal/domain"
	"gymflow/fitness-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestWorkoutPlanRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	userID := primitive.NewObjectID()

	mt.Run("create sets id and timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoWorkoutPlanRepository(mt.DB)

		plan := &domain.WorkoutPlan{UserID: userID, Name: "Split", Days: []domain.Day{{Name: "Day 1"}}}
		id, err := repo.Create(ctx, plan)
		require.NoError(mt, err)
		assert.Equal(mt, plan.ID, id)
		assert.False(mt, plan.CreatedAt.IsZero())
		assert.Equal(mt, plan.CreatedAt, plan.UpdatedAt)
	})

	mt.Run("create requires owner", func(mt *mtest.T) {
		repo := NewMongoWorkoutPlanRepository(mt.DB)
		_, err := repo.Create(ctx, &domain.WorkoutPlan{Name: "x"})
		assert.Error(mt, err)
	})

	mt.Run("get missing plan", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + workoutPlanCollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoWorkoutPlanRepository(mt.DB)

		_, err := repo.GetByID(ctx, primitive.NewObjectID(), userID)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("list decodes documents", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + workoutPlanCollectionName
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id1}, {Key: "userId", Value: userID}, {Key: "name", Value: "A"}},
			bson.D{{Key: "_id", Value: id2}, {Key: "userId", Value: userID}, {Key: "name", Value: "B"}},
		)
		end := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, end)
		repo := NewMongoWorkoutPlanRepository(mt.DB)

		plans, err := repo.ListByUser(ctx, userID)
		require.NoError(mt, err)
		require.Len(mt, plans, 2)
		assert.Equal(mt, id1, plans[0].ID)
		assert.Equal(mt, "B", plans[1].Name)
	})

	mt.Run("replace unknown plan", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})
		repo := NewMongoWorkoutPlanRepository(mt.DB)

		err := repo.Replace(ctx, &domain.WorkoutPlan{ID: primitive.NewObjectID(), UserID: userID, Name: "x"})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}},
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}},
		)
		repo := NewMongoWorkoutPlanRepository(mt.DB)
		id := primitive.NewObjectID()

		require.NoError(mt, repo.Delete(ctx, id, userID))
		assert.ErrorIs(mt, repo.Delete(ctx, id, userID), repository.ErrNotFound)
	})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create normalizes email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoUserRepository(mt.DB)

		user := &domain.User{Name: "Ana", Email: "  Ana@Example.COM ", PasswordHash: "hash"}
		_, err := repo.Create(ctx, user)
		require.NoError(mt, err)
		assert.Equal(mt, "ana@example.com", user.Email)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewMongoUserRepository(mt.DB)

		_, err := repo.Create(ctx, &domain.User{Email: "a@b.c", PasswordHash: "hash"})
		assert.ErrorIs(mt, err, repository.ErrDuplicateKey)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + userCollectionName
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "name", Value: "Ana"}, {Key: "email", Value: "ana@example.com"}},
		))
		repo := NewMongoUserRepository(mt.DB)

		user, err := repo.GetByEmail(ctx, "ANA@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
	})
}
