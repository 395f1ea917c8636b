package implementation

import (
	"context"
	"log"
	"os"
	"testing"

	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/model"
	"routine-advisor-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRepositoryAgainstPostgres(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Preference{}))

	repo := NewPreferenceRepository(db)
	ctx := context.Background()
	profileId := uuid.New()
	t.Cleanup(func() { _ = repo.DeleteAllByProfileId(ctx, profileId) })

	missing, err := repo.FindOne(ctx, profileId, "selectedProducts")
	require.NoError(t, err)
	assert.Nil(t, missing)

	pref := &entity.Preference{ProfileId: profileId, Key: "selectedProducts", Value: []byte(`[{"id":1}]`)}
	require.NoError(t, repo.Upsert(ctx, pref))
	assert.NotNil(t, pref.UpdatedAt)

	// Second write to the same slot replaces the value
	require.NoError(t, repo.Upsert(ctx, &entity.Preference{ProfileId: profileId, Key: "selectedProducts", Value: []byte(`[]`)}))

	found, err := repo.FindOne(ctx, profileId, "selectedProducts")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.JSONEq(t, `[]`, string(found.Value))

	require.NoError(t, repo.DeleteAllByProfileId(ctx, profileId))
	gone, err := repo.FindOne(ctx, profileId, "selectedProducts")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
