package sqlite

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rpggio/painel/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestStateRepository_SaveLoad(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewStateRepository(db)

	_, err := repo.Load(ctx, "coletas")
	require.ErrorIs(t, err, repository.ErrNoData)

	doc := json.RawMessage(`[{"id":"c1","cliente":"Fazenda Boa Vista"}]`)
	require.NoError(t, repo.Save(ctx, "coletas", doc))

	loaded, err := repo.Load(ctx, "coletas")
	require.NoError(t, err)
	require.JSONEq(t, string(doc), string(loaded))

	require.NoError(t, repo.Save(ctx, "coletas", json.RawMessage(`[]`)))
	loaded, err = repo.Load(ctx, "coletas")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(loaded))
}

func TestStateRepository_MalformedIsNoData(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewStateRepository(db)

	_, err := db.ExecContext(ctx, `INSERT INTO local_state (key, value) VALUES (?, ?)`, "pesagens", "{not json")
	require.NoError(t, err)

	_, err = repo.Load(ctx, "pesagens")
	require.ErrorIs(t, err, repository.ErrNoData)
}

func TestStateRepository_RejectsUnknownKeyAndInvalidJSON(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewStateRepository(db)

	require.ErrorIs(t, repo.Save(ctx, "senhas", json.RawMessage(`{}`)), repository.ErrUnknownKey)
	_, err := repo.Load(ctx, "senhas")
	require.ErrorIs(t, err, repository.ErrUnknownKey)

	require.ErrorIs(t, repo.Save(ctx, "user", json.RawMessage(`{`)), repository.ErrInvalidInput)
}
