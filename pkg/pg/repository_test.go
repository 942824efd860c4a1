package pg

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Note      *string   `db:"description"`
	CreatedAt time.Time `db:"created_at"`
	internal  string    //nolint:unused
	Skipped   string    `db:"-"`
}

func TestRepositoryColumns(t *testing.T) {
	t.Parallel()

	r := NewRepository[widget]("widgets")
	assert.Equal(t, []string{"id", "title", "description", "created_at"}, r.columns)
	assert.Equal(t, "widgets", r.Table())
}

func TestSelectSQL(t *testing.T) {
	t.Parallel()

	r := NewRepository[widget]("widgets")
	id := uuid.New()

	t.Run("no options", func(t *testing.T) {
		t.Parallel()
		sql, args := r.selectSQL(QueryOptions{})
		assert.Equal(t, `SELECT "id", "title", "description", "created_at" FROM "widgets"`, sql)
		assert.Empty(t, args)
	})

	t.Run("filter order and page", func(t *testing.T) {
		t.Parallel()
		sql, args := r.selectSQL(QueryOptions{
			Where:   And(Eq("user_id", id), ILike("50%_off", "title", "description")),
			OrderBy: []Order{Desc("created_at"), Asc("id")},
			Limit:   8,
			Offset:  16,
		})
		assert.Equal(t,
			`SELECT "id", "title", "description", "created_at" FROM "widgets"`+
				` WHERE ("user_id" = $1 AND ("title" ILIKE $2 OR "description" ILIKE $2))`+
				` ORDER BY "created_at" DESC, "id" LIMIT $3 OFFSET $4`, sql)
		assert.Equal(t, []any{id, `%50\%\_off%`, 8, 16}, args)
	})

	t.Run("nil filters are skipped", func(t *testing.T) {
		t.Parallel()
		sql, args := r.selectSQL(QueryOptions{Where: And(nil, IDs(id))})
		assert.Contains(t, sql, `WHERE "id" = ANY($1)`)
		assert.Equal(t, []any{[]uuid.UUID{id}}, args)
	})

	t.Run("empty and", func(t *testing.T) {
		t.Parallel()
		sql, _ := r.selectSQL(QueryOptions{Where: And()})
		assert.Contains(t, sql, "WHERE TRUE")
	})
}

func TestCountSQL(t *testing.T) {
	t.Parallel()

	r := NewRepository[widget]("widgets")
	sql, args := r.countSQL(ILike("x", "title", "description"))
	assert.Equal(t, `SELECT count(*) FROM "widgets" WHERE ("title" ILIKE $1 OR "description" ILIKE $1)`, sql)
	assert.Equal(t, []any{"%x%"}, args)

	sql, args = r.countSQL(nil)
	assert.Equal(t, `SELECT count(*) FROM "widgets"`, sql)
	assert.Empty(t, args)
}

func TestInsertSQL(t *testing.T) {
	t.Parallel()

	r := NewRepository[widget]("widgets")

	t.Run("multi row", func(t *testing.T) {
		t.Parallel()
		sql, args, err := r.insertSQL([]Values{
			{"title": "a", "user_id": 1},
			{"user_id": 2, "title": "b"},
		})
		require.NoError(t, err)
		assert.Equal(t,
			`INSERT INTO "widgets" ("title", "user_id") VALUES ($1, $2), ($3, $4)`+
				` RETURNING "id", "title", "description", "created_at"`, sql)
		assert.Equal(t, []any{"a", 1, "b", 2}, args)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, _, err := r.insertSQL(nil)
		assert.ErrorIs(t, err, ErrEmptyInsert)
	})

	t.Run("column mismatch", func(t *testing.T) {
		t.Parallel()
		_, _, err := r.insertSQL([]Values{{"title": "a"}, {"description": "b"}})
		assert.ErrorIs(t, err, ErrColumnMismatch)

		_, _, err = r.insertSQL([]Values{{"title": "a"}, {"title": "b", "description": "c"}})
		assert.ErrorIs(t, err, ErrColumnMismatch)
	})
}

func TestUpdateSQL(t *testing.T) {
	t.Parallel()

	r := NewRepository[widget]("widgets")
	id := uuid.New()

	sql, args, err := r.updateSQL(IDs(id), Values{"title": "t", "description": nil})
	require.NoError(t, err)
	assert.Equal(t,
		`UPDATE "widgets" SET "description" = $1, "title" = $2 WHERE "id" = ANY($3)`+
			` RETURNING "id", "title", "description", "created_at"`, sql)
	assert.Equal(t, []any{nil, "t", []uuid.UUID{id}}, args)

	_, _, err = r.updateSQL(IDs(id), Values{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	sql, args, err = r.updateSQL(IDs(id), Values{"title": "t", "updated_at": Now})
	require.NoError(t, err)
	assert.Equal(t,
		`UPDATE "widgets" SET "title" = $1, "updated_at" = now() WHERE "id" = ANY($2)`+
			` RETURNING "id", "title", "description", "created_at"`, sql)
	assert.Equal(t, []any{"t", []uuid.UUID{id}}, args)
}

func TestDeleteSQL(t *testing.T) {
	t.Parallel()

	r := NewRepository[widget]("widgets")
	sql, args := r.deleteSQL(In("url", []string{"a", "b"}))
	assert.Equal(t, `DELETE FROM "widgets" WHERE "url" = ANY($1)`, sql)
	assert.Equal(t, []any{[]string{"a", "b"}}, args)
}

func TestIdentQualified(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"apps"."title"`, ident("apps.title"))
}
