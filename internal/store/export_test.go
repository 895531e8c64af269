package store

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
	kt "github.com/desertthunder/kedoo/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDump(t *testing.T) {
	t.Run("string values", func(t *testing.T) {
		dump, err := ParseDump([]byte(`{"kedoo_theme":"ocean","kedoo_users":"[{\"id\":\"u1\"}]"}`))
		require.NoError(t, err)
		assert.Equal(t, "ocean", dump[KeyTheme])
		assert.Equal(t, `[{"id":"u1"}]`, dump[KeyUsers])
	})

	t.Run("inline documents", func(t *testing.T) {
		dump, err := ParseDump([]byte(`{"kedoo_users": [ {"id": "u1"} ], "kedoo_schema_version": 2}`))
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"u1"}]`, dump[KeyUsers])
		assert.Equal(t, "2", dump[KeySchemaVersion])
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := ParseDump([]byte(`[1,2]`))
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestImportExport(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		src := newTestStore(t, nil)
		require.NoError(t, src.SaveUser(ctx, kt.User("u1")))
		seedReleases(t, src, kt.Release("r1", "u1"), kt.Release("r2", "u1"))
		require.NoError(t, src.DeleteRelease(ctx, "r2"))
		require.NoError(t, src.SaveTicket(ctx, kt.Ticket("k1", "u1")))
		require.NoError(t, src.SetTheme(ctx, "forest"))
		_, err := src.Migrate(ctx)
		require.NoError(t, err)

		dump, err := src.Export(ctx)
		require.NoError(t, err)
		data, err := dump.Encode()
		require.NoError(t, err)

		parsed, err := ParseDump(data)
		require.NoError(t, err)

		dst := newTestStore(t, nil)
		keys, err := dst.Import(ctx, parsed)
		require.NoError(t, err)
		assert.Contains(t, keys, KeyReleases)

		exported, err := dst.Export(ctx)
		require.NoError(t, err)
		assert.Equal(t, dump, exported)
	})

	t.Run("browser dump", func(t *testing.T) {
		dump := Dump{"other_app": "x"}
		for k, v := range revisionOne {
			dump[k] = v
		}

		s := newTestStore(t, nil)
		keys, err := s.Import(ctx, dump)
		require.NoError(t, err)
		assert.NotContains(t, keys, "other_app")

		v, err := s.Version(ctx)
		require.NoError(t, err)
		assert.Equal(t, SchemaVersion, v)

		exported, err := s.Export(ctx)
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(SchemaVersion), exported[KeySchemaVersion])
		assert.NotContains(t, exported, "other_app")

		trash, err := s.Trash(ctx, "")
		require.NoError(t, err)
		assert.Len(t, trash, 1)
	})

	t.Run("browser timestamps are kept as written", func(t *testing.T) {
		s := newTestStore(t, nil)
		_, err := s.Import(ctx, Dump{KeyReleases: `[` +
			`{"id":"r1","userId":"u1","albumTitle":"One","wasReleased":"no","status":"draft","genre":"Pop","createdAt":"2024-01-01T00:00:00.000Z"},` +
			`{"id":"r2","userId":"u1","albumTitle":"Two","wasReleased":"no","status":"draft","genre":"Pop","createdAt":"2024-01-10"},` +
			`{"id":"r3","userId":"u1","albumTitle":"Three","wasReleased":"no","status":"draft","genre":"Pop"}]`})
		require.NoError(t, err)

		releases, err := s.Releases(ctx, "")
		require.NoError(t, err)
		require.Len(t, releases, 3)
		assert.Equal(t, models.Timestamp("2024-01-10"), releases[1].CreatedAt)
		assert.Equal(t, "2024-01-10", releases[1].CreatedAt.Format(shared.DateLayout))
		assert.True(t, releases[2].CreatedAt.IsZero())

		exported, err := s.Export(ctx)
		require.NoError(t, err)
		assert.Contains(t, exported[KeyReleases], `"createdAt":"2024-01-01T00:00:00.000Z"`)
		assert.Contains(t, exported[KeyReleases], `"createdAt":"2024-01-10"`)
		assert.Equal(t, 2, strings.Count(exported[KeyReleases], `"createdAt"`), "a missing createdAt stays missing")
	})

	t.Run("invalid document", func(t *testing.T) {
		s := newTestStore(t, nil)
		require.NoError(t, s.SetTheme(ctx, "fire"))

		_, err := s.Import(ctx, Dump{KeyReleases: "{oops", KeyTheme: "neon"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		theme, err := s.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, "fire", theme, "a rejected import writes nothing")
	})
}
