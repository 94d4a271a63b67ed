package catalog

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/portable"
	"github.com/wippyai/typeinfo/schema"
)

func pointTable(t *testing.T, fields ...string) *portable.Registry {
	t.Helper()
	var fs []schema.Field[uint32]
	for _, name := range fields {
		fs = append(fs, schema.NewField[uint32](name, 1))
	}
	reg, err := portable.FromTypes([]portable.Type{
		{Path: schema.Path{"geo", "Point"}, Def: schema.NewComposite(fs...)},
		schema.PrimitiveType[uint32](schema.U32),
	})
	require.NoError(t, err)
	return reg
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func kindOf(t *testing.T, err error) errors.Kind {
	t.Helper()
	var e *errors.Error
	require.True(t, stderrors.As(err, &e), "unexpected error type %T", err)
	return e.Kind
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	reg := pointTable(t, "x", "y")

	id, err := s.Save(ctx, "geo", reg)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, reg.Types(), got.Types())
}

func TestSave_Dedup(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	first, err := s.Save(ctx, "geo", pointTable(t, "x", "y"))
	require.NoError(t, err)
	again, err := s.Save(ctx, "geo", pointTable(t, "x", "y"))
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := s.Save(ctx, "other", pointTable(t, "x", "y"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other, "dedup is per name")

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLoadByName_Latest(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	_, err := s.Save(ctx, "geo", pointTable(t, "x"))
	require.NoError(t, err)
	_, err = s.Save(ctx, "geo", pointTable(t, "x", "y"))
	require.NoError(t, err)

	got, err := s.LoadByName(ctx, "geo")
	require.NoError(t, err)
	ty, ok := got.Resolve(0)
	require.True(t, ok)
	assert.Len(t, ty.Def.(*schema.Composite[uint32]).Fields, 2)

	_, err = s.LoadByName(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, kindOf(t, err))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	reg := pointTable(t, "x", "y")
	id, err := s.Save(ctx, "geo", reg)
	require.NoError(t, err)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := reg.MarshalBinary()
	require.NoError(t, err)

	e := entries[0]
	assert.Equal(t, id, e.ID)
	assert.Equal(t, "geo", e.Name)
	assert.Equal(t, Digest(data), e.Digest)
	assert.Equal(t, 2, e.Types)
	assert.Equal(t, len(data), e.Size)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	id, err := s.Save(ctx, "geo", pointTable(t, "x"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Load(ctx, id)
	assert.Equal(t, errors.KindNotFound, kindOf(t, err))

	err = s.Delete(ctx, id)
	assert.Equal(t, errors.KindNotFound, kindOf(t, err))
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	id, err := s.Save(ctx, "geo", pointTable(t, "x"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close is idempotent")

	_, err = s.List(ctx)
	assert.Equal(t, errors.KindNotInitialized, kindOf(t, err))

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Load(ctx, id)
	assert.NoError(t, err)
}

func TestInvalidInput(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "")
	assert.Equal(t, errors.KindInvalidInput, kindOf(t, err))

	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Save(ctx, "", pointTable(t, "x"))
	assert.Equal(t, errors.KindInvalidInput, kindOf(t, err))
	_, err = s.Save(ctx, "geo", nil)
	assert.Equal(t, errors.KindInvalidInput, kindOf(t, err))
}
