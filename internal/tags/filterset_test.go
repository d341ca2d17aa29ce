package tags

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSet_AddOrReplace(t *testing.T) {
	t.Run("replaces same category", func(t *testing.T) {
		fs := NewFilterSet(testCatalog(t))
		require.NoError(t, fs.AddOrReplace("size", "big"))
		require.NoError(t, fs.AddOrReplace("size", "small"))

		assert.Equal(t, []TagQuery{{"size", "small"}}, fs.Tags())
	})

	t.Run("replacement moves to end", func(t *testing.T) {
		fs := NewFilterSet(testCatalog(t))
		require.NoError(t, fs.AddOrReplace("size", "big"))
		require.NoError(t, fs.AddOrReplace("unit-tier", "t1"))
		require.NoError(t, fs.AddOrReplace("size", "small"))

		want := []TagQuery{{"unit-tier", "t1"}, {"size", "small"}}
		if diff := cmp.Diff(want, fs.Tags()); diff != "" {
			t.Errorf("tags mismatch (-want +got):\n%s", diff)
		}
	})

	tests := []struct {
		name     string
		category string
		value    string
		wantErr  error
	}{
		{name: "value outside enumeration", category: "unit-tier", value: "t9", wantErr: ErrInvalidValue},
		{name: "empty value", category: "name", value: "", wantErr: ErrInvalidValue},
		{name: "separator in free text", category: "name", value: "a_b", wantErr: ErrInvalidValue},
		{name: "delimiter in free text", category: "name", value: "a,b", wantErr: ErrInvalidValue},
		{name: "unknown category", category: "color", value: "red", wantErr: ErrUnknownTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFilterSet(testCatalog(t))
			require.NoError(t, fs.AddOrReplace("size", "big"))
			before := fs.Tags()

			err := fs.AddOrReplace(tt.category, tt.value)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, fs.Tags())
		})
	}

	t.Run("free text accepts any value", func(t *testing.T) {
		fs := NewFilterSet(testCatalog(t))
		require.NoError(t, fs.AddOrReplace("name", "my drill line"))
		assert.Equal(t, 1, fs.Len())
	})
}

func TestFilterSet_Remove(t *testing.T) {
	fs := NewFilterSet(testCatalog(t))
	require.NoError(t, fs.AddOrReplace("name", "drill"))
	require.NoError(t, fs.AddOrReplace("size", "big"))
	require.NoError(t, fs.AddOrReplace("unit-tier", "t2"))

	require.NoError(t, fs.Remove(0))
	assert.Equal(t, []TagQuery{{"size", "big"}, {"unit-tier", "t2"}}, fs.Tags())

	require.ErrorIs(t, fs.Remove(2), ErrIndexOutOfRange)
	require.ErrorIs(t, fs.Remove(-1), ErrIndexOutOfRange)

	require.NoError(t, fs.Remove(1))
	assert.Equal(t, []TagQuery{{"size", "big"}}, fs.Tags())
}

func TestFilterSet_TagsIsCopy(t *testing.T) {
	fs := NewFilterSet(testCatalog(t))
	require.NoError(t, fs.AddOrReplace("size", "big"))

	tags := fs.Tags()
	tags[0].Value = "small"
	assert.Equal(t, "big", fs.Tags()[0].Value)
}

func TestFilterSet_Params(t *testing.T) {
	fs := NewFilterSet(testCatalog(t))
	assert.Empty(t, fs.Params())

	require.NoError(t, fs.AddOrReplace("size", "big"))
	require.NoError(t, fs.AddOrReplace("unit-tier", "t1"))
	assert.Equal(t, "size_big,unit-tier_t1", fs.Params().Get(ParamTags))

	fs.Clear()
	assert.Equal(t, 0, fs.Len())
}

func TestZeroFilterSetRejects(t *testing.T) {
	var fs FilterSet
	require.ErrorIs(t, fs.AddOrReplace("size", "big"), ErrUnknownTag)
}
