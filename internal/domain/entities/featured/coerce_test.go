package featured

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoercePoolDropsInvalidEntries(t *testing.T) {
	got := CoercePool([]any{101, "102", 103.0, "abc", -4, 0, 2.5, nil, true, json.Number("104"), " 105 "})
	assert.Equal(t, ImagePool{101, 102, 103, 104, 105}, got)
}

func TestCoercePoolKeepsDuplicatesAndOrder(t *testing.T) {
	assert.Equal(t, ImagePool{3, 1, 3}, CoercePool([]any{3, 1, 3}))
}

func TestParsePool(t *testing.T) {
	pool, ok := ParsePoolJSON(`[101, "102", 103]`)
	assert.True(t, ok)
	assert.Equal(t, ImagePool{101, 102, 103}, pool)

	for _, raw := range []string{"", "not json", `{"a":1}`, `42`, `null`} {
		pool, ok := ParsePoolJSON(raw)
		assert.False(t, ok, raw)
		assert.Empty(t, pool, raw)
	}

	pool, ok = ParsePoolJSON(`[]`)
	assert.True(t, ok)
	assert.Empty(t, pool)
}

func TestParseContentTypes(t *testing.T) {
	ct := ParseContentTypes([]byte(`["post", "page", "post", 4, " <b>news</b> "]`))
	assert.Equal(t, []string{"post", "page", "news"}, ct.Names())
	assert.True(t, ct.Has("news"))

	assert.Equal(t, 0, ParseContentTypes([]byte(`garbage`)).Len())
}

func TestSanitizeContentTypes(t *testing.T) {
	got := SanitizeContentTypes([]string{"  post ", "pa\nge", "", "<script>x</script>", "post"})
	assert.Equal(t, []string{"post", "page", "x"}, got)
}

func TestCoercePoolDropsOutOfRangeFloats(t *testing.T) {
	got := CoercePool([]any{float64(1 << 63), 1e19, json.Number("9223372036854775808"), float64(1 << 62)})
	assert.Equal(t, ImagePool{1 << 62}, got)

	pool, ok := ParsePoolJSON(`[9223372036854775808, 7]`)
	assert.True(t, ok)
	assert.Equal(t, ImagePool{7}, pool)
}
