package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst      Report
		src      Report
		expected Report
	}{
		{
			name:     "into empty",
			dst:      New(),
			src:      Report{"license": "MIT"},
			expected: Report{"license": "MIT"},
		},
		{
			name:     "disjoint fields",
			dst:      Report{"readme": "# hi"},
			src:      Report{"license": "MIT"},
			expected: Report{"readme": "# hi", "license": "MIT"},
		},
		{
			name:     "later scalar wins",
			dst:      Report{"description": "old", "stars": 1},
			src:      Report{"description": "new"},
			expected: Report{"description": "new", "stars": 1},
		},
		{
			name: "mappings merge key by key",
			dst: Report{"repository": map[string]any{
				"defaultBranch": "main",
				"stars":         3,
			}},
			src: Report{"repository": map[string]any{
				"stars":  5,
				"topics": []any{"go"},
			}},
			expected: Report{"repository": map[string]any{
				"defaultBranch": "main",
				"stars":         5,
				"topics":        []any{"go"},
			}},
		},
		{
			name:     "sequences merge by index keeping trailing elements",
			dst:      Report{"maintainers": []any{"a", "b", "c"}},
			src:      Report{"maintainers": []any{"x"}},
			expected: Report{"maintainers": []any{"x", "b", "c"}},
		},
		{
			name:     "longer later sequence extends",
			dst:      Report{"maintainers": []any{"a"}},
			src:      Report{"maintainers": []any{"x", "y"}},
			expected: Report{"maintainers": []any{"x", "y"}},
		},
		{
			name: "sequence elements that are mappings merge key by key",
			dst: Report{"changelog": []any{
				map[string]any{"version": "1.0.0", "date": "2020-01-01"},
				map[string]any{"version": "0.9.0"},
			}},
			src: Report{"changelog": []any{
				map[string]any{"changes": []any{"fix"}},
			}},
			expected: Report{"changelog": []any{
				map[string]any{"version": "1.0.0", "date": "2020-01-01", "changes": []any{"fix"}},
				map[string]any{"version": "0.9.0"},
			}},
		},
		{
			name:     "empty sequence keeps existing elements",
			dst:      Report{"changelog": []any{"a"}},
			src:      Report{"changelog": []any{}},
			expected: Report{"changelog": []any{"a"}},
		},
		{
			name:     "type change favours later value",
			dst:      Report{"docs": "none"},
			src:      Report{"docs": []any{"a"}},
			expected: Report{"docs": []any{"a"}},
		},
		{
			name:     "explicit nil overrides",
			dst:      Report{"homepage": "x"},
			src:      Report{"homepage": nil},
			expected: Report{"homepage": nil},
		},
		{
			name:     "typed sequences merge by index",
			dst:      Report{"tags": []string{"a", "b", "c"}},
			src:      Report{"tags": []string{"z"}},
			expected: Report{"tags": []any{"z", "b", "c"}},
		},
		{
			name:     "typed mappings merge key by key",
			dst:      Report{"m": map[string]string{"x": "1"}},
			src:      Report{"m": map[string]string{"y": "2"}},
			expected: Report{"m": map[string]any{"x": "1", "y": "2"}},
		},
		{
			name:     "typed values are normalized on insert",
			dst:      New(),
			src:      Report{"counts": map[string]int{"go": 3}, "ids": [2]int{1, 2}},
			expected: Report{"counts": map[string]any{"go": 3}, "ids": []any{1, 2}},
		},
		{
			name: "typed values nested inside mappings",
			dst: Report{"repository": map[string]any{
				"topics": []string{"go", "cli"},
			}},
			src: Report{"repository": map[string]any{
				"topics": []any{"metadata"},
			}},
			expected: Report{"repository": map[string]any{
				"topics": []any{"metadata", "cli"},
			}},
		},
		{
			name:     "byte slices are scalars",
			dst:      Report{"raw": []byte("old")},
			src:      Report{"raw": []byte("new")},
			expected: Report{"raw": []byte("new")},
		},
		{
			name:     "nested report values are treated as mappings",
			dst:      Report{"repository": Report{"url": "a"}},
			src:      Report{"repository": map[string]any{"stars": 1}},
			expected: Report{"repository": map[string]any{"url": "a", "stars": 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.dst, tt.src)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMerge_NilDestination(t *testing.T) {
	got := Merge(nil, Report{"a": 1})
	require.NotNil(t, got)
	assert.Equal(t, Report{"a": 1}, got)
}

func TestMerge_DoesNotAliasSource(t *testing.T) {
	inner := map[string]any{"stars": 1}
	list := []any{"a"}
	src := Report{"repository": inner, "maintainers": list}

	dst := Merge(New(), src)

	inner["stars"] = 99
	list[0] = "z"

	assert.Equal(t, 1, dst["repository"].(map[string]any)["stars"])
	assert.Equal(t, "a", dst["maintainers"].([]any)[0])
}

func TestMerge_TypedValuesAreNotAliased(t *testing.T) {
	tags := []string{"a", "b"}
	meta := map[string]string{"x": "1"}

	acc := Merge(New(), Report{"tags": tags, "meta": meta})
	Merge(acc, Report{"tags": []string{"z"}, "meta": map[string]string{"y": "2"}})

	tags[1] = "mutated"
	meta["x"] = "mutated"

	assert.Equal(t, []any{"z", "b"}, acc["tags"])
	assert.Equal(t, map[string]any{"x": "1", "y": "2"}, acc["meta"])
	assert.Equal(t, []string{"a", "mutated"}, tags)
}

func TestMerge_SequentialAccumulation(t *testing.T) {
	partials := []Report{
		{"readme": "r", "repository": map[string]any{"url": "u"}},
		{"license": "MIT"},
		{"repository": map[string]any{"stars": 2}, "readme": "r2"},
	}

	acc := New()
	for _, p := range partials {
		Merge(acc, p)
	}

	want := Report{
		"readme":     "r2",
		"license":    "MIT",
		"repository": map[string]any{"url": "u", "stars": 2},
	}
	if diff := cmp.Diff(want, acc); diff != "" {
		t.Errorf("accumulated report mismatch (-want +got):\n%s", diff)
	}
}
