package plugins

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/report"
	"github.com/quantmind-br/repolens/internal/testutil"
)

func extract(t *testing.T, fn ExtractFunc, b domain.Backend) report.Report {
	t.Helper()
	require.NoError(t, b.Init(context.Background()))
	r, err := fn(context.Background(), b)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func TestBuiltin_CanonicalOrder(t *testing.T) {
	assert.Equal(t, []string{
		"readme", "description", "repository", "license", "changelog",
		"architecture", "contributing", "codeOfConduct", "security", "faq",
		"docs", "maintainers", "contributors", "badges", "motivation", "highlights",
	}, Names(Builtin()))
}

func TestBuiltin_FreshSlice(t *testing.T) {
	first := Builtin()
	first[0].Name = "changed"
	assert.Equal(t, NameReadme, Builtin()[0].Name)
}

func TestBuiltin_EmptyRepository(t *testing.T) {
	ctx := context.Background()
	for _, p := range Builtin() {
		t.Run(p.Name, func(t *testing.T) {
			b := testutil.NewMemoryBackend(nil)
			require.NoError(t, b.Init(ctx))
			r, err := p.Extract(ctx, b)
			require.NoError(t, err)
			if p.Name == NameChangelog {
				assert.Equal(t, report.Report{"changelog": []any{}}, r)
				return
			}
			assert.Empty(t, r)
		})
	}
}

func TestSelect(t *testing.T) {
	all := Builtin()

	tests := []struct {
		name      string
		whitelist []string
		expected  []string
	}{
		{
			name:      "empty whitelist selects all",
			whitelist: nil,
			expected:  Names(all),
		},
		{
			name:      "subset keeps canonical order",
			whitelist: []string{"license", "readme", "badges"},
			expected:  []string{"readme", "license", "badges"},
		},
		{
			name:      "unknown names dropped",
			whitelist: []string{"logo", "license", "nope"},
			expected:  []string{"license"},
		},
		{
			name:      "duplicates collapse",
			whitelist: []string{"license", "license"},
			expected:  []string{"license"},
		},
		{
			name:      "only unknown names",
			whitelist: []string{"logo"},
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Names(Select(all, tt.whitelist)))
		})
	}
}

func TestSelect_DoesNotAlias(t *testing.T) {
	all := Builtin()
	selected := Select(all, nil)
	selected[0].Name = "changed"
	assert.Equal(t, NameReadme, all[0].Name)
}

func TestUnknown(t *testing.T) {
	all := Builtin()
	assert.Equal(t, []string{"logo", "nope"}, Unknown(all, []string{"logo", "license", "nope"}))
	assert.Empty(t, Unknown(all, []string{"readme"}))
	assert.Empty(t, Unknown(all, nil))
}
