package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRepoURL_CandidateTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		wantURL string
		wantOK  bool
	}{
		{
			name:    "empty payload yields no reference",
			payload: `{}`,
			wantOK:  false,
		},
		{
			name:    "view github link wins",
			payload: `{"links": [{"text": "View GitHub", "url": "https://github.com/acme/widgets"}]}`,
			wantURL: "https://github.com/acme/widgets",
			wantOK:  true,
		},
		{
			name: "github link nested three levels deep inside an array",
			payload: `{"sections": [{"blocks": [{"items": [
				{"text": "View GitHub", "url": "https://github.com/acme/widgets"}
			]}]}]}`,
			wantURL: "https://github.com/acme/widgets",
			wantOK:  true,
		},
		{
			name: "primary beats download and deploy regardless of order",
			payload: `{"links": [
				{"text": "Deploy Local", "url": "https://example.com/deploy"},
				{"text": "Download Blueprint", "url": "https://example.com/download"},
				{"text": "View GitHub", "url": "https://github.com/acme/widgets"}
			]}`,
			wantURL: "https://github.com/acme/widgets",
			wantOK:  true,
		},
		{
			name: "multiple primary hits pick lexicographically smallest URL",
			payload: `{"links": [
				{"text": "View GitHub", "url": "https://github.com/acme/zebra"},
				{"text": "view github", "url": "https://github.com/acme/aardvark"},
				{"text": "VIEW GITHUB", "url": "https://github.com/acme/middle"}
			]}`,
			wantURL: "https://github.com/acme/aardvark",
			wantOK:  true,
		},
		{
			name: "download now falls back when no primary hit",
			payload: `{"links": [
				{"text": "Download Now", "url": "https://example.com/b"},
				{"text": "Deploy On Cloud", "url": "https://example.com/c"}
			]}`,
			wantURL: "https://example.com/b",
			wantOK:  true,
		},
		{
			name:    "deploy pool is the last link tier",
			payload: `{"links": [{"text": "Deploy On Cloud", "url": "https://example.com/cloud"}]}`,
			wantURL: "https://example.com/cloud",
			wantOK:  true,
		},
		{
			name:    "raw blueprintUrl is the final fallback",
			payload: `{"blueprintUrl": "https://github.com/acme/tool.git"}`,
			wantURL: "https://github.com/acme/tool.git",
			wantOK:  true,
		},
		{
			name: "blueprint pool keeps first-discovered entry",
			payload: `{"a": {"blueprintUrl": "https://github.com/acme/first"},
				"z": {"blueprintUrl": "https://github.com/acme/second"}}`,
			wantURL: "https://github.com/acme/first",
			wantOK:  true,
		},
		{
			name: "link tiers beat blueprintUrl",
			payload: `{"blueprintUrl": "https://github.com/acme/fallback",
				"links": [{"text": "Deploy Local", "url": "https://example.com/deploy"}]}`,
			wantURL: "https://example.com/deploy",
			wantOK:  true,
		},
		{
			name:    "text without url is ignored",
			payload: `{"links": [{"text": "View GitHub"}]}`,
			wantOK:  false,
		},
		{
			name:    "non-string url is ignored",
			payload: `{"links": [{"text": "View GitHub", "url": 42}]}`,
			wantOK:  false,
		},
		{
			name:    "unrelated labels are ignored",
			payload: `{"links": [{"text": "Read Docs", "url": "https://example.com/docs"}]}`,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			url, ok := FindRepoURL([]byte(tt.payload))
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantURL, url)
		})
	}
}

// encode embeds a document into a string leaf the way NGC specs do
func encode(t *testing.T, doc map[string]any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	wrapped, err := json.Marshal(map[string]any{"attributes": string(data)})
	require.NoError(t, err)
	return string(wrapped)
}

func TestFindRepoURL_EncodedNodes(t *testing.T) {
	t.Parallel()

	t.Run("cta link inside encoded string is found", func(t *testing.T) {
		t.Parallel()
		payload := encode(t, map[string]any{
			"cta": map[string]any{"text": "View GitHub", "url": "https://github.com/acme/enc"},
		})

		url, ok := FindRepoURL([]byte(payload))
		require.True(t, ok)
		assert.Equal(t, "https://github.com/acme/enc", url)
	})

	t.Run("secondaryCta is inspected too", func(t *testing.T) {
		t.Parallel()
		payload := encode(t, map[string]any{
			"secondaryCta": map[string]any{"text": "Download Blueprint", "url": "https://example.com/dl"},
		})

		url, ok := FindRepoURL([]byte(payload))
		require.True(t, ok)
		assert.Equal(t, "https://example.com/dl", url)
	})

	t.Run("deploy local cta requires github.com", func(t *testing.T) {
		t.Parallel()
		payload := encode(t, map[string]any{
			"cta": map[string]any{"text": "Deploy Local", "url": "https://example.com/deploy"},
		})

		_, ok := FindRepoURL([]byte(payload))
		assert.False(t, ok)
	})

	t.Run("deploy local cta with github.com is promoted", func(t *testing.T) {
		t.Parallel()
		payload := encode(t, map[string]any{
			"cta": map[string]any{"text": "Deploy Local", "url": "https://github.com/acme/deploy"},
		})

		url, ok := FindRepoURL([]byte(payload))
		require.True(t, ok)
		assert.Equal(t, "https://github.com/acme/deploy", url)
	})

	t.Run("menu entries accept deploy local unconditionally", func(t *testing.T) {
		t.Parallel()
		payload := encode(t, map[string]any{
			"cta": map[string]any{
				"text": "Get Started",
				"menu": []any{
					map[string]any{"text": "Deploy Local", "url": "https://example.com/launch"},
				},
			},
		})

		url, ok := FindRepoURL([]byte(payload))
		require.True(t, ok)
		assert.Equal(t, "https://example.com/launch", url)
	})

	t.Run("menu view github outranks menu downloads", func(t *testing.T) {
		t.Parallel()
		payload := encode(t, map[string]any{
			"cta": map[string]any{
				"text": "Get Started",
				"menu": []any{
					map[string]any{"text": "Download Now", "url": "https://example.com/dl"},
					map[string]any{"text": "View GitHub", "url": "https://github.com/acme/menu"},
				},
			},
		})

		url, ok := FindRepoURL([]byte(payload))
		require.True(t, ok)
		assert.Equal(t, "https://github.com/acme/menu", url)
	})

	t.Run("encoded blueprintUrl is collected", func(t *testing.T) {
		t.Parallel()
		payload := encode(t, map[string]any{
			"blueprintUrl": "https://github.com/acme/encoded-bp",
		})

		url, ok := FindRepoURL([]byte(payload))
		require.True(t, ok)
		assert.Equal(t, "https://github.com/acme/encoded-bp", url)
	})

	t.Run("notify when available suppresses blueprintUrl in any casing", func(t *testing.T) {
		t.Parallel()
		for _, casing := range []string{"Notify When Available", "notify when available", "NOTIFY WHEN AVAILABLE"} {
			payload := encode(t, map[string]any{
				"cta":          map[string]any{"text": casing},
				"blueprintUrl": "https://github.com/acme/unavailable",
			})

			_, ok := FindRepoURL([]byte(payload))
			assert.False(t, ok, "casing %q must suppress the blueprintUrl", casing)
		}
	})

	t.Run("notify on secondaryCta suppresses blueprintUrl", func(t *testing.T) {
		t.Parallel()
		payload := encode(t, map[string]any{
			"secondaryCta": map[string]any{"text": "Notify When Available"},
			"blueprintUrl": "https://github.com/acme/unavailable",
		})

		_, ok := FindRepoURL([]byte(payload))
		assert.False(t, ok)
	})

	t.Run("non-JSON string leaves are left alone", func(t *testing.T) {
		t.Parallel()
		payload := `{"description": "deploy local instructions at https://example.com"}`

		_, ok := FindRepoURL([]byte(payload))
		assert.False(t, ok)
	})

	t.Run("encoded scalars are not treated as payload nodes", func(t *testing.T) {
		t.Parallel()
		payload := `{"attributes": "[1, 2, 3]", "other": "42"}`

		_, ok := FindRepoURL([]byte(payload))
		assert.False(t, ok)
	})
}
