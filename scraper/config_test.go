package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePattern verifies host and prefix are split out of the URL
func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("https://mp.weixin.qq.com/s")
	require.NoError(t, err)

	assert.Equal(t, "mp.weixin.qq.com", p.Host)
	assert.Equal(t, "/s", p.PathPrefix)
	assert.Equal(t, "mp.weixin.qq.com/s", p.Needle())
	assert.Equal(t, "https://mp.weixin.qq.com/", p.Origin())
	assert.Equal(t, "https://mp.weixin.qq.com/s", p.String())
}

// TestParsePattern_TrailingSlash verifies a trailing slash is ignored
func TestParsePattern_TrailingSlash(t *testing.T) {
	p, err := ParsePattern("http://example.com/posts/")
	require.NoError(t, err)
	assert.Equal(t, "example.com/posts", p.Needle())
}

// TestParsePattern_Invalid verifies non-http prefixes are rejected
func TestParsePattern_Invalid(t *testing.T) {
	for _, raw := range []string{"", "mp.weixin.qq.com/s", "ftp://example.com/s", "https://"} {
		_, err := ParsePattern(raw)
		assert.ErrorIs(t, err, ErrInvalidPattern, "should reject %q", raw)
	}
}

// TestPatternRegexp verifies the token character class
func TestPatternRegexp(t *testing.T) {
	re := MustParsePattern(DefaultPattern).Regexp()

	text := `a "https://mp.weixin.qq.com/s/ABC123?x=1#frag" b http://mp.weixin.qq.com/s/a_b-c&d=e
https://mp.weixin.qq.com/s/tok.en https://mp.weixin.qq.com/other/X https://mpXweixin.qq.com/s/NO`
	matches := re.FindAllString(text, -1)

	assert.Equal(t, []string{
		"https://mp.weixin.qq.com/s/ABC123?x=1",
		"http://mp.weixin.qq.com/s/a_b-c&d=e",
		"https://mp.weixin.qq.com/s/tok",
	}, matches, "fragment and out-of-class characters should end the match")
}

// TestPatternRegexp_ZeroValue verifies a pattern built by hand still matches
func TestPatternRegexp_ZeroValue(t *testing.T) {
	p := Pattern{Host: "example.com", PathPrefix: "/p"}
	assert.True(t, p.Regexp().MatchString("https://example.com/p/abc"))
	assert.False(t, p.Regexp().MatchString("https://example.com/q/abc"))
}

// TestParseVariant verifies variant names
func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("Basic")
	require.NoError(t, err)
	assert.Equal(t, VariantBasic, v)

	v, err = ParseVariant(" enhanced ")
	require.NoError(t, err)
	assert.Equal(t, VariantEnhanced, v)

	_, err = ParseVariant("fancy")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

// TestDefaultConfig verifies defaults
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "mp.weixin.qq.com/s", cfg.Pattern.Needle())
	assert.Equal(t, VariantEnhanced, cfg.Variant)
	assert.False(t, cfg.NormalizeTitles)
	assert.Equal(t, []string{"href", "data-url", "data-link"}, cfg.LinkAttributes)
	assert.Equal(t, []string{"article", "item", "list"}, cfg.ContainerMarkers.Class)
	assert.Equal(t, []string{"article", "item"}, cfg.ContainerMarkers.ID)
	assert.Zero(t, cfg.MaxScriptBytes, "script blocks are not capped by default")
	assert.NoError(t, cfg.Validate())
}

// TestConfigValidate verifies invalid values are reported
func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = "other"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownVariant)

	cfg = DefaultConfig()
	cfg.NumberedLabel = "Article"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxScriptBytes = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Pattern = Pattern{}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidPattern)
}

// TestConfigValidate_NumberedLabel verifies the label takes exactly one %d
func TestConfigValidate_NumberedLabel(t *testing.T) {
	tests := []struct {
		label string
		valid bool
	}{
		{"Article %d", true},
		{"%d", true},
		{"100%% sure %d", true},
		{"Article", false},
		{"%s %d", false},
		{"%d of %d", false},
		{"Article %v", false},
		{"%d%", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.NumberedLabel = tt.label
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
