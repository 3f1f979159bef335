package persona

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPrompt_Company(t *testing.T) {
	p := SystemPrompt(Company())

	assert.True(t, strings.HasPrefix(p,
		"You are an expert marketing assistant having a conversation with Breezy Baldwin, a VP of Marketing.\n\nUser Context:\n- Name: Breezy Baldwin\n"))
	assert.Contains(t, p, "- Expertise: Digital marketing, Content strategy, Social media\n")
	assert.Contains(t, p, "- Target_audience: Tech companies and startups\n")
	assert.Contains(t, p, "\nBusiness Context:\n- Products: Marketing consulting, AI marketing assistant\n")
	assert.Contains(t, p, "QUALITY STANDARDS FOR COMPANY MARKETING:")
	assert.NotContains(t, p, "PERSONAL BRANDING")
	assert.Contains(t, p, "RESPONSE QUALITY REQUIREMENTS:")
	assert.Contains(t, p, `"action": null OR { "type": "...", "params": {...} }`)
	assert.Contains(t, p, `Allowed action types: ["scrape_url", "post_tweet"]`)
	assert.True(t, strings.HasSuffix(p, "specific, personalized advice."))
}

func TestSystemPrompt_Personal(t *testing.T) {
	p := SystemPrompt(Personal())

	assert.Contains(t, p, "\nPersonal Brand Context:\n- Personal_brand: ")
	assert.Contains(t, p, "QUALITY STANDARDS FOR PERSONAL BRANDING:")
	assert.NotContains(t, p, "Business Context:")
}

func TestSystemPrompt_FieldOrderIsKept(t *testing.T) {
	p := SystemPrompt(Bundle{
		Style: StyleCompany,
		User:  []Field{{Key: "zeta", Value: "1"}, {Key: "alpha", Value: "2"}},
	})
	assert.Less(t, strings.Index(p, "- Zeta: 1"), strings.Index(p, "- Alpha: 2"))
	assert.NotContains(t, p, "Business Context:")
}

func TestSystemPrompt_InstructionsOverride(t *testing.T) {
	b := Company()
	b.Instructions = "  Write like a pirate.  "
	p := SystemPrompt(b)
	assert.Contains(t, p, "\nWrite like a pirate.\n\nRESPONSE QUALITY REQUIREMENTS:")
	assert.NotContains(t, p, "QUALITY STANDARDS FOR COMPANY MARKETING:")
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"company", "personal"}, r.Names())

	b, err := r.Get("personal")
	require.NoError(t, err)
	assert.Equal(t, StylePersonal, b.Style)

	_, err = r.Get("nobody")
	assert.ErrorIs(t, err, ErrUnknownPersona)
}

func TestRegistry_LoadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme.txt"), []byte("Sell rockets."), 0o644))
	path := filepath.Join(dir, "personas.yml")
	require.NoError(t, os.WriteFile(path, []byte(`personas:
  - name: acme
    style: company
    user:
      - {key: name, value: Wile E. Coyote}
      - {key: profession, value: Genius}
    context:
      - {key: products, values: [rockets, anvils]}
    instructions-file: acme.txt
  - name: personal
    style: personal
    user:
      - {key: name, value: Someone Else}
`), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadFile(path))
	assert.Equal(t, []string{"acme", "company", "personal"}, r.Names())

	acme, err := r.Get("acme")
	require.NoError(t, err)
	assert.Equal(t, "Genius", acme.Lookup("profession"))
	assert.Equal(t, "rockets, anvils", acme.Context[0].Text())
	assert.Equal(t, "Sell rockets.", acme.Instructions)

	personal, err := r.Get("personal")
	require.NoError(t, err)
	assert.Equal(t, "Someone Else", personal.Lookup("name"))
}

func TestRegistry_LoadFileMissingIsFine(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.LoadFile(filepath.Join(t.TempDir(), "nope.yml")))
	assert.Len(t, r.Names(), 2)
}

func TestRegistry_LoadFileRejectsBadStyle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yml")
	require.NoError(t, os.WriteFile(path, []byte("personas:\n  - name: x\n    style: chaotic\n"), 0o644))
	assert.ErrorContains(t, NewRegistry().LoadFile(path), "unknown style")
}
