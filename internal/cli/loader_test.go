package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftline/weft/internal/rule"
)

func TestLoadRuleSet_Marketplace(t *testing.T) {
	set, err := LoadRuleSet("testdata/marketplace.yaml")
	require.NoError(t, err)

	assert.Equal(t, "marketplace-cards", set.Name)
	require.Len(t, set.Rules, 4)

	first := set.Rules[0]
	assert.Equal(t, "golden-apples-card", first.Name)
	assert.Equal(t, "addToCart('Golden Apples', 0.45, 'Farruh M.')", first.Pattern)
	assert.Equal(t, rule.Replace, first.Kind)
	require.Len(t, first.Block, 3)
	assert.Contains(t, first.Block[2], "'+998901234567', true")

	assert.Empty(t, set.Validate())
}

func TestLoadRuleSet_HarvestForm(t *testing.T) {
	set, err := LoadRuleSet("testdata/harvest-form.yaml")
	require.NoError(t, err)

	require.Len(t, set.Rules, 1)
	r := set.Rules[0]
	assert.Equal(t, rule.InsertBeforeOnce, r.Kind)
	assert.Equal(t, `<button type="submit"`, r.Pattern)
	assert.Len(t, r.Block, 6)
}

func TestLoadRuleSet_MissingFile(t *testing.T) {
	set, err := LoadRuleSet(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Nil(t, set)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Message, "cannot read")
}

func TestLoadRuleSet_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed\n"), 0o644))

	_, err := LoadRuleSet(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Message, "cannot parse")
}

func TestLoadRuleSet_PreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordered.yaml")
	content := `name: ordered
rules:
  - name: zeta
    match: z
    action: replace
    block: [zz]
  - name: alpha
    match: a
    action: replace
    block: [aa]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := LoadRuleSet(path)
	require.NoError(t, err)
	require.Len(t, set.Rules, 2)
	assert.Equal(t, "zeta", set.Rules[0].Name, "file order is evaluation order")
	assert.Equal(t, "alpha", set.Rules[1].Name)
}

func TestLoadRuleSet_UnknownActionSurvivesToValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown.yaml")
	content := `name: unknown-action
rules:
  - name: r
    match: m
    action: append-after
    block: [x]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := LoadRuleSet(path)
	require.NoError(t, err, "loading is syntactic; validation catches the bad action")

	errs := set.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "action", errs[0].Field)
}
