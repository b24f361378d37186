package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_ReportsWithoutWriting(t *testing.T) {
	docPath := writeSampleDoc(t)

	out, _, err := executeCommand(t, "plan", "--rules", "testdata/harvest-form.yaml", docPath)
	require.NoError(t, err)

	assert.Contains(t, out, "lines 7 -> 13")
	assert.Contains(t, out, "transport-checkbox: 1 fired, 1 suppressed")
	assert.Contains(t, out, "no changes written")
	assert.Equal(t, sampleDoc, readFile(t, docPath))
}

func TestPlan_ChainsPasses(t *testing.T) {
	docPath := writeSampleDoc(t)

	out, _, err := executeCommand(t, "plan",
		"--rules", "testdata/marketplace.yaml",
		"--rules", "testdata/harvest-form.yaml",
		docPath)
	require.NoError(t, err)

	// First pass expands the matched card by two lines; the second
	// pass sees that output as its input.
	assert.Contains(t, out, "pass marketplace-cards")
	assert.Contains(t, out, "lines 7 -> 9")
	assert.Contains(t, out, "lines 9 -> 15")
	assert.Equal(t, sampleDoc, readFile(t, docPath))
}

func TestPlan_MissingDocument(t *testing.T) {
	_, _, err := executeCommand(t, "plan",
		"--rules", "testdata/marketplace.yaml", "no-such-file.html")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPlan_JSONReport(t *testing.T) {
	docPath := writeSampleDoc(t)

	out, _, err := executeCommand(t, "--format", "json",
		"plan", "--rules", "testdata/marketplace.yaml", docPath)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Data.Committed)
	require.Len(t, resp.Data.Passes, 1)

	pass := resp.Data.Passes[0]
	assert.Equal(t, "marketplace-cards", pass.RuleSet)
	assert.Len(t, pass.Fingerprint, 64)
	assert.Equal(t, 1, pass.Firings["golden-apples-card"])
	assert.NotContains(t, pass.Firings, "navot-melons-card",
		"rules with no matching line report nothing")
}
