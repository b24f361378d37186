package journal

import (
	"context"
	"encoding/json"
	"fmt"
)

// RunRecord describes one committed patch pass.
type RunRecord struct {
	// RunID identifies the run that executed the pass (UUIDv7).
	RunID string

	// DocumentPath is the path of the patched document.
	DocumentPath string

	// RuleSetName is the human name of the rule set.
	RuleSetName string

	// Fingerprint is the rule set's content fingerprint.
	Fingerprint string

	// InputHash and OutputHash are hex SHA-256 of the document content
	// before and after the pass.
	InputHash  string
	OutputHash string

	// Firings maps rule name to the number of matches that changed
	// output during the pass.
	Firings map[string]int
}

// Record inserts a run record into the journal.
// Uses ON CONFLICT(fingerprint, input_hash) DO NOTHING for idempotency:
// re-recording the same pass over the same content is silently ignored.
func (j *Journal) Record(ctx context.Context, rec RunRecord) error {
	firingsJSON, err := json.Marshal(rec.Firings)
	if err != nil {
		return fmt.Errorf("record run: marshal firings: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, document_path, ruleset_name, fingerprint, input_hash, output_hash, firings)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint, input_hash) DO NOTHING
	`,
		rec.RunID,
		rec.DocumentPath,
		rec.RuleSetName,
		rec.Fingerprint,
		rec.InputHash,
		rec.OutputHash,
		string(firingsJSON),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	return nil
}

// AlreadyApplied reports whether some journaled pass of the given rule
// set produced exactly the given content. A true result means applying
// the set again would re-patch already patched output.
func (j *Journal) AlreadyApplied(ctx context.Context, fingerprint, contentHash string) (bool, error) {
	var count int
	err := j.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM runs
		WHERE fingerprint = ? AND output_hash = ?
	`, fingerprint, contentHash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check applied: %w", err)
	}
	return count > 0, nil
}
