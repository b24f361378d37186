package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/weftline/weft/internal/rule"
)

// FileValidation holds validation results for one rule file.
type FileValidation struct {
	Path   string                 `json:"path"`
	Valid  bool                   `json:"valid"`
	Errors []rule.ValidationError `json:"errors,omitempty"`
}

// ValidationReport holds validation results for all rule files.
type ValidationReport struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rules-file> [rules-file...]",
		Short: "Validate rule files without patching anything",
		Long: `Validate rule files: YAML syntax, required fields, unique rule
names, known actions, nonempty patterns and blocks. Also flags patterns
that are not NFC-normalized; matching is byte-exact, so a visually
identical NFC line in the document would never match such a pattern.

Collects all problems across all files before reporting.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := NewFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	report := &ValidationReport{Valid: true}

	for _, path := range paths {
		fv := FileValidation{Path: path, Valid: true}

		set, err := LoadRuleSet(path)
		if err != nil {
			fv.Valid = false
			fv.Errors = append(fv.Errors, rule.ValidationError{
				Field:   "file",
				Message: err.Error(),
			})
			report.Valid = false
			report.Files = append(report.Files, fv)
			continue
		}
		formatter.VerboseLog("loaded %s: rule set %q with %d rule(s)", path, set.Name, len(set.Rules))

		errs := set.Validate()
		errs = append(errs, lintPatterns(set)...)
		if len(errs) > 0 {
			fv.Valid = false
			fv.Errors = errs
			report.Valid = false
		}
		report.Files = append(report.Files, fv)
	}

	if err := formatter.Success(report, report.render); err != nil {
		return err
	}
	if !report.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// lintPatterns flags rule patterns that are not in NFC form. Matching
// is exact byte containment, so a pattern carrying a decomposed
// character sequence will never match the NFC-composed text an editor
// typically saves.
func lintPatterns(set *rule.Set) []rule.ValidationError {
	var errs []rule.ValidationError
	for i := range set.Rules {
		r := &set.Rules[i]
		if !norm.NFC.IsNormalString(r.Pattern) {
			errs = append(errs, rule.ValidationError{
				Rule:    r.Name,
				Field:   "match",
				Message: "pattern is not NFC-normalized and will not match NFC document text",
			})
		}
	}
	return errs
}

// render writes the human-readable form of the validation report.
func (r *ValidationReport) render(w io.Writer) {
	for _, f := range r.Files {
		if f.Valid {
			fmt.Fprintf(w, "%s: ok\n", f.Path)
			continue
		}
		fmt.Fprintf(w, "%s: %d problem(s)\n", f.Path, len(f.Errors))
		for _, e := range f.Errors {
			fmt.Fprintf(w, "  %s\n", e.Error())
		}
	}
}
