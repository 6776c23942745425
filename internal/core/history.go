package core

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Restore replaces the vault file with a previously recorded envelope. The
// envelope must decrypt with masterPassword; the vault ends unlocked on the
// restored secrets. The file being replaced is recorded first.
func (v *Vault) Restore(envelope []byte, masterPassword string) error {
	file, err := parseEnvelope(envelope)
	if err != nil {
		return err
	}

	key, data, err := v.open(file, masterPassword)
	if err != nil {
		return err
	}

	if err := v.replace(envelope); err != nil {
		key.Destroy()
		return err
	}

	v.setSession(key, file.Salt, file.CreatedAt, data)
	v.log.Info("vault restored from snapshot", "path", v.path, "snapshot_modified", file.ModifiedAt)
	return nil
}

// DiffSnapshot compares the entries of a recorded envelope with the unlocked
// vault. Lines prefixed with "-" exist only in the snapshot, "+" only in the
// current vault. Secret values are never part of the output.
func (v *Vault) DiffSnapshot(envelope []byte, masterPassword string) (string, error) {
	if !v.IsUnlocked() {
		return "", ErrWrongPassword
	}

	file, err := parseEnvelope(envelope)
	if err != nil {
		return "", err
	}

	key, old, err := v.open(file, masterPassword)
	if err != nil {
		return "", err
	}
	key.Destroy()

	return lineDiff(old.Summary(), v.data.Summary()), nil
}

// lineDiff renders a line-mode diff of two texts in unified style.
func lineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprintf(&out, "%s %s", prefix, line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}
