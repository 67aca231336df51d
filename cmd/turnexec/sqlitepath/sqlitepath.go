// Package sqlitepath finds the execution journal database for commands that
// read it back.
package sqlitepath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/turnexec/pkg/dotdir"
)

// JournalFile is the conventional journal file name inside .turnexec/.
const JournalFile = "journal.db"

// ResolveJournalPath returns override when set, otherwise the first existing
// conventional journal location.
func ResolveJournalPath(override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}

	for _, candidate := range journalCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.New("could not find a turnexec journal; pass --journal")
}

func journalCandidates() []string {
	candidates := []string{
		"turnexec.db",
		filepath.Join(dotdir.DirName, JournalFile),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, dotdir.DirName, JournalFile))
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append(candidates, filepath.Join(xdgHome, "turnexec", JournalFile))
	}

	return candidates
}
