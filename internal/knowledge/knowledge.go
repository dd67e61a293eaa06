/*
Package knowledge loads the local knowledge corpus read at cycle start.
*/
package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Load reads every .txt and .md document under dir, sorted by file name, and
// joins them under per-file headers. A missing directory is not an error and
// yields empty knowledge text; an unreadable file is skipped with a warning.
func Load(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read knowledge dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".txt", ".md":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warnf("Skipping unreadable knowledge file %s: %v", name, err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("## " + name + "\n\n")
		sb.WriteString(strings.TrimSpace(string(data)))
	}
	return sb.String(), nil
}
