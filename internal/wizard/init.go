package wizard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	toml "github.com/pelletier/go-toml"

	"github.com/conn-castle/spawn-layer/internal/config"
	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/templates"
)

// RunInit materializes the default config under root. A missing config is
// written outright. An existing config is first shown as a unified diff
// against the template; applying requires force, and the previous content
// is kept next to it as a .bak file.
func RunInit(root string, force bool, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}
	templateBytes, err := templates.Read("config.toml")
	if err != nil {
		return fmt.Errorf(messages.ConfigFailedReadTemplateFmt, err)
	}

	paths := config.DefaultPaths(root)
	current, err := os.ReadFile(paths.ConfigPath)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
			return err
		}
		if err := writeFileAtomic(paths.ConfigPath, templateBytes, 0o644); err != nil {
			return fmt.Errorf(messages.InitWriteFmt, err)
		}
		_, _ = fmt.Fprintf(out, messages.InitCreatedFmt+"\n", relPath(root, paths.ConfigPath))
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := toml.LoadBytes(current); err != nil {
		_, _ = fmt.Fprintf(out, messages.InitCurrentInvalidFmt+"\n", err)
	}

	preview := strings.TrimSpace(udiff.Unified(
		".spawn-layer/config.toml (current)",
		"config.toml (template)",
		string(current),
		string(templateBytes),
	))
	if preview == "" {
		_, _ = fmt.Fprintf(out, messages.InitUpToDateFmt+"\n", relPath(root, paths.ConfigPath))
		return nil
	}

	_, _ = fmt.Fprintf(out, "%s\n\n%s\n", messages.InitPreviewHeader, preview)
	if !force {
		_, _ = fmt.Fprintln(out, messages.InitPreviewOnly)
		return nil
	}

	perm, err := filePermOr(paths.ConfigPath, 0o644)
	if err != nil {
		return err
	}
	backupPath, err := writeBackup(paths.ConfigPath+".bak", current, perm)
	if err != nil {
		return fmt.Errorf(messages.InitBackupFmt, err)
	}
	if err := writeFileAtomic(paths.ConfigPath, templateBytes, perm); err != nil {
		return fmt.Errorf(messages.InitWriteFmt, err)
	}
	_, _ = fmt.Fprintf(out, messages.InitAppliedFmt+"\n", relPath(root, paths.ConfigPath), relPath(root, backupPath))
	return nil
}

// relPath renders path relative to root for display, falling back to the
// absolute path.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
