package wizard

import (
	"os"
	"path/filepath"
)

// filePermOr returns path's permission bits, or fallback when the file
// does not exist.
func filePermOr(path string, fallback os.FileMode) (os.FileMode, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fallback, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}

// writeBackup writes data to path and returns the backup path.
func writeBackup(path string, data []byte, perm os.FileMode) (string, error) {
	if err := os.WriteFile(path, data, perm); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileAtomic writes data through a temp file in path's directory and
// renames it into place, so readers never observe a partial write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
