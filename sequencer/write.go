package sequencer

import (
	"bytes"
	"os"
	"path/filepath"

	"text2midi/debug"
)

// Write encodes the track and atomically replaces the file at path: the data
// goes to a temporary file in the same directory which is renamed over path
// once complete. On failure the destination is left untouched and the
// temporary file is removed. Filesystem failures are *IOWriteError.
//
// A symlink at path is followed and its target replaced; the link stays.
// An existing file keeps its permission bits, a new one gets 0644.
func Write(track *Track, path string) error {
	var buf bytes.Buffer
	if err := Encode(track, &buf); err != nil {
		return err
	}

	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}
	mode := os.FileMode(0644)
	if fi, err := os.Stat(target); err == nil && fi.Mode().IsRegular() {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return &IOWriteError{Path: path, Op: "create", Err: err}
	}
	tmpName := tmp.Name()

	done := false
	defer func() {
		if !done {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return &IOWriteError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Chmod(mode); err != nil {
		return &IOWriteError{Path: path, Op: "chmod", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &IOWriteError{Path: path, Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOWriteError{Path: path, Op: "close", Err: err}
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		done = true
		return &IOWriteError{Path: path, Op: "rename", Err: err}
	}
	done = true

	debug.Log("sequencer", "wrote %d bytes to %s", buf.Len(), target)
	return nil
}
