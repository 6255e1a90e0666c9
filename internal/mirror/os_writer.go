package mirror

import "os"

// OSFileWriter implements FileWriter on the real filesystem.
type OSFileWriter struct{}

var _ FileWriter = (*OSFileWriter)(nil)

func (w *OSFileWriter) Write(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (w *OSFileWriter) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}
