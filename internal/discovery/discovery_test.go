package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/resgate/internal/errors"
)

type recordingLogger struct {
	infos  []string
	debugs []string
}

func (l *recordingLogger) Infow(msg string, _ ...any)  { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Debugw(msg string, _ ...any) { l.debugs = append(l.debugs, msg) }

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("steps: []\n"), 0644))
	}
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.yaml", "A.yml", ".hidden.yaml", "readme.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755))

	result, err := FindScenarioFilesWithLogging(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "A.yml"), filepath.Join(dir, "b.yaml")}, result.Files)
}

func TestFindScenarioFilesWithLogging(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "1.yaml", "2.yaml", "3.yaml", "4.yaml", "5.yaml", "6.yaml", "notes.txt")

	logger := &recordingLogger{}
	result, err := FindScenarioFilesWithLogging(dir, logger)
	require.NoError(t, err)

	assert.Len(t, result.Files, 6)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, []string{"found scenario files"}, logger.infos)
	assert.Len(t, logger.debugs, 6)
}

func TestFindScenarioFilesErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := FindScenarioFilesWithLogging(filepath.Join(dir, "missing"), nil)
	assert.True(t, errors.IsKind(err, errors.KindPath))

	writeFiles(t, dir, "file.yaml")
	_, err = FindScenarioFilesWithLogging(filepath.Join(dir, "file.yaml"), nil)
	assert.True(t, errors.IsKind(err, errors.KindPath))

	empty := t.TempDir()
	writeFiles(t, empty, "notes.txt")
	_, err = FindScenarioFilesWithLogging(empty, nil)
	assert.True(t, errors.IsKind(err, errors.KindNoScenarios))
}
