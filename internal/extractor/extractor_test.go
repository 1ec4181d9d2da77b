package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtract_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "Paris is the capital of France.")
	assert.Equal(t, "Paris is the capital of France.", Extract(path))
}

func TestExtract_CodeFile(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nfunc main() {}\n"
	path := writeFile(t, dir, "main.go", src)
	assert.Equal(t, src, Extract(path))
}

func TestExtract_InvalidUTF8Replaced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte{'h', 'i', 0xff, 0xfe, '!'}, 0o644))
	text := Extract(path)
	assert.Contains(t, text, "hi")
	assert.Contains(t, text, "�")
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "image.png", "not really an image")
	assert.Empty(t, Extract(path))
}

func TestExtract_MissingFile(t *testing.T) {
	assert.Empty(t, Extract(filepath.Join(t.TempDir(), "missing.txt")))
}

func TestExtract_CorruptPDF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.pdf", "definitely not a pdf")
	assert.Empty(t, Extract(path))
}

func TestExtract_CorruptDocx(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.docx", "not a zip archive")
	assert.Empty(t, Extract(path))
}

func TestExtract_Markdown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "readme.md", "# Title\n\nSome *emphasised* text.\n\n```\ncode line\n```\n")
	text := Extract(path)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "emphasised")
	assert.Contains(t, text, "code line")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "*")
}

func TestExtract_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "NOTES.TXT", "upper case extension")
	assert.Equal(t, "upper case extension", Extract(path))
}
