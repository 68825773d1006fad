package detector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDetect_DotNetCore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Program.cs", "class Program {}")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Properties"), 0o755))

	d := New(nil)
	assert.Equal(t, DotNetCore, d.Detect(dir))
}

func TestDetect_WebFormsTakesPriorityOverDotNetCore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Program.cs", "class Program {}")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Properties"), 0o755))
	writeFile(t, dir, "Web.config", "<configuration/>")

	d := New(nil)
	assert.Equal(t, WebForms, d.Detect(dir))
}

func TestDetect_React(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies":{"react-dom":"18.0.0"}}`)

	d := New(nil)
	assert.Equal(t, React, d.Detect(dir))
}

func TestDetect_NodeJSWhenNotAngularOrVue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies":{"express":"4.0.0"}}`)

	d := New(nil)
	assert.Equal(t, NodeJS, d.Detect(dir))
}

func TestDetect_AngularWinsOverPackageJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{}`)
	writeFile(t, dir, "angular.json", `{}`)

	d := New(nil)
	assert.Equal(t, Angular, d.Detect(dir))
}

func TestDetect_SQLDatabaseByFileCount(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 6; i++ {
		writeFile(t, dir, filepath.Join("db", "migration"+string(rune('0'+i))+".sql"), "SELECT 1;")
	}

	d := New(nil)
	assert.Equal(t, SQLDatabase, d.Detect(dir))
}

func TestDetect_SQLDatabaseBySchemaFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schema.sql", "CREATE TABLE t(id int);")

	d := New(nil)
	assert.Equal(t, SQLDatabase, d.Detect(dir))
}

func TestDetect_MixedWhenMultipleNonPriorityMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "flask")
	writeFile(t, dir, "pom.xml", "<project/>")

	d := New(nil)
	assert.Equal(t, Mixed, d.Detect(dir))
}

func TestDetect_UnknownForEmptyTree(t *testing.T) {
	dir := t.TempDir()

	d := New(nil)
	assert.Equal(t, Unknown, d.Detect(dir))
}

func TestDetect_ExcludesNodeModulesFromSQLCount(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, dir, filepath.Join("node_modules", "pkg", "f"+string(rune('0'+i))+".sql"), "SELECT 1;")
	}

	d := New(nil)
	assert.Equal(t, Unknown, d.Detect(dir))
}
