package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/pkg/version"
)

// writeTestDoc drops a valid metadata/body pair into the content tree.
func writeTestDoc(t *testing.T, contentDir string, ct content.ContentType, slug, locale string) {
	t.Helper()
	dir := filepath.Join(contentDir, ct.PathSegment(), slug, locale)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	meta := content.Metadata{
		Slug:        slug,
		Title:       "Title " + slug,
		Description: "Description for " + slug,
		Locale:      locale,
		Status:      content.StatusPublished,
		Editorial: content.Editorial{
			LastReviewed:     "2026-01-15",
			Reviewer:         content.Reviewer{Name: "Dr. Example"},
			EvidenceStrength: content.StrengthGuideline,
			EvidenceLevel:    content.EvidenceB,
			Version:          1,
		},
		AudienceLevel:       content.AudienceLevel{Public: true},
		ReviewCadenceMonths: 12,
		Synonyms:            []string{"mdd"},
	}
	raw, err := json.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metadata.json"), raw, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte("# "+slug+"\n\nReferences: [1]"), 0o644))
}

// newContentTree seeds a temp tree and points the config env at it.
func newContentTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestDoc(t, dir, content.TypeCondition, "depression", "en")
	t.Setenv("CONTENTCORE_CONTENT_DIR", dir)
	return dir
}

func TestRootCmd_ShowsHelp(t *testing.T) {
	// Given: a root command

	// When: executing with --help
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()

	// Then: it should show usage information
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "contentcore", "Help should mention program name")
	assert.Contains(t, output, "Usage:", "Help should show usage")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	// Given: a root command
	cmd := NewRootCmd()

	// When: checking available commands
	var commandNames []string
	for _, subcmd := range cmd.Commands() {
		commandNames = append(commandNames, subcmd.Name())
	}

	// Then: the full command surface should exist
	for _, name := range []string{"index", "search", "resolve", "validate", "health", "serve", "version"} {
		assert.Contains(t, commandNames, name, "Should have %s subcommand", name)
	}
}

func TestVersionCmd_DefaultOutput(t *testing.T) {
	// Given: a version command
	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	// When: executing without flags
	err := cmd.Execute()

	// Then: it should output the full version string
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "contentcore", "Output should contain program name")
	assert.Contains(t, output, version.Version, "Output should contain version")
	assert.Contains(t, output, "commit", "Output should contain commit info")
}

func TestVersionCmd_ShortOutput(t *testing.T) {
	// Given: a version command with --short flag
	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--short"})

	// When: executing with --short
	err := cmd.Execute()

	// Then: it should output only the version number
	require.NoError(t, err)
	assert.Equal(t, version.Version, strings.TrimSpace(buf.String()))
}

func TestVersionCmd_JSONOutput(t *testing.T) {
	// Given: a version command with --json flag
	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--json"})

	// When: executing with --json
	err := cmd.Execute()

	// Then: it should output valid JSON with all fields
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, version.Version, info["version"])
	assert.Contains(t, info, "commit")
	assert.Contains(t, info, "go_version")
}

func TestIndexCmd_WritesArtifact(t *testing.T) {
	// Given: a content tree with one published condition
	newContentTree(t)
	artifact := filepath.Join(t.TempDir(), "search-index.json")

	// When: executing index --output
	cmd := newIndexCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--output", artifact})

	err := cmd.Execute()

	// Then: the artifact should exist and report one entry
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed 1 entries")
	_, statErr := os.Stat(artifact)
	assert.NoError(t, statErr)
}

func TestSearchCmd_FindsViaSynonym(t *testing.T) {
	// Given: a content tree indexed to an artifact
	newContentTree(t)
	artifact := filepath.Join(t.TempDir(), "search-index.json")

	idx := newIndexCmd()
	idx.SetOut(&bytes.Buffer{})
	idx.SetArgs([]string{"--output", artifact})
	require.NoError(t, idx.Execute())

	// When: searching by synonym
	cmd := newSearchCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"mdd", "--artifact", artifact})

	err := cmd.Execute()

	// Then: the condition should be found
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Title depression")
}

func TestSearchCmd_NoResults(t *testing.T) {
	// Given: a content tree indexed to an artifact
	newContentTree(t)
	artifact := filepath.Join(t.TempDir(), "search-index.json")

	idx := newIndexCmd()
	idx.SetOut(&bytes.Buffer{})
	idx.SetArgs([]string{"--output", artifact})
	require.NoError(t, idx.Execute())

	// When: searching for something unindexed
	cmd := newSearchCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"zzznope", "--artifact", artifact})

	err := cmd.Execute()

	// Then: it should report no results without failing
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found")
}

func TestResolveCmd_OutputsDocument(t *testing.T) {
	// Given: a content tree with one published condition
	newContentTree(t)

	// When: resolving it
	cmd := newResolveCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"condition", "depression", "--locale", "en"})

	err := cmd.Execute()

	// Then: the document JSON should come back
	require.NoError(t, err)
	var doc content.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "depression", doc.Metadata.Slug)
}

func TestResolveCmd_UnknownSlug(t *testing.T) {
	// Given: a content tree without the requested slug
	newContentTree(t)

	// When: resolving a missing document
	cmd := newResolveCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"condition", "nope"})

	err := cmd.Execute()

	// Then: it should fail with a not-found message
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no condition found")
}

func TestValidateCmd_ValidTree(t *testing.T) {
	// Given: a valid content tree
	newContentTree(t)

	// When: validating
	cmd := newValidateCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()

	// Then: it should report success
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "valid")
}

func TestValidateCmd_InvalidTree(t *testing.T) {
	// Given: a tree with a malformed metadata file
	dir := newContentTree(t)
	bad := filepath.Join(dir, "conditions", "broken", "en")
	require.NoError(t, os.MkdirAll(bad, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "metadata.json"), []byte("{oops"), 0o644))

	// When: validating
	cmd := newValidateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()

	// Then: the failure should name the file
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestHealthCmd_SummaryOutput(t *testing.T) {
	// Given: a content tree with one published condition
	newContentTree(t)

	// When: running the audit
	cmd := newHealthCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()

	// Then: the summary should count the document
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "condition/depression")
	assert.Contains(t, output, "Total: 1 documents (1 published, 0 drafts)")
}
