package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/emersion/go-message/mail"
	"github.com/mikey/email-munger/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var thread = []string{
	"Some cover page",
	"From: Smith, John Q <jsmith@example.com>",
	"Sent: Monday, March 2, 2015 9:14 AM",
	"To: Doe, Jane <jane.doe@example.com>; Roe, Rick <rroe@example.com>",
	"Subject: Budget",
	"Please see the attached budget.",
	"Thanks",
	"From: Doe, Jane <jane.doe@example.com>",
	"Sent: Monday, March 2, 2015 10:02 AM",
	"To: Smith, John Q <jsmith@example.com>",
	"Subject: RE: Budget",
	"Looks good.",
}

func newTestExporter(t *testing.T) (*EMLExporter, *core.DocumentParser, string) {
	t.Helper()
	settings := core.DefaultSettings()
	identity := core.NewIdentityParser(settings.Sentinel, settings.RedactionCutoff)
	dir := filepath.Join(t.TempDir(), "out")
	return NewEMLExporter(dir, identity, zap.NewNop()), core.NewDocumentParser(settings, identity, zap.NewNop()), dir
}

func readMessage(t *testing.T, path string) (*mail.Reader, string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	mr, err := mail.CreateReader(f)
	require.NoError(t, err)
	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	return mr, string(body)
}

func TestEMLExporter_Export(t *testing.T) {
	exporter, parser, dir := newTestExporter(t)
	doc := parser.Parse(&core.RawDocument{ID: "007", Lines: thread})

	paths, err := exporter.Export(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "007-1.eml"),
		filepath.Join(dir, "007-2.eml"),
	}, paths)

	mr, body := readMessage(t, paths[0])

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "John Q Smith", from[0].Name)
	assert.Equal(t, "jsmith@example.com", from[0].Address)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 2)
	assert.Equal(t, "jane.doe@example.com", to[0].Address)
	assert.Equal(t, "rroe@example.com", to[1].Address)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Budget", subject)

	sent, err := mr.Header.Text("X-Original-Sent")
	require.NoError(t, err)
	assert.Equal(t, "Monday, March 2, 2015 9:14 AM", sent)

	original, err := mr.Header.Text("X-Original-To")
	require.NoError(t, err)
	assert.Equal(t, "Doe, Jane <jane.doe@example.com>; Roe, Rick <rroe@example.com>", original)

	assert.False(t, mr.Header.Has("Cc"))
	assert.Contains(t, body, "Please see the attached budget.")
	assert.Contains(t, body, "Thanks")
}

func TestEMLExporter_SkipsNonEmails(t *testing.T) {
	exporter, parser, dir := newTestExporter(t)
	doc := parser.Parse(&core.RawDocument{ID: "noise", Lines: []string{
		"From: Smith, John Q <jsmith@example.com>",
		"Sent: Monday, March 2, 2015 9:14 AM",
		"Subject: Budget",
		"Thanks",
		"From:",
		"Sent:",
	}})
	require.Equal(t, 2, doc.Len())

	paths, err := exporter.Export(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "noise-1.eml")}, paths)
}

func TestEMLExporter_Cancelled(t *testing.T) {
	exporter, parser, _ := newTestExporter(t)
	doc := parser.Parse(&core.RawDocument{ID: "007", Lines: thread})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := exporter.Export(ctx, doc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}
