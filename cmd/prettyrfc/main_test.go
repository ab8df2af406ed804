package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	main "github.com/fwojciec/prettyrfc/cmd/prettyrfc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tcpXML = `<?xml version="1.0" encoding="UTF-8"?>
<rfc number="793">
  <front>
    <title>Transmission Control Protocol</title>
    <abstract><t>TCP is a reliable stream protocol.</t></abstract>
  </front>
  <middle>
    <section anchor="intro">
      <name>Introduction</name>
      <t>TCP runs on top of the Internet Protocol described in RFC 791.</t>
    </section>
  </middle>
</rfc>`

const ipText = `
RFC:  791

                           INTERNET PROTOCOL

1.  INTRODUCTION

  The Internet Protocol is designed for use in interconnected systems of
  packet-switched computer communication networks.
`

// archiveServer serves RFC 793 as XML and RFC 791 as plain text.
func archiveServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/rfc/rfc793.xml":
			_, _ = w.Write([]byte(tcpXML))
		case "/rfc/rfc791.txt":
			_, _ = w.Write([]byte(ipText))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes the CLI against dir with a local archive.
func run(t *testing.T, dir, archiveURL string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	global := []string{
		"--db", filepath.Join(dir, "prettyrfc.db"),
		"--cache-dir", filepath.Join(dir, "xml"),
		"--archive-url", archiveURL,
		"--rate", "0",
	}
	err := main.NewMain().Run(context.Background(), append(global, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// Story: Offline library
// A reader fetches an RFC with its references, searches them, reads one as
// markdown and exports the collection.
func TestMain_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	archive := archiveServer(t, &calls)
	dir := t.TempDir()

	// When I fetch RFC 793 and the documents it references
	stdout, _, err := run(t, dir, archive.URL+"/rfc/", "fetch", "rfc793", "--follow", "1")

	// Then both documents are saved
	require.NoError(t, err)
	assert.Contains(t, stdout, "RFC 793")
	assert.Contains(t, stdout, "RFC 791")
	assert.Contains(t, stdout, "Saved 2 documents")

	// And their source is cached on disk
	assert.FileExists(t, filepath.Join(dir, "xml", "RFC793"))
	assert.FileExists(t, filepath.Join(dir, "xml", "RFC791"))
	fetched := calls.Load()

	// When I search for them
	stdout, _, err = run(t, dir, archive.URL+"/rfc/", "search", "reliable", "stream")

	// Then the matching document is listed
	require.NoError(t, err)
	assert.Contains(t, stdout, "RFC 793")
	assert.Contains(t, stdout, "Transmission Control Protocol")

	// When I show one as markdown
	stdout, _, err = run(t, dir, archive.URL+"/rfc/", "show", "RFC 793", "--markdown")

	// Then it is printed without contacting the archive
	require.NoError(t, err)
	assert.Contains(t, stdout, "Introduction")
	assert.Equal(t, fetched, calls.Load())

	// When I export the collection
	out := filepath.Join(dir, "export")
	stdout, _, err = run(t, dir, archive.URL+"/rfc/", "export", out)

	// Then one markdown file per document is written
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 2 documents")
	data, err := os.ReadFile(filepath.Join(out, "rfc793.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Transmission Control Protocol")
	assert.FileExists(t, filepath.Join(out, "rfc791.md"))
}

func TestMain_Run_FetchMissingDocument(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	archive := archiveServer(t, &calls)

	_, stderr, err := run(t, t.TempDir(), archive.URL+"/rfc/", "fetch", "rfc99999")

	require.Error(t, err)
	assert.Contains(t, stderr, "RFC 99999 not found")
}

func TestServeCmd_Run_StopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- main.NewMain().Run(ctx, []string{
			"--db", filepath.Join(t.TempDir(), "prettyrfc.db"),
			"serve", "--addr", "127.0.0.1:0",
		}, &stdout, &stderr)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
