package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>Log</title><style>body{}</style></head>
<body>
<div>Log submitted by: Bob</div>
<div>Tab: Frontpage (frontpage)</div>
<b>Report text:</b><hr/>
[12:00] Alice: hi &amp; bye<br/>
[12:01] <i>*Bob waves</i><br>
<script>var x = "[12:02] hidden";</script>
</body></html>`

func TestHTMLToText(t *testing.T) {
	got, err := HTMLToText(samplePage)
	if err != nil {
		t.Fatalf("HTMLToText: %v", err)
	}
	for _, want := range []string{
		"Log submitted by: Bob\n",
		"Tab: Frontpage (frontpage)\n",
		"Report text:\n",
		"[12:00] Alice: hi & bye\n",
		"[12:01] *Bob waves",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTMLToText output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "hidden") || strings.Contains(got, "body{}") {
		t.Errorf("HTMLToText kept script or style text:\n%s", got)
	}
}

func TestHTMLToTextKeepsPre(t *testing.T) {
	got, err := HTMLToText("<html><body><pre>[12:00] A: x\n  indented\n[12:01] B: y</pre></body></html>")
	if err != nil {
		t.Fatalf("HTMLToText: %v", err)
	}
	want := "[12:00] A: x\n  indented\n[12:01] B: y"
	if got != want {
		t.Errorf("HTMLToText = %q; want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	doc, err := Parse("[12:00] Alice: hi\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.HTML != "" || doc.Text != "[12:00] Alice: hi\n" {
		t.Errorf("Parse(text) = %+v", doc)
	}

	doc, err = Parse(samplePage)
	if err != nil {
		t.Fatalf("Parse(html): %v", err)
	}
	if doc.HTML != samplePage {
		t.Error("Parse(html) did not keep the raw html")
	}

	if _, err := Parse("  \n\t"); !errors.Is(err, ErrEmpty) {
		t.Errorf("Parse(blank) err = %v; want ErrEmpty", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte("[1:00 PM] Alice: hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(context.Background(), nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Text != "[1:00 PM] Alice: hi" {
		t.Errorf("Text = %q", doc.Text)
	}

	if _, err := Load(context.Background(), nil, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Load(missing) returned nil error")
	}
}

func TestFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("log") == "404" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	url := srv.URL + "/fchat/getLog.php?log=7"
	doc, err := Load(context.Background(), srv.Client(), url)
	if err != nil {
		t.Fatalf("Load(url): %v", err)
	}
	if doc.URL != url {
		t.Errorf("URL = %q; want %q", doc.URL, url)
	}
	if !strings.Contains(doc.Text, "[12:00] Alice: hi & bye") {
		t.Errorf("fetched text missing chat line:\n%s", doc.Text)
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/?log=404"); err == nil {
		t.Error("Fetch(404) returned nil error")
	}
}
