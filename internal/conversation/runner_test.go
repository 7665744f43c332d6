package conversation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// countingResponder numbers its replies so state leaks between conversations show up.
type countingResponder struct {
	id     int
	seen   int
	closed *int
}

func (c *countingResponder) Respond(_ context.Context, input string) (string, error) {
	c.seen++
	return fmt.Sprintf("r%d#%d:%s", c.id, c.seen, input), nil
}

func (c *countingResponder) Close() error {
	*c.closed++
	return nil
}

func countingFactory(created, closed *int) Factory {
	return func(context.Context) (Responder, error) {
		*created++
		return &countingResponder{id: *created, closed: closed}, nil
	}
}

type failingResponder struct{}

func (failingResponder) Respond(context.Context, string) (string, error) {
	return "", errors.New("boom")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunBatch_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "chat.txt"), "hi\n  bye  \n")

	var out strings.Builder
	r := NewRunner(NewEcho, strings.NewReader(""), &out)
	if err := r.RunBatch(context.Background(), dir); err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}

	want := strings.Join([]string{
		"chat.txt",
		strings.Repeat(">", 30),
		">>> hi",
		"<<< hi",
		">>> bye",
		"<<< bye",
		strings.Repeat("<", 30),
		"",
		"",
	}, "\n")
	if out.String() != want {
		t.Errorf("unexpected transcript:\n%q\nwant:\n%q", out.String(), want)
	}
	if n := strings.Count(out.String(), ">>> "); n != 2 {
		t.Errorf("expected 2 prompts, got %d", n)
	}
}

func TestRunBatch_FreshResponderPerFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "one\ntwo\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "three\n")
	writeFile(t, filepath.Join(dir, "nested", "ignored.txt"), "skip me\n")

	var created, closed int
	var out strings.Builder
	r := NewRunner(countingFactory(&created, &closed), strings.NewReader(""), &out)
	if err := r.RunBatch(context.Background(), dir); err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}

	if created != 2 || closed != 2 {
		t.Errorf("expected 2 responders created and closed, got %d/%d", created, closed)
	}
	transcript := out.String()
	for _, want := range []string{"<<< r1#1:one", "<<< r1#2:two", "<<< r2#1:three"} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q:\n%s", want, transcript)
		}
	}
	if strings.Contains(transcript, "skip me") {
		t.Error("sub-directories should not be played")
	}
	if strings.Index(transcript, "a.txt") > strings.Index(transcript, "b.txt") {
		t.Error("files should be played in name order")
	}
}

func TestRunBatch_MissingDirectory(t *testing.T) {
	r := NewRunner(NewEcho, strings.NewReader(""), &strings.Builder{})
	err := r.RunBatch(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRunBatch_NotText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "blob.bin"), "\xff\xfe\x00\x01\n")

	r := NewRunner(NewEcho, strings.NewReader(""), &strings.Builder{})
	if err := r.RunBatch(context.Background(), dir); !errors.Is(err, ErrNotText) {
		t.Fatalf("expected ErrNotText, got %v", err)
	}
}

func TestRunBatch_ResponderError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hi\n")

	factory := func(context.Context) (Responder, error) { return failingResponder{}, nil }
	r := NewRunner(factory, strings.NewReader(""), &strings.Builder{})
	if err := r.RunBatch(context.Background(), dir); err == nil {
		t.Fatal("expected responder error to stop the batch")
	}
}

func TestRunInteractive(t *testing.T) {
	var created, closed int
	var out strings.Builder
	r := NewRunner(countingFactory(&created, &closed), strings.NewReader("hello\n\n world \n"), &out)
	if err := r.RunInteractive(context.Background()); err != nil {
		t.Fatalf("RunInteractive returned error: %v", err)
	}

	want := ">>> <<< r1#1:hello\n>>> >>> <<< r1#2: world \n>>> \n"
	if out.String() != want {
		t.Errorf("unexpected transcript:\n%q\nwant:\n%q", out.String(), want)
	}
	if created != 1 || closed != 1 {
		t.Errorf("expected a single responder, got created=%d closed=%d", created, closed)
	}
}

func TestRunInteractive_ResponderErrorIsNotFatal(t *testing.T) {
	factory := func(context.Context) (Responder, error) { return failingResponder{}, nil }
	var out strings.Builder
	r := NewRunner(factory, strings.NewReader("a\nb\n"), &out)
	if err := r.RunInteractive(context.Background()); err != nil {
		t.Fatalf("RunInteractive returned error: %v", err)
	}
	if n := strings.Count(out.String(), ">>> "); n != 3 {
		t.Errorf("expected 3 prompts, got %d", n)
	}
}

func TestRunInteractive_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(NewEcho, strings.NewReader("hello\n"), &strings.Builder{})
	if err := r.RunInteractive(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRespondOnce(t *testing.T) {
	var out strings.Builder
	r := NewRunner(NewEcho, strings.NewReader(""), &out)
	reply, err := r.RespondOnce(context.Background(), Echo{}, "ping")
	if err != nil {
		t.Fatalf("RespondOnce returned error: %v", err)
	}
	if reply != "ping" || out.String() != "<<< ping\n" {
		t.Errorf("reply=%q output=%q", reply, out.String())
	}
}
