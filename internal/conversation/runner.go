package conversation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	promptPrefix = ">>> "
	replyPrefix  = "<<< "
	bannerWidth  = 30
	maxLineSize  = 1 << 20
)

// ErrNotText is returned when a batch file is not valid UTF-8 text.
var ErrNotText = errors.New("file is not valid text")

// Runner forwards lines to responders and prints the exchange.
type Runner struct {
	newResponder Factory
	in           io.Reader
	out          io.Writer
}

// NewRunner creates a Runner. Interactive input is read from in; all
// transcripts are written to out.
func NewRunner(newResponder Factory, in io.Reader, out io.Writer) *Runner {
	return &Runner{newResponder: newResponder, in: in, out: out}
}

// RespondOnce delegates line to resp, prints the reply and returns it.
func (r *Runner) RespondOnce(ctx context.Context, resp Responder, line string) (string, error) {
	reply, err := resp.Respond(ctx, line)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(r.out, replyPrefix+reply)
	return reply, nil
}

// RunInteractive prompts for lines until input is exhausted. Empty lines
// re-prompt without reaching the responder. ctx is checked between lines only;
// a blocked read is ended by interrupting the process.
func (r *Runner) RunInteractive(ctx context.Context) error {
	resp, err := r.newResponder(ctx)
	if err != nil {
		return fmt.Errorf("failed to create responder: %w", err)
	}
	defer closeResponder(resp)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, promptPrefix)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		}
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if _, err := r.RespondOnce(ctx, resp, line); err != nil {
			log.Printf("Responder error: %v", err)
		}
	}
}

// RunBatch plays every file in dir, in name order, through its own responder.
func (r *Runner) RunBatch(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read batch directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, entry.Name())
		if err := r.runFile(ctx, filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
		fmt.Fprintln(r.out)
	}
	return nil
}

func (r *Runner) runFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	resp, err := r.newResponder(ctx)
	if err != nil {
		return fmt.Errorf("failed to create responder: %w", err)
	}
	defer closeResponder(resp)

	fmt.Fprintln(r.out, strings.Repeat(">", bannerWidth))

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if !utf8.Valid(raw) {
			return fmt.Errorf("%s: %w", path, ErrNotText)
		}
		line := strings.TrimSpace(string(raw))
		fmt.Fprintln(r.out, promptPrefix+line)
		if _, err := r.RespondOnce(ctx, resp, line); err != nil {
			return fmt.Errorf("%s: failed to respond: %w", path, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read batch file %s: %w", path, err)
	}

	fmt.Fprintln(r.out, strings.Repeat("<", bannerWidth))
	return nil
}

func closeResponder(resp Responder) {
	c, ok := resp.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Printf("Warning: failed to close responder: %v", err)
	}
}
