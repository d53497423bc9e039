// Command summarize fetches a news article and prints its summary.
//
// Usage: summarize <url> [--max-length 130] [--min-length 40] [--backend lead]
// [--show-article] [--output text|json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/caarlos0/env/v11"

	"link-summarizer/internal/config"
	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/infra/fetcher"
	"link-summarizer/internal/infra/summarizer"
	"link-summarizer/internal/observability/logging"
	"link-summarizer/internal/usecase/summarize"
	"link-summarizer/internal/utils/text"
)

// CLI is the command line of summarize.
type CLI struct {
	URL         string `arg:"" help:"Link to the news article (pasted text containing a link also works)."`
	MaxLength   int    `help:"Maximum summary length (50-300)." default:"130"`
	MinLength   int    `help:"Minimum summary length (10-150)." default:"40"`
	Backend     string `help:"Summarization backend: huggingface, openai, claude or lead. Defaults to SUMMARIZER_BACKEND."`
	ShowArticle bool   `help:"Also print the extracted article text."`
	Output      string `help:"Output format." enum:"text,json" default:"text"`
	LogLevel    string `help:"Log level for diagnostics on stderr." default:"error"`
}

// Summarizer runs the pipeline.
type Summarizer interface {
	Summarize(ctx context.Context, req entity.Request, observers ...summarize.StageObserver) (*entity.Result, error)
}

// errFailed signals a failure that has already been reported to the user.
var errFailed = errors.New("summarize failed")

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("summarize"),
		kong.Description("Summarize a news article from its link."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(logging.New(os.Stderr, cli.LogLevel, logging.FormatText))

	svc, err := newService(cli.Backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Run(ctx, svc, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// newService builds the pipeline from the environment, with an optional backend override.
func newService(backend string) (*summarize.Service, error) {
	cfg, err := loadConfig(env.ToMap(os.Environ()), backend)
	if err != nil {
		return nil, err
	}

	settings := cfg.SummarizerSettings()
	loader := summarizer.NewLoader(settings.Backend, summarizer.NewFactory(settings, nil), summarizer.LoaderOptions{})
	return summarize.NewService(
		fetcher.NewReadabilityFetcher(cfg.FetcherConfig()),
		loader,
		cfg.Summarizer.MaxInputChars,
	), nil
}

// loadConfig reads the service configuration. A non-empty backend overrides
// SUMMARIZER_BACKEND.
func loadConfig(environ map[string]string, backend string) (*config.Config, error) {
	if backend != "" {
		environ["SUMMARIZER_BACKEND"] = backend
	}
	return config.LoadFrom(environ)
}

// Run summarizes one article. Progress and errors go to stderr, the result to stdout.
func (c *CLI) Run(ctx context.Context, svc Summarizer, stdout, stderr io.Writer) error {
	req := entity.NewRequest(text.ExtractURL(c.URL), c.MaxLength, c.MinLength)

	res, err := svc.Summarize(ctx, req, progress(stderr))
	if err != nil {
		msg := summarize.Render(err)
		fmt.Fprintf(stderr, "%s: %s\n", msg.Level, msg.Text)
		if msg.Hint != "" {
			fmt.Fprintln(stderr, msg.Hint)
		}
		return errFailed
	}

	if c.Output == "json" {
		return writeJSON(stdout, res, c.ShowArticle)
	}
	return writeText(stdout, res, c.ShowArticle)
}

// progress prints one line per stage transition.
func progress(w io.Writer) summarize.StageObserver {
	return func(stage summarize.Stage) {
		switch stage {
		case summarize.StageFetching:
			fmt.Fprintln(w, "Loading the article...")
		case summarize.StageFetched:
			fmt.Fprintln(w, "Article loaded.")
		case summarize.StageSummarizing:
			fmt.Fprintln(w, "Summarizing...")
		}
	}
}

func writeText(w io.Writer, res *entity.Result, showArticle bool) error {
	if res.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n", res.Title); err != nil {
			return err
		}
	}
	if res.Byline != "" {
		if _, err := fmt.Fprintf(w, "%s\n", res.Byline); err != nil {
			return err
		}
	}
	if res.Title != "" || res.Byline != "" {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, res.Summary); err != nil {
		return err
	}
	if res.Truncated {
		if _, err := fmt.Fprintf(w, "\n(Only the first %d characters of the article were summarized.)\n", text.CountRunes(res.InputText)); err != nil {
			return err
		}
	}
	if showArticle {
		if _, err := fmt.Fprintf(w, "\n--- Original article ---\n%s\n", res.ArticleText); err != nil {
			return err
		}
	}
	return nil
}

// jsonOutput is the --output json document.
type jsonOutput struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Byline      string `json:"byline,omitempty"`
	Summary     string `json:"summary"`
	Truncated   bool   `json:"truncated"`
	Backend     string `json:"backend"`
	MaxLength   int    `json:"max_length"`
	MinLength   int    `json:"min_length"`
	ArticleText string `json:"article_text,omitempty"`
}

func writeJSON(w io.Writer, res *entity.Result, showArticle bool) error {
	out := jsonOutput{
		URL:       res.URL,
		Title:     res.Title,
		Byline:    res.Byline,
		Summary:   res.Summary,
		Truncated: res.Truncated,
		Backend:   res.Backend,
		MaxLength: res.Bounds.Max,
		MinLength: res.Bounds.Min,
	}
	if showArticle {
		out.ArticleText = res.ArticleText
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
