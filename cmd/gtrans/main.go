// Command gtrans translates text and HTML documents from the command line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZaguanLabs/gtrans"
	"github.com/ZaguanLabs/gtrans/cache"
	"github.com/ZaguanLabs/gtrans/config"
	"github.com/ZaguanLabs/gtrans/processor"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	serviceURLs []string
	logLevel    string
	jsonOutput  bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   gtrans.Name,
		Short: "Translate text through the translate web frontend",
		Long: `gtrans talks to the batchexecute RPC used by the translate web frontend.

Settings come from an optional YAML file (--config) and GTRANS_* environment
variables; flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (YAML)")
	root.PersistentFlags().StringSliceVar(&g.serviceURLs, "service-url", nil, "Service host(s) to use, overrides config")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "Output results as JSON")

	root.AddCommand(
		newTranslateCmd(g),
		newDetectCmd(g),
		newHTMLCmd(g),
		newLanguagesCmd(g),
		newCacheCmd(g),
		newVersionCmd(),
	)

	return root
}

// session holds what a subcommand needs to talk to the endpoint.
type session struct {
	cfg        *config.Config
	client     *gtrans.Client
	translator gtrans.Translator
	cache      cache.TranslationCache
}

func (s *session) Close() error {
	var errs []error
	if s.client != nil {
		errs = append(errs, s.client.Close())
	}
	if closer, ok := s.cache.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if len(g.serviceURLs) > 0 {
		cfg.ServiceURLs = g.serviceURLs
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	return cfg, nil
}

func (g *globalFlags) open(cmd *cobra.Command) (*session, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	logger.SetOutput(cmd.ErrOrStderr())

	c, err := cfg.OpenCache(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	opts := cfg.ClientOptions(logger)
	if c != nil {
		opts = append(opts, gtrans.WithCache(c))
	}
	client := gtrans.NewClient(opts...)

	return &session{
		cfg:        cfg,
		client:     client,
		translator: cfg.Decorate(client),
		cache:      c,
	}, nil
}

// readInput joins args, or reads stdin when there are none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

// TranslateOutput is the --json shape of the translate command.
type TranslateOutput struct {
	Src           string                  `json:"src"`
	Dest          string                  `json:"dest"`
	Origin        string                  `json:"origin"`
	Text          string                  `json:"text"`
	Pronunciation *string                 `json:"pronunciation"`
	Parts         []gtrans.TranslatedPart `json:"parts"`
}

func newTranslateCmd(g *globalFlags) *cobra.Command {
	var src, dest string

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.translator.Translate(cmd.Context(), text, src, dest)
			if err != nil {
				return err
			}

			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), TranslateOutput{
					Src:           result.Src,
					Dest:          result.Dest,
					Origin:        result.Origin,
					Text:          result.Text,
					Pronunciation: result.Pronunciation,
					Parts:         result.Parts,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", gtrans.AutoLang, "Source language code or name")
	cmd.Flags().StringVar(&dest, "dest", gtrans.DefaultDestLang, "Destination language code or name")

	return cmd
}

// ---------------------------------------------------------------------------
// detect
// ---------------------------------------------------------------------------

func newDetectCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text...]",
		Short: "Detect the language of text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			detected, err := gtrans.Detect(cmd.Context(), s.translator, text)
			if err != nil {
				return err
			}

			name := ""
			if detected.Known() {
				name = gtrans.GetLanguageName(detected.Lang)
			}

			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"lang":  detected.Lang,
					"name":  name,
					"known": detected.Known(),
				})
			}
			if name != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", detected.Lang, name)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), detected.Lang)
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// html
// ---------------------------------------------------------------------------

// HTMLOutput is the --json shape of the html command.
type HTMLOutput struct {
	Content   string `json:"content"`
	Src       string `json:"src"`
	Dest      string `json:"dest"`
	Nodes     int    `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func newHTMLCmd(g *globalFlags) *cobra.Command {
	var src, dest, output string
	var concurrency int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "html [file]",
		Short: "Translate the text of an HTML document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			var err error
			inputName := "stdin"
			if len(args) == 1 {
				input, err = os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
				inputName = filepath.Base(args[0])
			} else {
				input, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			stderr := cmd.ErrOrStderr()
			if !quiet {
				fmt.Fprintf(stderr, "Translating %s to %s...\n", inputName, dest)
			}

			proc := processor.NewHTMLProcessor(s.translator, processor.WithConcurrency(concurrency))
			start := time.Now()
			result, err := proc.Translate(cmd.Context(), string(input), src, dest)
			if err != nil {
				return fmt.Errorf("translation failed: %w", err)
			}
			elapsed := time.Since(start)

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output) // #nosec G304 - path is intentionally user-provided
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			if g.jsonOutput {
				return writeJSON(out, HTMLOutput{
					Content:   result.HTML,
					Src:       result.Src,
					Dest:      result.Dest,
					Nodes:     result.Nodes,
					ElapsedMs: elapsed.Milliseconds(),
				})
			}

			fmt.Fprint(out, result.HTML)

			if !quiet {
				fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
				fmt.Fprintf(stderr, "  Texts translated: %d\n", result.Nodes)
				fmt.Fprintf(stderr, "  Source language:  %s\n", result.Src)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", gtrans.AutoLang, "Source language code or name")
	cmd.Flags().StringVar(&dest, "dest", gtrans.DefaultDestLang, "Destination language code or name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVar(&concurrency, "concurrency", gtrans.DefaultBatchConcurrency, "Texts translated at once")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

func newLanguagesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported language codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), gtrans.Languages)
			}

			codes := make([]string, 0, len(gtrans.Languages))
			for code := range gtrans.Languages {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			out := cmd.OutOrStdout()
			for _, code := range codes {
				fmt.Fprintf(out, "%-6s %s\n", code, gtrans.Languages[code])
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// cache export / import
// ---------------------------------------------------------------------------

func newCacheCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import the configured response cache",
	}

	openCache := func(cmd *cobra.Command) (cache.TranslationCache, func(), error) {
		cfg, err := g.loadConfig()
		if err != nil {
			return nil, nil, err
		}
		if !cfg.Cache.Persistent() {
			return nil, nil, fmt.Errorf("cache import/export needs a persistent backend (redis), got %q", cfg.Cache.Backend)
		}
		c, err := cfg.OpenCache(cmd.Context())
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		closeFn := func() {
			if closer, ok := c.(io.Closer); ok {
				_ = closer.Close()
			}
		}
		return c, closeFn, nil
	}

	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Write cache entries to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeFn, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return exportCache(cmd.Context(), c, args[0], cmd.ErrOrStderr())
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load cache entries from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeFn, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return importCache(cmd.Context(), c, args[0], cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(export, importCmd)
	return cmd
}

func exportCache(ctx context.Context, c cache.TranslationCache, path string, w io.Writer) error {
	metadata := map[string]string{"tool": gtrans.Name + "/" + gtrans.Version}
	if err := cache.NewExporter(c).ExportToFile(ctx, path, metadata); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported cache to %s\n", path)
	return nil
}

func importCache(ctx context.Context, c cache.TranslationCache, path string, w io.Writer) error {
	result, err := cache.NewImporter(c).ImportFromFile(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Imported %d entries (%d failed)\n", result.Imported, result.Failed)
	return nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := gtrans.ReadBuildInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", gtrans.Name, info)
			if info.Date != "" {
				fmt.Fprintf(out, "  built:   %s\n", info.Date)
			}
			if info.GoVersion != "" {
				fmt.Fprintf(out, "  go:      %s\n", info.GoVersion)
			}
		},
	}
}
