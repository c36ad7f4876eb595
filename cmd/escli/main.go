package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mycelian/mycelian-search/client"
	"github.com/mycelian/mycelian-search/client/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var serviceURL string
var debug bool
var timeout time.Duration
var logJSON bool

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "escli",
		Short:         "Command-line client for Elasticsearch-compatible search clusters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logJSON {
				logger.InitJSON("escli", cmd.ErrOrStderr(), debug)
			} else {
				logger.InitConsole(debug)
			}
			if debug {
				log.Debug().Msg("debug logging enabled")
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&serviceURL, "url", "", "Cluster URL (default $ESCLIENT_URL or http://localhost:9200)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output, including HTTP dumps")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs to stderr as JSON")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall deadline for the command")

	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newBulkCmd())
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newRefreshCmd())

	return rootCmd
}

// newClient builds a synchronous client from ESCLIENT_* settings and flags.
func newClient() (*client.Client, error) {
	cfg, err := client.LoadConfig()
	if err != nil {
		return nil, err
	}
	if serviceURL != "" {
		cfg.URL = serviceURL
	}
	if debug {
		cfg.Debug = true
	}
	log.Debug().Str("url", cfg.URL).Msg("connecting")
	return client.NewFromConfig(cfg, client.WithoutExecutor())
}

// run executes fn with a client and a deadline and prints its result as JSON.
func run(cmd *cobra.Command, name string, fn func(context.Context, *client.Client) (any, error)) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	start := time.Now()
	out, err := fn(ctx, c)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("command", name).Dur("elapsed", elapsed).Msg("request failed")
		return err
	}
	log.Debug().Str("command", name).Dur("elapsed", elapsed).Msg("request completed")
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the name and version of the cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "info", func(ctx context.Context, c *client.Client) (any, error) {
				return c.Info(ctx)
			})
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var req client.AnalyzeRequest
	var fullTokens bool

	cmd := &cobra.Command{
		Use:   "analyze [index]",
		Short: "Run text through an analyzer or a tokenizer/filter chain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Text == "" {
				return fmt.Errorf("--text is required")
			}
			if len(args) == 1 {
				req.Index = args[0]
			}
			return run(cmd, "analyze", func(ctx context.Context, c *client.Client) (any, error) {
				resp, err := c.Analyze(ctx, req)
				if err != nil || fullTokens {
					return resp, err
				}
				return resp.Terms(), nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Text, "text", "", "Text to analyze (required)")
	cmd.Flags().StringVar(&req.Analyzer, "analyzer", "", "Analyzer name")
	cmd.Flags().StringVar(&req.Field, "field", "", "Use the analyzer mapped to this field")
	cmd.Flags().StringVar(&req.Tokenizer, "tokenizer", "", "Tokenizer name")
	cmd.Flags().StringSliceVar(&req.Filters, "filter", nil, "Token filter; repeat or comma-separate for a chain")
	cmd.Flags().BoolVar(&fullTokens, "tokens", false, "Print full token objects instead of terms")
	return cmd
}

func newBulkCmd() *cobra.Command {
	var file, refresh, docType string

	cmd := &cobra.Command{
		Use:   "bulk [index]",
		Short: "Send a batch of operations from a file",
		Long: "The file holds either newline-delimited JSON in bulk format, or a JSON array of\n" +
			"descriptors such as {\"index\":{\"_id\":\"1\",\"data\":{...}}}. Use - for stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			body, err := parseBulk(raw)
			if err != nil {
				return err
			}
			req := client.BulkRequest{Body: body, Refresh: refresh, DocumentType: docType}
			if len(args) == 1 {
				req.Index = args[0]
			}
			return run(cmd, "bulk", func(ctx context.Context, c *client.Client) (any, error) {
				resp, err := c.Bulk(ctx, req)
				if err != nil {
					return nil, err
				}
				if failed := resp.Failed(); len(failed) > 0 {
					log.Warn().Int("failed", len(failed)).Int("items", len(resp.Items)).Msg("bulk completed with failures")
				}
				return resp, nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Input file, - for stdin (required)")
	cmd.Flags().StringVar(&refresh, "refresh", "", "Refresh policy: true, false or wait_for")
	cmd.Flags().StringVar(&docType, "type", "", "Default document type for the batch")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// parseBulk accepts a JSON array of descriptors or NDJSON lines.
func parseBulk(raw []byte) (client.BulkBody, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return client.BulkBody{}, fmt.Errorf("bulk input is empty")
	}
	if trimmed[0] == '[' {
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return client.BulkBody{}, fmt.Errorf("parse bulk array: %w", err)
		}
		return client.DetectBulk(items)
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return client.BulkBody{}, err
	}
	return client.BulkBody{Shape: client.BulkRaw, Lines: lines}, nil
}

func newIndexCmd() *cobra.Command {
	var doc, file, docType, refresh string

	cmd := &cobra.Command{
		Use:   "index <index> [id]",
		Short: "Store a JSON document",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := []byte(doc)
			if file != "" {
				b, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				body = b
			}
			if !json.Valid(body) {
				return fmt.Errorf("document must be valid JSON (use --doc or --file)")
			}
			req := client.IndexRequest{Index: args[0], DocumentType: docType, Document: body, Refresh: refresh}
			if len(args) == 2 {
				req.ID = args[1]
			}
			return run(cmd, "index", func(ctx context.Context, c *client.Client) (any, error) {
				return c.Index(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&doc, "doc", "", "Document as inline JSON")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the document from a file, - for stdin")
	cmd.Flags().StringVar(&docType, "type", "", "Document type (default _doc)")
	cmd.Flags().StringVar(&refresh, "refresh", "", "Refresh policy: true, false or wait_for")
	return cmd
}

func newGetCmd() *cobra.Command {
	var docType string
	var sourceOnly bool

	cmd := &cobra.Command{
		Use:   "get <index> <id>",
		Short: "Fetch a document by ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "get", func(ctx context.Context, c *client.Client) (any, error) {
				resp, err := c.Get(ctx, client.GetRequest{Index: args[0], ID: args[1], DocumentType: docType})
				if err != nil {
					if client.IsNotFound(err) {
						return nil, fmt.Errorf("document %s/%s not found", args[0], args[1])
					}
					return nil, err
				}
				if sourceOnly {
					return resp.Source, nil
				}
				return resp, nil
			})
		},
	}

	cmd.Flags().StringVar(&docType, "type", "", "Document type (default _doc)")
	cmd.Flags().BoolVar(&sourceOnly, "source", false, "Print only the document source")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var docType, refresh string

	cmd := &cobra.Command{
		Use:   "delete <index> <id>",
		Short: "Delete a document by ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "delete", func(ctx context.Context, c *client.Client) (any, error) {
				return c.Delete(ctx, client.DeleteRequest{Index: args[0], ID: args[1], DocumentType: docType, Refresh: refresh})
			})
		},
	}

	cmd.Flags().StringVar(&docType, "type", "", "Document type (default _doc)")
	cmd.Flags().StringVar(&refresh, "refresh", "", "Refresh policy: true, false or wait_for")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var query, body string
	var size, from int
	var sort []string

	cmd := &cobra.Command{
		Use:   "search [index...]",
		Short: "Search with a query string or a query DSL body",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.SearchRequest{Index: args, Query: query, Sort: sort}
			if body != "" {
				if !json.Valid([]byte(body)) {
					return fmt.Errorf("--body must be valid JSON")
				}
				req.Body = []byte(body)
			}
			if cmd.Flags().Changed("size") {
				req.Size = &size
			}
			if cmd.Flags().Changed("from") {
				req.From = &from
			}
			return run(cmd, "search", func(ctx context.Context, c *client.Client) (any, error) {
				return c.Search(ctx, req)
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Lucene query string")
	cmd.Flags().StringVar(&body, "body", "", "Query DSL as inline JSON")
	cmd.Flags().IntVar(&size, "size", 10, "Number of hits to return")
	cmd.Flags().IntVar(&from, "from", 0, "Offset of the first hit")
	cmd.Flags().StringSliceVar(&sort, "sort", nil, "Sort fields, e.g. timestamp:desc")
	return cmd
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [index...]",
		Short: "Make recent writes visible to search",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "refresh", func(ctx context.Context, c *client.Client) (any, error) {
				return c.Refresh(ctx, client.RefreshRequest{Index: args})
			})
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
