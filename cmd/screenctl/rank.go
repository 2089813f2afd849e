package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okian/screener/internal/adapters/export"
	service "github.com/okian/screener/internal/app"
	"github.com/okian/screener/internal/config"
	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/internal/domain/scoring"
	"github.com/okian/screener/pkg/logger"
)

// Output formats.
const (
	formatJSON = "json"
	formatCSV  = "csv"
)

type rankOptions struct {
	jobFile    string
	hardSkills string
	niceSkills string
	format     string
	out        string
	analytics  bool
}

func newRankCmd(analytics bool) *cobra.Command {
	opts := &rankOptions{analytics: analytics}
	cmd := &cobra.Command{
		Use:   "rank --job FILE [flags] RESUME...",
		Short: "Rank resume files against a job description",
		Long:  "Ranks resume files (.pdf, .docx, .txt, .html) against a job description file and prints the results best first.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}
	if analytics {
		cmd.Use = "analytics --job FILE [flags] RESUME..."
		cmd.Short = "Rank resume files and attach cohort analytics"
		cmd.Long = "Same as rank, plus PCA coordinates, clusters, nearest neighbours and a success score per candidate."
	}

	cmd.Flags().StringVarP(&opts.jobFile, "job", "j", "", "Path to the job description text file (required)")
	cmd.Flags().StringVar(&opts.hardSkills, "hard", "", "Comma separated must-have skills")
	cmd.Flags().StringVar(&opts.niceSkills, "nice", "", "Comma separated nice-to-have skills")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json or csv")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write output to this file instead of stdout")
	if err := cmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	return cmd
}

func runRank(ctx context.Context, opts *rankOptions, paths []string, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.format != formatJSON && opts.format != formatCSV {
		return fmt.Errorf("unknown format %q: want json or csv", opts.format)
	}

	job, err := os.ReadFile(opts.jobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description %s: %w", opts.jobFile, err)
	}
	docs := make([]model.Document, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read resume %s: %w", p, err)
		}
		docs = append(docs, model.Document{Filename: filepath.Base(p), Data: data})
	}

	svc, err := newService(ctx, len(docs))
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop(ctx)

	req := service.Request{
		JobText:    string(job),
		HardSkills: service.SplitSkills(opts.hardSkills),
		NiceSkills: service.SplitSkills(opts.niceSkills),
		Documents:  docs,
	}
	rank := svc.Process
	if opts.analytics {
		rank = svc.Analytics
	}
	resp, err := rank(ctx, req)
	if err != nil {
		return err
	}

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.out, err)
		}
		defer f.Close()
		w = f
	}
	if err := writeResults(w, opts.format, &resp); err != nil {
		return err
	}
	for _, e := range resp.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", e.Filename, e.Error)
	}
	return nil
}

// newService builds an in-process service from the SCREENER_* environment.
// The batch limit is raised to fit every file given on the command line.
func newService(ctx context.Context, docs int) (*service.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	weights := []map[string]float64{cfg.TrendWeights}
	if cfg.TrendWeightsFile != "" {
		fromFile, err := scoring.LoadTrendWeightsFile(cfg.TrendWeightsFile)
		if err != nil {
			return nil, err
		}
		weights = append(weights, fromFile)
	}
	return service.New(
		service.WithLogger(logger.Nop()),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithMaxBatch(max(cfg.MaxBatch, docs)),
		service.WithMaxTextLength(cfg.MaxTextLength),
		service.WithPayloadTextCap(cfg.PayloadTextCap),
		service.WithScorer(scoring.NewEngine(
			scoring.WithTrendWeights(weights...),
			scoring.WithMaxFeatures(cfg.MaxFeatures),
		)),
	), nil
}

func writeResults(w io.Writer, format string, resp *service.Response) error {
	if format == formatCSV {
		return export.Write(w, export.FromScored(resp.Results))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
