package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/proposal-cli/internal/intake"
	"github.com/sells-group/proposal-cli/internal/model"
	"github.com/sells-group/proposal-cli/internal/pipeline"
	"github.com/sells-group/proposal-cli/internal/proposal"
)

var (
	quoteTally       bool
	quoteConcurrency int
)

var quoteCmd = &cobra.Command{
	Use:   "quote [file...]",
	Short: "Build proposal records from submission files",
	Long:  "Reads normalized submissions (or raw Tally webhooks with --tally) from the given files, or stdin when none are given, and prints the proposal records as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("quote"); err != nil {
			return err
		}

		p, err := newPipeline(cfg, 0)
		if err != nil {
			return err
		}

		inputs, err := readInputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		var normalizer *intake.Normalizer
		if quoteTally {
			normalizer = newNormalizer(cfg)
		}

		subs := make([]*model.Submission, 0, len(inputs))
		for i, data := range inputs {
			sub, err := decodeInput(data, normalizer)
			if err != nil {
				return eris.Wrapf(err, "input %d", i+1)
			}
			subs = append(subs, sub)
		}

		concurrency := quoteConcurrency
		if concurrency == 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		results, err := p.RunBatch(cmd.Context(), subs, concurrency)
		if err != nil {
			return err
		}

		return writeRecords(cmd.OutOrStdout(), results)
	},
}

func init() {
	quoteCmd.Flags().BoolVar(&quoteTally, "tally", false, "inputs are raw Tally webhook payloads")
	quoteCmd.Flags().IntVar(&quoteConcurrency, "concurrency", 0, "max submissions built at once (default from config)")
	rootCmd.AddCommand(quoteCmd)
}

// readInputs returns the contents of each path, or all of stdin when paths is
// empty or "-".
func readInputs(paths []string, stdin io.Reader) ([][]byte, error) {
	if len(paths) == 0 || (len(paths) == 1 && paths[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, eris.Wrap(err, "read stdin")
		}
		return [][]byte{data}, nil
	}

	out := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "read %s", path)
		}
		out = append(out, data)
	}
	return out, nil
}

// decodeInput parses a normalized submission, or a Tally webhook when
// normalizer is set.
func decodeInput(data []byte, normalizer *intake.Normalizer) (*model.Submission, error) {
	if normalizer == nil {
		return model.DecodeSubmission(data)
	}
	w, err := intake.DecodeWebhook(data)
	if err != nil {
		return nil, err
	}
	return normalizer.Normalize(w), nil
}

// writeRecords prints one record as an object and several as an array.
func writeRecords(w io.Writer, results []pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if len(results) == 1 {
		return eris.Wrap(enc.Encode(results[0].Record), "write record")
	}

	records := make([]proposal.Record, len(results))
	for i, r := range results {
		records[i] = r.Record
	}
	return eris.Wrap(enc.Encode(records), "write records")
}
