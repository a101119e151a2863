package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"casemark/internal/classify"
	"casemark/internal/features"
	"casemark/internal/pipeline"
)

func analyzeCmd() *cobra.Command {
	var withClassification bool

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Extract the feature record from one cartridge-case image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.New(cfg.PipelineOptions(), logger)

			record, err := p.AnalyzeFile(args[0])
			if err != nil {
				// Failure payload on stdout, non-zero exit; never mixed
				// with a record.
				_ = json.NewEncoder(os.Stdout).Encode(features.ErrorResponse{Error: err.Error()})
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			if withClassification {
				return enc.Encode(struct {
					*features.FeatureRecord
					Classification *classify.Classification `json:"classification"`
				}{record, classify.New(logger).Classify(record)})
			}
			return enc.Encode(record)
		},
	}

	cmd.Flags().BoolVar(&withClassification, "classify", false, "append weapon-type and caliber interpretation")
	return cmd
}
