package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/classifier"
)

// confirmOverwrite asks before replacing artifacts. Tests swap it.
var confirmOverwrite = func(paths []string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Overwrite existing artifacts (%s)", strings.Join(paths, ", ")),
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type trainOptions struct {
	dataset     string
	autoApprove bool
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the TF-IDF vectorizer and the multi-label skill classifier",
	Run: func(cmd *cobra.Command, _ []string) {
		a := bootstrap()
		autoApprove, _ := cmd.Flags().GetBool("auto-approve")
		opts := trainOptions{
			dataset:     a.config.Training.Dataset,
			autoApprove: autoApprove,
		}
		if err := runTrain(cmd.Context(), a, opts); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			a.logger.Fatal("training failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().String("dataset", "", "CSV dataset with text and labels columns")
	trainCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before overwriting artifacts")
	trainCmd.Flags().Float64("test-size", 0.2, "held-out share of the dataset")
	trainCmd.Flags().Uint64("seed", 42, "seed of the train/held-out split")

	viper.BindPFlag("training.dataset", trainCmd.Flags().Lookup("dataset"))
	viper.BindPFlag("training.test-size", trainCmd.Flags().Lookup("test-size"))
	viper.BindPFlag("training.seed", trainCmd.Flags().Lookup("seed"))
}

func runTrain(ctx context.Context, a *application, opts trainOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if existing := existingArtifacts(a.paths); len(existing) > 0 && !opts.autoApprove {
		ok, err := confirmOverwrite(existing)
		if err != nil {
			return err
		}
		if !ok {
			a.logger.Info("exiting", zap.String("reason", "overwrite was not confirmed"))
			return errExit
		}
	}

	trainer := classifier.NewTrainer(a.config.Training.TrainerConfig, a.paths, a.logger)
	report, err := trainer.TrainFile(ctx, opts.dataset)
	if err != nil {
		return err
	}

	// Later commands in this process must see the new bundle.
	a.classifier.Reset()
	a.lexical.Reset()

	return a.print(report)
}
