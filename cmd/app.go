package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/classifier"
	"github.com/spigell/skillmatch/internal/domain"
	"github.com/spigell/skillmatch/internal/embedding"
	"github.com/spigell/skillmatch/internal/lexical"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/profile"
	"github.com/spigell/skillmatch/internal/skills"
)

// application owns every long-lived service. Commands receive it instead of
// reaching for globals.
type application struct {
	config *Config
	logger *zap.Logger
	out    io.Writer

	paths      classifier.Paths
	embedder   *embedding.Provider
	lexical    *lexical.Store
	classifier *classifier.Store
	matcher    *matching.Matcher
	profiles   *profile.Builder
}

func newApplication(config *Config, log *zap.Logger, out io.Writer) *application {
	paths := classifier.DefaultPaths(config.Artifacts.Dir)

	embCfg := config.Embedding.WithDefaults()
	embedder := embedding.NewProvider(embCfg, nil, log)
	lexicalStore := lexical.NewStore(paths.Vectorizer, log)
	classifierStore := classifier.NewStore(paths, log)

	return &application{
		config:     config,
		logger:     log,
		out:        out,
		paths:      paths,
		embedder:   embedder,
		lexical:    lexicalStore,
		classifier: classifierStore,
		matcher:    matching.NewMatcher(embedder, lexicalStore, log, matching.WithMaxLogLength(embCfg.MaxLogLength)),
		profiles: profile.NewBuilder(classifierStore, skills.Default(),
			profile.WithSummaryLimit(config.Profile.SummaryLimit),
			profile.WithLogger(log),
		),
	}
}

// bootstrap builds the logger and the application from viper state. Failures
// here end the process the same way for every command.
func bootstrap() *application {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Debug("starting", zap.String("version", version), zap.String("config", viper.ConfigFileUsed()))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return newApplication(config, l, os.Stdout)
}

func (a *application) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readText reads a document from path, or from stdin when path is "-".
func readText(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", domain.NewValidationErr("input path is required")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.NewNotFoundErr(fmt.Sprintf("input file not found at %s", path))
		}
		return "", err
	}
	return string(data), nil
}

// existingArtifacts lists the bundle files already on disk.
func existingArtifacts(paths classifier.Paths) []string {
	var out []string
	for _, p := range paths.All() {
		if _, err := os.Stat(p); err == nil {
			out = append(out, filepath.Clean(p))
		}
	}
	return out
}
