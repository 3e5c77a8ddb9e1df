package types

import (
	"encoding/json"
	"errors"
	"fmt"
	jsonpatch "github.com/evanphx/json-patch"
	"gopkg.in/yaml.v3"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text2phenotype.com/postagger/logger"
	"text2phenotype.com/postagger/pos"
	"text2phenotype.com/postagger/utils"
)

const (
	// corpus sources
	SourceFile = "file"
	SourceS3   = "s3"

	// DefaultsFile is merged under every other configuration in the directory.
	DefaultsFile = "default.yaml"
)

type CorpusFiles struct {
	Tags      string `yaml:"tags" json:"tags"`
	Sentences string `yaml:"sentences" json:"sentences"`
}

func (f CorpusFiles) IsEmpty() bool {
	return len(f.Tags) == 0 || len(f.Sentences) == 0
}

type CorpusConfig struct {
	Name          string      `yaml:"name" json:"name"`
	FilePath      string      `yaml:"-" json:"file_path,omitempty"`
	Source        string      `yaml:"source" json:"source"`
	Train         CorpusFiles `yaml:"train" json:"train"`
	Test          CorpusFiles `yaml:"test" json:"test"`
	UnseenLogProb *float64    `yaml:"unseen_log_prob" json:"unseen_log_prob,omitempty"`
}

// Floor is the configured emission floor, or pos.UnseenLogProb.
func (cfg CorpusConfig) Floor() float64 {
	if cfg.UnseenLogProb == nil {
		return pos.UnseenLogProb
	}
	return *cfg.UnseenLogProb
}

// GetHashCode fingerprints everything that influences the trained model.
func (cfg CorpusConfig) GetHashCode() uint64 {
	return utils.HashStrings(
		strings.ToLower(cfg.Name),
		cfg.Source,
		cfg.Train.Tags,
		cfg.Train.Sentences,
		strconv.FormatFloat(cfg.Floor(), 'g', -1, 64),
	)
}

func (cfg CorpusConfig) ModelID() string {
	return utils.HashHex(cfg.GetHashCode())
}

func (cfg CorpusConfig) Validate() error {
	if cfg.Source != SourceFile && cfg.Source != SourceS3 {
		return fmt.Errorf("corpus %q: wrong source %q", cfg.Name, cfg.Source)
	}
	if cfg.Train.IsEmpty() {
		return fmt.Errorf("corpus %q: train tags and sentences are required", cfg.Name)
	}
	return nil
}

// resolve makes local file paths relative to the configuration directory.
func (cfg *CorpusConfig) resolve(dirPath string) {
	if cfg.Source != SourceFile {
		return
	}
	for _, p := range []*string{&cfg.Train.Tags, &cfg.Train.Sentences, &cfg.Test.Tags, &cfg.Test.Sentences} {
		if len(*p) > 0 && !filepath.IsAbs(*p) {
			*p = filepath.Join(dirPath, *p)
		}
	}
}

// LoadConfigurations reads every *.yaml corpus configuration in dirPath.
// Files that cannot be parsed or validated are logged and skipped. The result
// is sorted by name.
func LoadConfigurations(dirPath string) ([]CorpusConfig, error) {
	cfgLogger := logger.NewLogger("LoadConfigurations")

	files, err := ioutil.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	defaults := []byte("{}")
	defaultsPath := path.Join(dirPath, DefaultsFile)
	if _, err := os.Stat(defaultsPath); err == nil {
		defaults, err = yamlFileToJSON(defaultsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", DefaultsFile, err)
		}
	}

	var wg sync.WaitGroup
	configChan := make(chan CorpusConfig, len(files))
	for _, f := range files {
		// Skip dirs, non-yaml files and the defaults
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") || f.Name() == DefaultsFile {
			continue
		}

		wg.Add(1)
		go func(file os.FileInfo) {
			defer wg.Done()
			filePath := path.Join(dirPath, file.Name())
			cfg, err := loadConfiguration(filePath, defaults)
			if err != nil {
				cfgLogger.Err(err).Str("file_path", filePath).Msg("Skipping corpus configuration")
				return
			}
			if len(cfg.Name) == 0 {
				cfg.Name = strings.Split(file.Name(), ".yaml")[0]
			}
			cfg.resolve(dirPath)
			if err := cfg.Validate(); err != nil {
				cfgLogger.Err(err).Str("file_path", filePath).Msg("Skipping corpus configuration")
				return
			}
			configChan <- cfg
		}(f)
	}

	go func() {
		wg.Wait()
		close(configChan)
	}()

	configs := make([]CorpusConfig, 0, len(files))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Name < configs[j].Name
	})
	return configs, nil
}

func loadConfiguration(filePath string, defaults []byte) (CorpusConfig, error) {
	cfg := CorpusConfig{FilePath: filePath}
	override, err := yamlFileToJSON(filePath)
	if err != nil {
		return cfg, err
	}
	merged, err := jsonpatch.MergePatch(defaults, override)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(merged, &cfg); err != nil {
		return cfg, err
	}
	cfg.FilePath = filePath
	return cfg, nil
}

// yamlFileToJSON re-encodes a YAML mapping as JSON so it can take part in a
// JSON merge patch.
func yamlFileToJSON(filePath string) ([]byte, error) {
	buf, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(buf, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("empty configuration")
	}
	return json.Marshal(raw)
}
