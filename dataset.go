package emotext

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDatasetPath is where the host process keeps its training data.
const DefaultDatasetPath = "emotions_dataset.csv"

const (
	textColumn    = "text"
	emotionColumn = "emotion"
	utf8BOM       = "\ufeff"
)

// DefaultDataset returns the built-in fallback samples, three per label.
func DefaultDataset() Dataset {
	return Dataset{
		{"I am happy", Happy},
		{"I feel great", Happy},
		{"This is wonderful", Happy},
		{"I am sad", Sad},
		{"This is terrible", Sad},
		{"I feel bad", Sad},
		{"I am angry", Angry},
		{"This makes me mad", Angry},
		{"I hate this", Angry},
		{"I am scared", Fear},
		{"This is frightening", Fear},
		{"I feel afraid", Fear},
		{"This is normal", Neutral},
		{"Nothing special", Neutral},
		{"Regular day", Neutral},
	}
}

// A ProviderOpt changes how a DatasetProvider behaves.
type ProviderOpt func(p *DatasetProvider)

// UsingFallback replaces the built-in dataset written on first run.
func UsingFallback(data Dataset) ProviderOpt {
	return func(p *DatasetProvider) {
		p.fallback = data
	}
}

// UsingProviderLogger sets the logger used for load and persist messages.
func UsingProviderLogger(logger *slog.Logger) ProviderOpt {
	return func(p *DatasetProvider) {
		p.logger = logger
	}
}

// A DatasetProvider supplies labeled samples from a CSV file, creating the
// file from a fallback dataset when it does not exist yet.
type DatasetProvider struct {
	path     string
	fallback Dataset
	logger   *slog.Logger
}

// NewDatasetProvider creates a provider for the CSV file at path.
func NewDatasetProvider(path string, opts ...ProviderOpt) *DatasetProvider {
	p := &DatasetProvider{
		path:     path,
		fallback: DefaultDataset(),
		logger:   slog.Default(),
	}
	for _, applyOpt := range opts {
		applyOpt(p)
	}
	return p
}

// Path returns the location the provider reads from.
func (p *DatasetProvider) Path() string {
	return p.path
}

// Load reads the persisted dataset. If none exists, the fallback dataset is
// written to the provider's path and returned. A file that exists but cannot
// be parsed yields a *DatasetError.
func (p *DatasetProvider) Load() (Dataset, error) {
	file, err := os.Open(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Warn("no dataset found, creating default", slog.String("path", p.path))
		data := append(Dataset(nil), p.fallback...)
		if err := p.persist(data); err != nil {
			p.logger.Warn("could not persist default dataset",
				slog.String("path", p.path),
				slog.String("error", err.Error()))
		}
		return data, nil
	}
	if err != nil {
		return nil, &DatasetError{Path: p.path, Err: err}
	}
	defer file.Close()

	data, err := ReadDataset(file)
	if err != nil {
		var dsErr *DatasetError
		if errors.As(err, &dsErr) {
			dsErr.Path = p.path
			return nil, dsErr
		}
		return nil, &DatasetError{Path: p.path, Err: err}
	}

	p.logger.Info("loaded dataset",
		slog.String("path", p.path),
		slog.Int("samples", len(data)))
	return data, nil
}

func (p *DatasetProvider) persist(data Dataset) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".dataset-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteDataset(tmp, data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return err
	}

	p.logger.Info("created dataset",
		slog.String("path", p.path),
		slog.Int("samples", len(data)))
	return nil
}

// ReadDataset parses CSV with a header containing "text" and "emotion"
// columns. Other columns are ignored.
func ReadDataset(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DatasetError{Line: 1, Err: errors.New("empty file, missing header")}
	}
	if err != nil {
		return nil, csvError(err)
	}

	textIdx, emotionIdx := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, utf8BOM)))
		switch name {
		case textColumn:
			textIdx = i
		case emotionColumn:
			emotionIdx = i
		}
	}
	if textIdx < 0 {
		return nil, &DatasetError{Line: 1, Err: fmt.Errorf("missing %q column", textColumn)}
	}
	if emotionIdx < 0 {
		return nil, &DatasetError{Line: 1, Err: fmt.Errorf("missing %q column", emotionColumn)}
	}

	var data Dataset
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}

		line, _ := reader.FieldPos(0)
		emotion, err := ParseEmotion(record[emotionIdx])
		if err != nil {
			return nil, &DatasetError{Line: line, Err: err}
		}
		data = append(data, Sample{Text: record[textIdx], Emotion: emotion})
	}
	return data, nil
}

// WriteDataset encodes data as CSV with a "text,emotion" header. CSV readers
// fold "\r\n" inside quoted fields to "\n", so texts are written with LF
// line breaks and what ReadDataset returns for the output is what was written.
func WriteDataset(w io.Writer, data Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{textColumn, emotionColumn}); err != nil {
		return err
	}
	for _, s := range data {
		text := strings.ReplaceAll(s.Text, "\r\n", "\n")
		if err := writer.Write([]string{text, string(s.Emotion)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &DatasetError{Line: parseErr.Line, Err: parseErr.Err}
	}
	return &DatasetError{Err: err}
}
