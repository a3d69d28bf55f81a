package portfolio

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

const extension = ".toml"

var (
	// ErrNotFound is returned when no document exists in the search paths or
	// when a section is absent from the loaded document.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned by a non-forced Write over an existing file.
	ErrExists = errors.New("file already exists")
	// ErrInvalid is returned by Read when an entry breaks the data model.
	ErrInvalid = errors.New("invalid portfolio")
)

// Store is a file-backed portfolio document. All mutations act on the
// in-memory copy; only Write touches disk.
type Store struct {
	filename    string
	searchPaths []string
	fallbackDir string
	source      string
	doc         Document
	logger      *zap.Logger
}

// NewStore creates a store for <filename>.toml. searchPaths are tried in order
// on Read; fallbackDir receives the file when none was found.
func NewStore(filename string, searchPaths []string, fallbackDir string, logger *zap.Logger) *Store {
	return &Store{
		filename:    filename,
		searchPaths: searchPaths,
		fallbackDir: fallbackDir,
		logger:      logger.Named("portfolio"),
	}
}

// DefaultSearchPaths returns the working directory followed by the home
// directory, skipping whichever cannot be resolved.
func DefaultSearchPaths() []string {
	var paths []string
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, wd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}
	return paths
}

// Find returns the first existing document in the search paths.
func (s *Store) Find() (string, error) {
	for _, dir := range s.searchPaths {
		path := filepath.Join(dir, s.filename+extension)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("no %s%s in %v: %w", s.filename, extension, s.searchPaths, ErrNotFound)
}

// Read loads the first existing document in the search paths, replacing the
// in-memory document.
func (s *Store) Read() error {
	path, err := s.Find()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := doc.validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s.doc = doc
	s.source = path
	s.normalize()
	s.logger.Debug("Loaded portfolio", zap.String("path", path), zap.Int("holdings", len(doc.Holdings)))
	return nil
}

// Persisted reports whether the document was read from disk.
func (s *Store) Persisted() bool {
	return s.source != ""
}

// SourceFile returns the path the document was read from, if any.
func (s *Store) SourceFile() string {
	return s.source
}

// Path returns the file Write targets.
func (s *Store) Path() string {
	if s.source != "" {
		return s.source
	}
	return filepath.Join(s.fallbackDir, s.filename+extension)
}

// Document returns a copy of the in-memory document.
func (s *Store) Document() Document {
	doc := Document{Holdings: slices.Clone(s.doc.Holdings)}
	if s.doc.Settings != nil {
		settings := *s.doc.Settings
		doc.Settings = &settings
	}
	return doc
}

// Settings returns the settings section.
func (s *Store) Settings() (Settings, error) {
	if s.doc.Settings == nil {
		return Settings{}, fmt.Errorf("section %q: %w", SectionSettings, ErrNotFound)
	}
	return *s.doc.Settings, nil
}

// Holdings returns the holdings in display order. An absent section fails
// with ErrNotFound; a present section is never empty.
func (s *Store) Holdings() ([]Holding, error) {
	if s.doc.Holdings == nil {
		return nil, fmt.Errorf("section %q: %w", SectionHoldings, ErrNotFound)
	}
	return slices.Clone(s.doc.Holdings), nil
}

// HasHoldings reports whether at least one holding is present.
func (s *Store) HasHoldings() bool {
	return len(s.doc.Holdings) > 0
}

// SetSettings replaces the settings section.
func (s *Store) SetSettings(settings Settings) {
	s.doc.Settings = &settings
}

// Merge folds a freshly authored document into the store. Settings present
// in doc override prior values; holdings present in doc replace the current
// holdings.
func (s *Store) Merge(doc Document) {
	if doc.Settings != nil {
		merged := Settings{}
		if s.doc.Settings != nil {
			merged = *s.doc.Settings
		}
		if doc.Settings.Base != "" {
			merged.Base = doc.Settings.Base
		}
		if doc.Settings.Exchange != "" {
			merged.Exchange = doc.Settings.Exchange
		}
		merged.Color = doc.Settings.Color
		s.doc.Settings = &merged
	}
	if doc.Holdings != nil {
		s.doc.Holdings = slices.Clone(doc.Holdings)
	}
	s.normalize()
}

// Append adds holdings to the end of the sequence.
func (s *Store) Append(entries ...Holding) {
	s.doc.Holdings = append(s.doc.Holdings, entries...)
	s.normalize()
}

// Remove deletes one holding per entry, matched on name, amount and price.
// Entries with no match are ignored.
func (s *Store) Remove(entries ...Holding) {
	for _, e := range entries {
		if i := slices.Index(s.doc.Holdings, e); i >= 0 {
			s.doc.Holdings = slices.Delete(s.doc.Holdings, i, i+1)
		}
	}
	s.normalize()
}

// Delete removes a whole section.
func (s *Store) Delete(section Section) {
	switch section {
	case SectionSettings:
		s.doc.Settings = nil
	case SectionHoldings:
		s.doc.Holdings = nil
	}
}

// normalize keeps an empty holdings sequence from ever being persisted.
func (s *Store) normalize() {
	if len(s.doc.Holdings) == 0 {
		s.doc.Holdings = nil
	}
}

// Write serializes the whole document and overwrites the target file. Unless
// force is set, an existing file is left untouched and ErrExists is returned.
func (s *Store) Write(force bool) error {
	s.normalize()
	path := s.Path()

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	data, err := toml.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to encode portfolio: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.source = path
	s.logger.Debug("Wrote portfolio", zap.String("path", path), zap.Int("holdings", len(s.doc.Holdings)))
	return nil
}

// validate upper-cases codes and rejects amounts and prices that are
// negative or not finite.
func (d *Document) validate() error {
	if d.Settings != nil {
		d.Settings.Base = strings.ToUpper(strings.TrimSpace(d.Settings.Base))
	}
	for i := range d.Holdings {
		h := &d.Holdings[i]
		h.Name = strings.ToUpper(strings.TrimSpace(h.Name))
		if h.Name == "" {
			return fmt.Errorf("%w: holding %d has no name", ErrInvalid, i+1)
		}
		if !validNumber(h.Amount) {
			return fmt.Errorf("%w: holding %d (%s) has amount %v", ErrInvalid, i+1, h.Name, h.Amount)
		}
		if !validNumber(h.Price) {
			return fmt.Errorf("%w: holding %d (%s) has price %v", ErrInvalid, i+1, h.Name, h.Price)
		}
	}
	return nil
}

func validNumber(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
