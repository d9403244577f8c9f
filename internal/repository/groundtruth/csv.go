// Package groundtruth reads and writes the human-labeled evaluation file.
//
// The file is a comma-delimited table whose first two columns are the
// document id and the human label (0 or 1); any further columns are
// descriptive and ignored on load.
package groundtruth

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/domain"
)

var templateHeader = []string{
	"ID_Archivo", "Etiqueta_Humana", "Candidato",
	"Titulo_Detectado", "Skills_Detectadas", "Exp_Detectada",
}

// Repo loads and generates ground-truth files at a fixed path.
type Repo struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Repo {
	return &Repo{path: path, logger: logger}
}

// Path returns the configured file location.
func (r *Repo) Path() string { return r.path }

// Load reads the human labels for the given sample. A missing file maps
// to ErrGroundTruthMissing so the caller can generate a labeling
// template. A header without the expected id and label columns is fatal.
// Malformed label cells are skipped with a warning; ids outside the
// sample are ignored; incomplete coverage is a warning, not an error.
func (r *Repo) Load(sampleIDs []string) (map[string]int, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrGroundTruthMissing
		}
		return nil, fmt.Errorf("open ground truth %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable header in %s", domain.ErrMalformedGroundTruth, r.path)
	}
	if len(header) < 2 ||
		!strings.Contains(header[0], "ID_Archivo") ||
		!strings.Contains(header[1], "Etiqueta_Humana") {
		return nil, fmt.Errorf("%w: expected columns ID_Archivo, Etiqueta_Humana in %s",
			domain.ErrMalformedGroundTruth, r.path)
	}

	sample := make(map[string]bool, len(sampleIDs))
	for _, id := range sampleIDs {
		sample[id] = true
	}

	labels := make(map[string]int)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ground truth %s: %w", r.path, err)
		}
		if len(row) < 2 {
			continue
		}

		id := strings.TrimSpace(row[0])
		label, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil || (label != 0 && label != 1) {
			r.logger.Warn("skipping ground truth row, label must be 0 or 1",
				zap.String("id", id),
				zap.String("label", row[1]))
			continue
		}
		if sample[id] {
			labels[id] = label
		}
	}

	if len(labels) != len(sampleIDs) {
		r.logger.Warn("ground truth does not cover the full sample",
			zap.Int("labeled", len(labels)),
			zap.Int("sample", len(sampleIDs)))
	}
	return labels, nil
}

// WriteTemplate creates the labeling file for the sampled profiles: one
// row per id with the label column zero-filled and detected fields
// alongside to guide the human labeler. An existing file is never
// replaced; it may hold human labels.
func (r *Repo) WriteTemplate(profiles []domain.Profile) error {
	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("ground truth %s already exists, refusing to overwrite", r.path)
		}
		return fmt.Errorf("create ground truth template %s: %w", r.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(templateHeader); err != nil {
		return fmt.Errorf("write template header: %w", err)
	}
	for _, p := range profiles {
		row := []string{
			p.ID,
			"0",
			p.CandidateName,
			truncate(p.Titles, 40),
			truncate(p.Skills, 40),
			strconv.Itoa(p.YearsExperience),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write template row %s: %w", p.ID, err)
		}
	}
	w.Flush()
	return w.Error()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
