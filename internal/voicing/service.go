package voicing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/tonic/internal/apperr"
	"github.com/starford/tonic/internal/formula"
	"github.com/starford/tonic/internal/library"
	"github.com/starford/tonic/internal/note"
	"github.com/starford/tonic/internal/storage"
)

// EventKind names a change published by the service.
type EventKind string

// Event kinds.
const (
	EventSaved           EventKind = "voicing.saved"
	EventDeleted         EventKind = "voicing.deleted"
	EventFormulasChanged EventKind = "formulas.changed"
)

// Event describes a change to the library or formula catalog. Root and
// Notes are set for EventSaved only.
type Event struct {
	Kind  EventKind
	ID    string
	Name  string
	Root  string
	Notes []string
}

// EventCallback receives service events.
type EventCallback func(Event)

// SaveRequest describes a voicing to store. When Steps is empty the steps
// of the named Formula are used. When both are given they must agree.
type SaveRequest struct {
	Name    string
	Root    note.Note
	Steps   []int
	Formula string
}

// Validate checks the request shape.
func (r SaveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Steps, validation.When(r.Formula == "", validation.Required)),
	)
}

// Service coordinates the formula catalog, the formula files and the
// voicing library.
type Service struct {
	catalog  *formula.Catalog
	formulas storage.Provider
	repo     library.Repository
	logger   *slog.Logger
	onEvent  EventCallback
}

// NewService creates a new voicing service.
func NewService(catalog *formula.Catalog, formulas storage.Provider, repo library.Repository, logger *slog.Logger) *Service {
	return &Service{catalog: catalog, formulas: formulas, repo: repo, logger: logger}
}

// OnEvent registers the callback for service events. Call it before the
// service is shared.
func (s *Service) OnEvent(cb EventCallback) {
	s.onEvent = cb
}

func (s *Service) emit(ev Event) {
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}

// Formulas lists catalog formulas of the given kind; empty kind lists all.
func (s *Service) Formulas(kind formula.Kind) []formula.Formula {
	return s.catalog.List(kind)
}

// Formula looks up a formula by name or alias.
func (s *Service) Formula(name string) (formula.Formula, error) {
	f, ok := s.catalog.Get(name)
	if !ok {
		return formula.Formula{}, fmt.Errorf("formula %q: %w", name, apperr.ErrNotFound)
	}
	return f, nil
}

// BuildFormula builds the named formula from root.
func (s *Service) BuildFormula(root note.Note, name string) (Voicing, error) {
	f, err := s.Formula(name)
	if err != nil {
		return Voicing{}, err
	}
	v, err := Build(root, f.Steps)
	if err != nil {
		return Voicing{}, err
	}
	v.Formula = f.Name
	return v, nil
}

// PutFormula writes f to its own file in the formula directory and reloads
// the catalog. It reports whether the file was newly created.
func (s *Service) PutFormula(_ context.Context, f formula.Formula) (bool, error) {
	if err := f.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}
	if _, err := f.Intervals(); err != nil {
		return false, fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}

	current, _, err := formula.Load(s.formulas, s.logger)
	if err != nil {
		return false, err
	}
	if _, err := formula.NewCatalog(append(current, f)...); err != nil {
		return false, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}

	data, err := formula.Marshal(f)
	if err != nil {
		return false, err
	}
	path := formulaPath(f.Name)
	_, readErr := s.formulas.Read(path)
	created := errors.Is(readErr, os.ErrNotExist)
	if err := s.formulas.Write(path, data); err != nil {
		return false, err
	}
	if err := s.reloadFormulas(); err != nil {
		return false, err
	}
	return created, nil
}

// DeleteFormula removes the file holding the named formula. Builtins have
// no file and yield apperr.ErrNotFound.
func (s *Service) DeleteFormula(_ context.Context, name string) error {
	if !formula.ValidName(name) {
		return fmt.Errorf("%w: formula name %q", apperr.ErrInvalidInput, name)
	}
	if err := s.formulas.Delete(formulaPath(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("formula file %q: %w", name, apperr.ErrNotFound)
		}
		return err
	}
	return s.reloadFormulas()
}

func (s *Service) reloadFormulas() error {
	changed, err := formula.Reload(s.catalog, s.formulas, s.logger)
	if err != nil {
		return err
	}
	if changed {
		s.emit(Event{Kind: EventFormulasChanged})
	}
	return nil
}

// Save builds and stores a named voicing.
func (s *Service) Save(ctx context.Context, req SaveRequest) (Voicing, error) {
	if err := req.Validate(); err != nil {
		return Voicing{}, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	steps := req.Steps
	var formulaName string
	if req.Formula != "" {
		f, err := s.Formula(req.Formula)
		if err != nil {
			return Voicing{}, err
		}
		if len(steps) == 0 {
			steps = f.Steps
		} else if !slices.Equal(steps, f.Steps) {
			return Voicing{}, fmt.Errorf("%w: steps %v do not match formula %q %v", apperr.ErrInvalidInput, steps, f.Name, f.Steps)
		}
		formulaName = f.Name
	}

	v, err := Build(req.Root, steps)
	if err != nil {
		return Voicing{}, err
	}
	v.Formula = formulaName

	now := time.Now().UTC()
	v.ID = uuid.NewString()
	v.Name = req.Name
	v.CreatedAt = &now

	err = s.repo.Insert(ctx, library.VoicingRow{
		ID:        v.ID,
		Name:      v.Name,
		Root:      v.Root.String(),
		Steps:     v.Steps,
		Formula:   v.Formula,
		Checksum:  v.Checksum,
		CreatedAt: now,
	})
	if err != nil {
		return Voicing{}, err
	}
	s.emit(Event{Kind: EventSaved, ID: v.ID, Name: v.Name, Root: v.Root.String(), Notes: noteNames(v.Notes)})
	return v, nil
}

// Get returns a saved voicing with its notes rebuilt.
func (s *Service) Get(ctx context.Context, id string) (Voicing, error) {
	row, err := s.repo.Get(ctx, id)
	if err != nil {
		return Voicing{}, err
	}
	return fromRow(*row)
}

// GetByName returns the saved voicing with the given name.
func (s *Service) GetByName(ctx context.Context, name string) (Voicing, error) {
	row, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return Voicing{}, err
	}
	return fromRow(*row)
}

// List returns saved voicings newest first with the total count.
func (s *Service) List(ctx context.Context, limit, offset int, formulaName string) ([]Voicing, int, error) {
	rows, total, err := s.repo.List(ctx, limit, offset, formulaName)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Voicing, 0, len(rows))
	for _, r := range rows {
		v, err := fromRow(r)
		if err != nil {
			s.logger.Warn("voicing: skipping unreadable row", slog.String("id", r.ID), slog.String("error", err.Error()))
			continue
		}
		out = append(out, v)
	}
	return out, total, nil
}

// Delete removes a saved voicing.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(Event{Kind: EventDeleted, ID: id})
	return nil
}

func fromRow(r library.VoicingRow) (Voicing, error) {
	root, err := note.Parse(r.Root)
	if err != nil {
		return Voicing{}, fmt.Errorf("voicing %s: %w", r.ID, err)
	}
	v, err := Build(root, r.Steps)
	if err != nil {
		return Voicing{}, fmt.Errorf("voicing %s: %w", r.ID, err)
	}
	created := r.CreatedAt
	v.ID = r.ID
	v.Name = r.Name
	v.Formula = r.Formula
	v.CreatedAt = &created
	return v, nil
}

func noteNames(notes []note.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.String()
	}
	return out
}

func formulaPath(name string) string {
	return name + ".yaml"
}
