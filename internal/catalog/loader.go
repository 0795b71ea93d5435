// Package catalog loads per-institution configuration from disk: the
// subjects catalog, the policy parameter set, and the program catalog.
// Parsing of the institution-specific policy payload is left to the caller,
// which knows the concrete policy type.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"degreefinder/internal/admissions"
	dErrors "degreefinder/pkg/domain-errors"
)

// Subject is one catalog entry. Category feeds the institution bonus tables.
type Subject struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Subjects is an institution's subject catalog, split into the mandatory set
// and the elective pool offered by the institution.
type Subjects struct {
	Mandatory []Subject `json:"mandatory"`
	Elective  []Subject `json:"elective"`
}

// MandatoryNames returns the mandatory subject names in catalog order.
func (s Subjects) MandatoryNames() []string {
	names := make([]string, 0, len(s.Mandatory))
	for _, subj := range s.Mandatory {
		names = append(names, subj.Name)
	}
	return names
}

// Bundle is everything needed to evaluate one institution: its subjects
// catalog, the raw policy parameters, and the program catalog.
type Bundle struct {
	Institution admissions.Institution
	Subjects    Subjects
	Policy      json.RawMessage
	Programs    []admissions.ProgramSpec
}

// Loader supplies per-institution configuration bundles.
type Loader interface {
	Load(institution admissions.Institution) (Bundle, error)
}

// FileLoader reads institution bundles from <root>/<institution>/
// {subjects,policy,programs}.json.
type FileLoader struct {
	root string
}

// NewFileLoader creates a loader rooted at the given data directory.
func NewFileLoader(root string) *FileLoader {
	return &FileLoader{root: root}
}

// Load reads and decodes one institution's configuration files.
//
// Errors: returns CodeNotFound when a file is missing and
// CodeConfiguration when a file does not parse.
func (l *FileLoader) Load(institution admissions.Institution) (Bundle, error) {
	dir := filepath.Join(l.root, string(institution))

	var subjects Subjects
	if err := readJSON(filepath.Join(dir, "subjects.json"), &subjects); err != nil {
		return Bundle{}, err
	}

	policy, err := os.ReadFile(filepath.Join(dir, "policy.json"))
	if err != nil {
		return Bundle{}, readError(filepath.Join(dir, "policy.json"), err)
	}
	if !json.Valid(policy) {
		return Bundle{}, dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("%s: policy.json is not valid JSON", institution))
	}

	var programs []admissions.ProgramSpec
	if err := readJSON(filepath.Join(dir, "programs.json"), &programs); err != nil {
		return Bundle{}, err
	}

	return Bundle{
		Institution: institution,
		Subjects:    subjects,
		Policy:      policy,
		Programs:    programs,
	}, nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return readError(path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeConfiguration,
			fmt.Sprintf("parsing %s: %v", filepath.Base(path), err))
	}
	return nil
}

func readError(path string, err error) error {
	if os.IsNotExist(err) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("missing %s", filepath.Base(path)))
	}
	return dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("reading %s: %v", filepath.Base(path), err))
}
