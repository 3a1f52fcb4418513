// Package catalog loads the immutable reference data (grant programs, CSP
// enhancements, acronyms, forms and guide narrative) and serves read-only
// lookups over it.
package catalog

import (
	"bytes"
	"embed"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/agrigrant-cli/internal/model"
)

//go:embed data/*.yaml
var embedded embed.FS

// Reference data file names, relative to the data root.
const (
	ProgramsFile     = "programs.yaml"
	EnhancementsFile = "enhancements.yaml"
	AcronymsFile     = "acronyms.yaml"
	FormsFile        = "forms.yaml"
	GuideFile        = "guide.yaml"
)

type programsDoc struct {
	Categories []model.Category     `yaml:"categories"`
	Programs   []model.GrantProgram `yaml:"programs"`
}

type enhancementsDoc struct {
	Enhancements []model.CspEnhancement `yaml:"enhancements"`
}

type acronymsDoc struct {
	Acronyms model.AcronymTable `yaml:"acronyms"`
}

type formsDoc struct {
	Forms []model.FormInfo `yaml:"forms"`
}

// Embedded returns the reference data compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}

// Default loads and validates the embedded reference data.
func Default() (*Catalog, error) {
	return Load(Embedded())
}

// Open loads reference data from dir, or the embedded snapshot when dir is
// empty.
func Open(dir string) (*Catalog, error) {
	if dir == "" {
		return Default()
	}
	zap.L().Info("catalog: loading reference data from directory", zap.String("dir", dir))
	return Load(os.DirFS(dir))
}

// Load decodes every reference data file from fsys, validates the result and
// builds the lookup indexes. Any invalid record fails the whole load.
func Load(fsys fs.FS) (*Catalog, error) {
	var pd programsDoc
	if err := decodeFile(fsys, ProgramsFile, &pd); err != nil {
		return nil, err
	}
	var ed enhancementsDoc
	if err := decodeFile(fsys, EnhancementsFile, &ed); err != nil {
		return nil, err
	}
	var ad acronymsDoc
	if err := decodeFile(fsys, AcronymsFile, &ad); err != nil {
		return nil, err
	}
	var fd formsDoc
	if err := decodeFile(fsys, FormsFile, &fd); err != nil {
		return nil, err
	}
	var guide model.Guide
	if err := decodeFile(fsys, GuideFile, &guide); err != nil {
		return nil, err
	}

	c := &Catalog{
		categories:   pd.Categories,
		programs:     pd.Programs,
		enhancements: ed.Enhancements,
		acronyms:     ad.Acronyms,
		forms:        fd.Forms,
		guide:        guide,
	}
	if c.acronyms == nil {
		c.acronyms = model.AcronymTable{}
	}

	if err := validate(c); err != nil {
		return nil, err
	}
	c.buildIndexes()

	zap.L().Debug("catalog: loaded",
		zap.Int("categories", len(c.categories)),
		zap.Int("programs", len(c.programs)),
		zap.Int("enhancements", len(c.enhancements)),
		zap.Int("acronyms", len(c.acronyms)),
		zap.Int("forms", len(c.forms)),
	)
	return c, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return eris.Wrapf(err, "catalog: read %s", name)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return eris.Wrapf(err, "catalog: decode %s", name)
	}
	return nil
}
