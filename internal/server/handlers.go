package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agrigrant-cli/internal/annotate"
	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/export"
	"github.com/sells-group/agrigrant-cli/internal/filter"
	"github.com/sells-group/agrigrant-cli/internal/model"
)

const maxBodyBytes = 64 << 10

// AnnotatedField is a prose field split into plain and term segments.
type AnnotatedField struct {
	Label    string             `json:"label"`
	Segments []annotate.Segment `json:"segments"`
}

// ProgramDetail is the response of GET /api/grants/{id}.
type ProgramDetail struct {
	Program   model.GrantProgram    `json:"program"`
	Annotated []AnnotatedField      `json:"annotated"`
	Steps     [][]annotate.Segment  `json:"steps"`
	Glossary  []model.GlossaryEntry `json:"glossary"`
}

// EnhancementDetail is the response of GET /api/csp/{code}.
type EnhancementDetail struct {
	Enhancement model.CspEnhancement  `json:"enhancement"`
	Annotated   []AnnotatedField      `json:"annotated"`
	Glossary    []model.GlossaryEntry `json:"glossary"`
}

func (s *Server) annotateFields(fields []model.LabeledText) ([]AnnotatedField, []string) {
	table := s.cat.Acronyms()
	out := make([]AnnotatedField, len(fields))
	texts := make([]string, len(fields))
	for i, f := range fields {
		out[i] = AnnotatedField{Label: f.Label, Segments: annotate.Annotate(f.Text, table)}
		texts[i] = f.Text
	}
	return out, texts
}

func programCriteria(r *http.Request) filter.ProgramCriteria {
	q := r.URL.Query()
	return filter.ProgramCriteria{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Agency:   q.Get("agency"),
	}
}

func enhancementCriteria(r *http.Request) (filter.EnhancementCriteria, error) {
	q := r.URL.Query()
	lu, err := filter.ParseLandUse(q.Get("land_use"))
	if err != nil {
		return filter.EnhancementCriteria{}, invalid(err)
	}
	csaf, err := filter.ParseTriState(q.Get("csaf"))
	if err != nil {
		return filter.EnhancementCriteria{}, invalid(err)
	}
	return filter.EnhancementCriteria{Search: q.Get("search"), LandUse: lu, CSAF: csaf}, nil
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Categories)
}

func (s *Server) handleGrants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, filter.Programs(s.cat.Programs(), programCriteria(r)))
}

func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	p, err := s.cat.Program(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	fields, texts := s.annotateFields(p.ProseFields())
	table := s.cat.Acronyms()
	steps := make([][]annotate.Segment, len(p.Submission.Steps))
	for i, step := range p.Submission.Steps {
		steps[i] = annotate.Annotate(step, table)
		texts = append(texts, step)
	}

	writeJSON(w, http.StatusOK, ProgramDetail{
		Program:   p,
		Annotated: fields,
		Steps:     steps,
		Glossary:  annotate.Terms(strings.Join(texts, "\n"), table),
	})
}

func (s *Server) handleEnhancements(w http.ResponseWriter, r *http.Request) {
	c, err := enhancementCriteria(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filter.Enhancements(s.cat.Enhancements(), c))
}

func (s *Server) handleEnhancement(w http.ResponseWriter, r *http.Request) {
	e, err := s.cat.Enhancement(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	fields, texts := s.annotateFields(e.ProseFields())
	writeJSON(w, http.StatusOK, EnhancementDetail{
		Enhancement: e,
		Annotated:   fields,
		Glossary:    annotate.Terms(strings.Join(texts, "\n"), s.cat.Acronyms()),
	})
}

func (s *Server) handleAcronyms(w http.ResponseWriter, r *http.Request) {
	table := s.cat.Acronyms()
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		writeJSON(w, http.StatusOK, table.Entries())
		return
	}
	def, ok := table.Lookup(term)
	if !ok {
		writeError(w, r, eris.Wrapf(catalog.ErrNotFound, "acronym %q", term))
		return
	}
	writeJSON(w, http.StatusOK, model.GlossaryEntry{Term: strings.ToUpper(term), Definition: def})
}

type annotateRequest struct {
	Text string `json:"text"`
}

type annotateResponse struct {
	Segments []annotate.Segment    `json:"segments"`
	Terms    []model.GlossaryEntry `json:"terms"`
}

func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	var req annotateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	table := s.cat.Acronyms()
	writeJSON(w, http.StatusOK, annotateResponse{
		Segments: annotate.Annotate(req.Text, table),
		Terms:    annotate.Terms(req.Text, table),
	})
}

func (s *Server) handleForms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Forms())
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash)
}

type goalsResponse struct {
	Goals      []string                `json:"goals"`
	Experience []model.ExperienceLevel `json:"experience"`
}

func (s *Server) handleGoals(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, goalsResponse{Goals: s.cat.Guide().Goals, Experience: model.ExperienceLevels})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if s.rec == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "recommendations are not configured"})
		return
	}
	if !s.limiter.Allow() {
		w.Header().Set("Retry-After", "2")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many recommendation requests"})
		return
	}

	var profile model.FarmProfile
	if err := decodeBody(r, &profile); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.rec.Recommend(r.Context(), profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleExportGrants(w http.ResponseWriter, r *http.Request) {
	ps := filter.Programs(s.cat.Programs(), programCriteria(r))
	book, err := export.ProgramsBook(ps)
	if err != nil {
		writeError(w, r, internal(err))
		return
	}
	attachment(w, export.DefaultName("Grant Programs", export.ExtXlsx), xlsxType)
	if err := book.Write(w); err != nil {
		zap.L().Warn("server: write workbook", zap.Error(err))
	}
}

func (s *Server) handleExportEnhancements(w http.ResponseWriter, r *http.Request) {
	c, err := enhancementCriteria(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	es := filter.Enhancements(s.cat.Enhancements(), c)
	book, err := export.EnhancementsBook(es)
	if err != nil {
		writeError(w, r, internal(err))
		return
	}
	attachment(w, export.DefaultName("CSP Enhancements", export.ExtXlsx), xlsxType)
	if err := book.Write(w); err != nil {
		zap.L().Warn("server: write workbook", zap.Error(err))
	}
}

func (s *Server) handleExportGrant(w http.ResponseWriter, r *http.Request) {
	p, err := s.cat.Program(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	dir, err := os.MkdirTemp("", "agrigrant-export-")
	if err != nil {
		writeError(w, r, internal(eris.Wrap(err, "server: temp dir")))
		return
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	name := export.DefaultName(p.Name, export.ExtDocx)
	path := filepath.Join(dir, name)
	if err := export.ProgramDoc(path, p, s.cat.Acronyms()); err != nil {
		writeError(w, r, internal(err))
		return
	}
	f, err := os.Open(path)
	if err != nil {
		writeError(w, r, internal(eris.Wrap(err, "server: open export")))
		return
	}
	defer f.Close() //nolint:errcheck

	attachment(w, name, docxType)
	if _, err := io.Copy(w, f); err != nil {
		zap.L().Warn("server: write document", zap.Error(err))
	}
}

const (
	xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	docxType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

func attachment(w http.ResponseWriter, name, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return invalid(eris.Wrap(err, "server: invalid request body"))
	}
	return nil
}
