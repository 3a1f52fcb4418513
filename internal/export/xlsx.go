package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/agrigrant-cli/internal/model"
)

// Sheet names.
const (
	SheetPrograms     = "Grant Programs"
	SheetEnhancements = "CSP Enhancements"
)

var programHeader = []string{
	"ID", "Name", "Agency", "Category", "Success Rate", "Details", "Eligibility",
	"Funding", "Deadlines", "Forms", "Submission Steps", "SC-Specific", "Sample", "Analysis",
}

var enhancementHeader = []string{
	"Code", "Name", "CSAF", "Land Use", "Details", "References", "Grant Success Points",
	"Complementary Grants", "SC Estimate", "Analysis & Tips", "Submission Specifics",
}

func addHeader(sheet *xlsx.Sheet, cols []string) {
	row := sheet.AddRow()
	for _, c := range cols {
		cell := row.AddCell()
		cell.SetString(c)
		cell.GetStyle().Font.Bold = true
	}
}

func addStrings(row *xlsx.Row, vals ...string) {
	for _, v := range vals {
		row.AddCell().SetString(v)
	}
}

// ProgramsBook builds a workbook with one row per program, in input order.
func ProgramsBook(ps []model.GrantProgram) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetPrograms)
	if err != nil {
		return nil, eris.Wrap(err, "export: add programs sheet")
	}
	addHeader(sheet, programHeader)

	for _, p := range ps {
		row := sheet.AddRow()
		addStrings(row, p.ID, p.Name, p.Agency, p.Category)
		if p.HasSuccessRate() {
			row.AddCell().SetInt(*p.SuccessRate)
		} else {
			row.AddCell().SetString("")
		}
		addStrings(row,
			p.Details, p.Eligibility, p.Funding,
			strings.Join(p.Deadlines, "\n"),
			p.Submission.Forms,
			numbered(p.Submission.Steps),
			p.SCSpecific, p.Sample, p.Analysis,
		)
	}
	return f, nil
}

// EnhancementsBook builds a workbook with one row per enhancement, in input
// order.
func EnhancementsBook(es []model.CspEnhancement) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetEnhancements)
	if err != nil {
		return nil, eris.Wrap(err, "export: add enhancements sheet")
	}
	addHeader(sheet, enhancementHeader)

	for _, e := range es {
		row := sheet.AddRow()
		addStrings(row, e.Code, e.Name)
		row.AddCell().SetBool(e.CSAF)
		addStrings(row,
			string(e.LandUse), e.Details, e.References, e.GrantSuccessPoints,
			e.ComplementaryGrants, e.SCEstimate, e.Analysis, e.SubmissionSpecifics,
		)
	}
	return f, nil
}

// ProgramsSheet writes the program listing as a workbook to w.
func ProgramsSheet(w io.Writer, ps []model.GrantProgram) error {
	f, err := ProgramsBook(ps)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "export: write programs workbook")
}

// EnhancementsSheet writes the enhancement listing as a workbook to w.
func EnhancementsSheet(w io.Writer, es []model.CspEnhancement) error {
	f, err := EnhancementsBook(es)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "export: write enhancements workbook")
}

// SaveProgramsSheet writes the program listing to path.
func SaveProgramsSheet(path string, ps []model.GrantProgram) error {
	f, err := ProgramsBook(ps)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

// SaveEnhancementsSheet writes the enhancement listing to path.
func SaveEnhancementsSheet(path string, es []model.CspEnhancement) error {
	f, err := EnhancementsBook(es)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func numbered(steps []string) string {
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}
