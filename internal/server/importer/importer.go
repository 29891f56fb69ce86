// Package importer reads an audit register from an .xlsx or .csv file into
// record documents keyed by wire names.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/auditdesk/internal/common"
)

var (
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported file format", common.ErrorValidation)
	ErrNoHeader          = fmt.Errorf("%w: sheet has no header row", common.ErrorValidation)
)

// headerAliases maps normalised column titles to wire keys.
var headerAliases = map[string]string{
	"sn":                     "SN",
	"sno":                    "SN",
	"srno":                   "SN",
	"serialno":               "SN",
	"location":               "Location",
	"plant":                  "Location",
	"domainclauses":          "DomainClauses",
	"domainclause":           "DomainClauses",
	"dateofaudit":            "DateOfAudit",
	"auditdate":              "DateOfAudit",
	"dateofsubmission":       "DateOfSubmission",
	"reportdate":             "DateOfSubmission",
	"ncmini":                 "NCMinI",
	"nc":                     "NCMinI",
	"observationdescription": "ObservationDescription",
	"observation":            "ObservationDescription",
	"rootcauseanalysis":      "RootCauseAnalysis",
	"rootcause":              "RootCauseAnalysis",
	"correctiveaction":       "CorrectiveAction",
	"preventiveaction":       "PreventiveAction",
	"responsibility":         "Responsibility",
	"closingdates":           "ClosingDates",
	"closingdate":            "ClosingDates",
	"status":                 "Status",
	"evidence":               "Evidence",
}

func normalise(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HeaderKey returns the wire key of a column title. Unknown titles are kept
// as written, trimmed.
func HeaderKey(title string) string {
	if key, ok := headerAliases[normalise(title)]; ok {
		return key
	}
	return strings.TrimSpace(title)
}

// Parse reads the first sheet of an .xlsx file or a whole .csv file. The
// first non-empty row is the header; blank rows are skipped and cells are
// trimmed.
func Parse(name string, content []byte) ([]map[string]any, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		rows, err = readXLSX(content)
	case ".csv":
		rows, err = readCSV(content)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return toDocuments(rows)
}

func readXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSV(content []byte) ([][]string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func toDocuments(rows [][]string) ([]map[string]any, error) {
	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, ErrNoHeader
	}

	header := make([]string, len(rows[start]))
	for i, title := range rows[start] {
		header[i] = HeaderKey(title)
	}

	docs := []map[string]any{}
	for _, row := range rows[start+1:] {
		if blank(row) {
			continue
		}
		doc := make(map[string]any, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			doc[key] = value
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
