package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/register"
)

const observationWidth = 40

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func renderSummary(w io.Writer, e *register.Engine) {
	query, location := e.Filter()
	fmt.Fprintf(w, "Category: %s | %d of %d records | Location: %s", e.Category(), len(e.Rows()), e.Len(), location)
	if query != "" {
		fmt.Fprintf(w, " | Search: %q", query)
	}
	if at, ok := e.LastUpload(); ok {
		fmt.Fprintf(w, " | Last updated: %s", at.Local().Format(time.DateTime))
	}
	fmt.Fprintln(w)
}

func renderTable(w io.Writer, rows []models.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSN\tLOCATION\tNC\tSTATUS\tEVIDENCE\tOBSERVATION")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, orDash(r.SN), orDash(r.Location), orDash(r.NCType),
			r.EffectiveStatus(), orDash(r.Evidence), truncate(r.Observation, observationWidth))
	}
	_ = tw.Flush()
}

var fieldLabels = map[models.Field]string{
	models.FieldSN:               "S.No",
	models.FieldLocation:         "Location",
	models.FieldDomainClauses:    "Domain / Clause",
	models.FieldDateOfAudit:      "Date of audit",
	models.FieldReportDate:       "Date of submission",
	models.FieldNCType:           "NC (Min/I)",
	models.FieldObservation:      "Observation",
	models.FieldRootCause:        "Root cause analysis",
	models.FieldCorrectiveAction: "Corrective action",
	models.FieldPreventiveAction: "Preventive action",
	models.FieldResponsibility:   "Responsibility",
	models.FieldClosingDate:      "Closing date",
	models.FieldStatus:           "Status",
	models.FieldEvidence:         "Evidence",
}

func renderRecord(w io.Writer, r models.Record, evidenceBase, staged string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	id := r.ID
	if id == "" {
		id = "(unresolved)"
	}
	fmt.Fprintf(tw, "ID\t%s\n", id)
	for _, f := range models.Fields {
		v := r.Get(f)
		if f == models.FieldStatus {
			v = string(r.EffectiveStatus())
		}
		marker := ""
		if register.Editable(f) {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s%s\t%s\n", fieldLabels[f], marker, orDash(v))
	}
	if r.Evidence != "" && evidenceBase != "" {
		fmt.Fprintf(tw, "Download\t%s\n", register.EvidenceURL(evidenceBase, r.Evidence))
	}
	if staged != "" {
		fmt.Fprintf(tw, "Staged file\t%s\n", staged)
	}
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, orDash(r.Extra[k]))
	}
	_ = tw.Flush()
}

func renderDirectory(w io.Writer, users []models.DirectoryEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tCOMPANY\tASSIGN AS")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Username, orDash(u.CompanyName), u.Label())
	}
	_ = tw.Flush()
}
