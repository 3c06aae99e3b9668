package api

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/manip-survey-data/agreement.report/internal/agreement"
	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

// runReport snapshots the store and runs the full agreement analysis.
func (s *Server) runReport() (*agreement.Report, error) {
	subs, convs, err := s.db.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot survey data: %w", err)
	}
	return agreement.Run(s.cfg, subs, convs)
}

func (s *Server) showAgreementReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	report, err := s.runReport()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute agreement: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// listDisagreements returns the conversations whose binary labels split,
// optionally restricted to one tactic via ?tactic=.
func (s *Server) listDisagreements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	subs, _, err := s.db.Snapshot()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to snapshot survey data: %v", err))
		return
	}
	binary, err := agreement.BinaryRecords(agreement.ExtractRawRatings(subs), s.cfg)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to binarize ratings: %v", err))
		return
	}

	grouping := agreement.BuildGroups(binary)
	groups := grouping.Qualifying
	if name := r.URL.Query().Get("tactic"); name != "" {
		groups, err = grouping.FilterTactic(tactic.Tactic(name))
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid 'tactic' parameter: %v", err))
			return
		}
	}

	disagreements := agreement.BinaryDisagreements(groups)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":         len(disagreements),
		"disagreements": disagreements,
	})
}

// handleAgreementChart renders a bar chart (HTML) of every coefficient over
// every scope using go-echarts. This is a debugging-only endpoint to eyeball
// the numbers without pulling the JSON into a notebook.
func (s *Server) handleAgreementChart(w http.ResponseWriter, r *http.Request) {
	report, err := s.runReport()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute agreement: %v", err))
		return
	}

	scopes := make([]string, 0, len(report.Coefficients[agreement.KindKrippendorff]))
	for scope := range report.Coefficients[agreement.KindKrippendorff] {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Inter-Annotator Agreement",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Inter-Annotator Agreement",
			Subtitle: fmt.Sprintf("binarized at score %s %d",
				comparisonSymbol(report.Binarization.Inclusive), report.Binarization.Threshold),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(scopes)

	for _, kind := range []agreement.CoefficientKind{
		agreement.KindKrippendorff, agreement.KindGwetAC1, agreement.KindMASI,
	} {
		data := make([]opts.BarData, 0, len(scopes))
		for _, scope := range scopes {
			res := report.Coefficients[kind][scope]
			if res.Value == nil {
				// Undefined scopes stay visible as gaps rather than zeros.
				data = append(data, opts.BarData{Value: nil})
				continue
			}
			data = append(data, opts.BarData{Value: *res.Value})
		}
		bar.AddSeries(string(kind), data)
	}

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func comparisonSymbol(inclusive bool) string {
	if inclusive {
		return ">="
	}
	return ">"
}
