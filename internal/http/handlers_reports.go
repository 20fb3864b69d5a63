package http

import (
	"bytes"
	"net/http"
	"strings"

	"financetrack/internal/export"
	"financetrack/internal/log"
	"financetrack/internal/services"
)

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.deps.Reports.Monthly(r.Context(), currentUser(r).ID)
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}
	NewJSONResponse().Body(orEmpty(report)).Write(w)
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	weeks, err := ParseWeeks(r.URL.Query())
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}
	report, err := s.deps.Reports.Weekly(r.Context(), currentUser(r).ID, weeks)
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}
	NewJSONResponse().Body(orEmpty(report)).Write(w)
}

func (s *Server) handleRangeReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("start")) == "" || strings.TrimSpace(q.Get("end")) == "" {
		fail(w, r, services.ErrMissingFields, reportMessages)
		return
	}
	start, err := queryDate(q, "start")
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}
	end, err := queryDate(q, "end")
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}

	report, err := s.deps.Reports.Range(r.Context(), currentUser(r).ID, start, end)
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}
	NewJSONResponse().Body(report).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Reports.Summary(r.Context(), currentUser(r).ID)
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}
	NewJSONResponse().Body(summary).Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}
	start, err := queryDate(q, "start")
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}
	end, err := queryDate(q, "end")
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}

	user := currentUser(r)
	bundle, err := s.deps.Exports.Bundle(r.Context(), user.ID, start, end)
	if err != nil {
		fail(w, r, err, reportMessages)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, bundle); err != nil {
		fail(w, r, err, reportMessages)
		return
	}

	s.logger.InfoContext(r.Context(), "Export generated",
		log.FieldUserID, user.ID,
		log.FieldReport, string(format),
		log.FieldRangeStart, bundle.Range.Start.String(),
		log.FieldRangeEnd, bundle.Range.End.String(),
		"bytes", buf.Len())

	NewJSONResponse().
		Attachment(format.Filename(bundle.Range), format.ContentType(), buf.Bytes()).
		Write(w)
}
