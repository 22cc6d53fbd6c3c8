package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/KaramelBytes/costboard/internal/charts"
	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/views"
)

// errBadRequest marks malformed or missing query parameters.
var errBadRequest = errors.New("bad request")

func badParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, views.ErrEntityNotFound), errors.Is(err, charts.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, views.ErrUnknownField), errors.Is(err, charts.ErrUnknownView), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= 500 {
		s.log.Error("%v", err)
	}
	writeJSON(w, code, errorBody{Error: err.Error(), RequestID: w.Header().Get(requestIDHeader)})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// load fetches the shared dataset or writes the failure.
func (s *Server) load(w http.ResponseWriter) (*dataset.Dataset, bool) {
	ds, err := s.src.Get()
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return ds, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds, err := s.src.Get()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rows": ds.Len(), "source": ds.Source()})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.load(w)
	if !ok {
		return
	}
	out := make([]dataset.FieldInfo, 0, len(ds.Fields()))
	for _, f := range ds.Fields() {
		out = append(out, dataset.Describe(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": out})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.load(w)
	if !ok {
		return
	}
	field := param(r, "field", s.opts.MapField)
	rows, err := views.AggregateByCountry(ds, field)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"field":     field,
		"label":     dataset.Describe(field).Label,
		"countries": rows,
	})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.load(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"countries": ds.Countries()})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.load(w)
	if !ok {
		return
	}
	country, err := required(r, "country")
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"country": country, "cities": ds.Cities(country)})
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.load(w)
	if !ok {
		return
	}
	req, err := s.chartRequest(r)
	if err == nil && req.Country == "" {
		err = badParam("missing country")
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, err := views.NewCountryDetail(ds, req.Country, req.Field, req.TopN)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.load(w)
	if !ok {
		return
	}
	a, b, err := entities(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := views.Compare(ds, a, b, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.load(w)
	if !ok {
		return
	}
	m, err := views.CorrelationMatrix(ds, fieldList(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleChart serves /charts/{view}.png for every chart view.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	view, ok := strings.CutSuffix(file, ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}
	ds, ok := s.load(w)
	if !ok {
		return
	}
	req, err := s.chartRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	switch view {
	case "overview":
		req.Field = param(r, "field", s.opts.MapField)
	case "compare":
		if req.A, req.B, err = entities(r); err != nil {
			s.writeError(w, err)
			return
		}
	}
	p, err := charts.Render(ds, view, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := charts.WritePNG(&buf, p, s.opts.ChartSize); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// chartRequest reads the selector parameters shared by the country view
// and the charts.
func (s *Server) chartRequest(r *http.Request) (charts.Request, error) {
	req := charts.Request{
		Field:   param(r, "field", s.opts.RankField),
		Country: strings.TrimSpace(r.URL.Query().Get("country")),
		TopN:    s.opts.TopN,
		Fields:  fieldList(r),
	}
	if v := r.URL.Query().Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, badParam("invalid n %q", v)
		}
		req.TopN = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, badParam("invalid limit %q", v)
		}
		req.Limit = n
	}
	return req, nil
}

func entities(r *http.Request) (views.EntityRef, views.EntityRef, error) {
	var a, b views.EntityRef
	var err error
	for _, p := range []struct {
		dst  *string
		name string
	}{
		{&a.Country, "country1"}, {&a.City, "city1"},
		{&b.Country, "country2"}, {&b.City, "city2"},
	} {
		if *p.dst, err = required(r, p.name); err != nil {
			return a, b, err
		}
	}
	return a, b, nil
}

func param(r *http.Request, name, def string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(name)); v != "" {
		return v
	}
	return def
}

func required(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", badParam("missing %s", name)
	}
	return v, nil
}

// fieldList parses fields=a,b; nil selects the default insight fields.
func fieldList(r *http.Request) []string {
	raw := r.URL.Query().Get("fields")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
