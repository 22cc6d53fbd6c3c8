package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/costboard/internal/charts"
	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/utils"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

type staticSource struct {
	ds  *dataset.Dataset
	err error
}

func (s staticSource) Get() (*dataset.Dataset, error) { return s.ds, s.err }

func fixture() *dataset.Dataset {
	fields := []string{
		dataset.FieldMealInexpensive, dataset.FieldRentCentre, dataset.FieldInternet,
		dataset.FieldNetSalary, dataset.FieldMortgageRate, dataset.FieldLeatherShoes,
	}
	rec := func(country, city string, v ...float64) dataset.Record {
		vals := map[string]dataset.Value{}
		for i, x := range v {
			vals[fields[i]] = dataset.Some(x)
		}
		return dataset.Record{Country: country, City: city, Province: dataset.ProvinceDefault, Values: vals}
	}
	return dataset.New("fixture.csv", fields, []dataset.Record{
		rec("USA", "NYC", 25, 3000, 65, 5000, 6.5, 120),
		rec("USA", "LA", 22, 2500, 60, 4500, 6.8, 110),
		rec("France", "Paris", 18, 1800, 30, 3000, 3.9, 100),
		rec("France", "Lyon", 15, 1100, 28, 2400),
	})
}

func newTestServer(t *testing.T, src Source) *httptest.Server {
	t.Helper()
	s := New(src, utils.NewLoggerTo(io.Discard, io.Discard, false), Options{ChartSize: charts.Size{Width: 4, Height: 3}})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, wantCode int, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantCode {
		t.Fatalf("GET %s: status %d, want %d: %s", path, resp.StatusCode, wantCode, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("GET %s: decode: %v\n%s", path, err, body)
		}
	}
	return resp
}

func TestOverviewAndSelectors(t *testing.T) {
	ts := newTestServer(t, staticSource{ds: fixture()})

	var ov struct {
		Field     string `json:"field"`
		Countries []struct {
			Country string   `json:"country"`
			Mean    *float64 `json:"mean"`
		} `json:"countries"`
	}
	resp := getJSON(t, ts, "/api/overview?field="+dataset.FieldRentCentre, http.StatusOK, &ov)
	if len(ov.Countries) != 2 || ov.Countries[1].Country != "USA" || *ov.Countries[1].Mean != 2750 {
		t.Fatalf("overview = %+v", ov)
	}
	if _, err := uuid.Parse(resp.Header.Get("X-Request-ID")); err != nil {
		t.Fatalf("missing request id: %q", resp.Header.Get("X-Request-ID"))
	}

	var cs struct{ Countries []string }
	getJSON(t, ts, "/api/countries", http.StatusOK, &cs)
	if strings.Join(cs.Countries, ",") != "France,USA" {
		t.Fatalf("countries = %v", cs.Countries)
	}
	var ci struct{ Cities []string }
	getJSON(t, ts, "/api/cities?country=USA", http.StatusOK, &ci)
	if strings.Join(ci.Cities, ",") != "LA,NYC" {
		t.Fatalf("cities = %v", ci.Cities)
	}
	getJSON(t, ts, "/api/cities", http.StatusBadRequest, nil)
}

func TestCountryAndCompare(t *testing.T) {
	ts := newTestServer(t, staticSource{ds: fixture()})

	var d struct {
		TopCities []struct{ City string } `json:"top_cities"`
		Metrics   []struct {
			Label string   `json:"label"`
			Value *float64 `json:"value"`
		} `json:"metrics"`
	}
	getJSON(t, ts, "/api/country?country=USA&n=1", http.StatusOK, &d)
	if len(d.TopCities) != 1 || d.TopCities[0].City != "NYC" {
		t.Fatalf("top cities = %+v", d.TopCities)
	}
	getJSON(t, ts, "/api/country?country=USA&n=x", http.StatusBadRequest, nil)

	var c struct {
		Rows []struct {
			Metric string   `json:"metric"`
			Entity string   `json:"entity"`
			Value  *float64 `json:"value"`
		} `json:"rows"`
	}
	q := url.Values{"country1": {"USA"}, "city1": {"NYC"}, "country2": {"France"}, "city2": {"Paris"}}
	getJSON(t, ts, "/api/compare?"+q.Encode(), http.StatusOK, &c)
	if len(c.Rows) != 10 || c.Rows[2].Entity != "NYC" || *c.Rows[2].Value != 3000 || *c.Rows[3].Value != 1800 {
		t.Fatalf("compare rows = %+v", c.Rows)
	}

	q.Set("city2", "Nowhere")
	var e errorBody
	getJSON(t, ts, "/api/compare?"+q.Encode(), http.StatusNotFound, &e)
	if !strings.Contains(e.Error, "Nowhere") || e.RequestID == "" {
		t.Fatalf("error body = %+v", e)
	}
	q.Del("city2")
	getJSON(t, ts, "/api/compare?"+q.Encode(), http.StatusBadRequest, nil)
}

func TestInsightsAndFieldErrors(t *testing.T) {
	ts := newTestServer(t, staticSource{ds: fixture()})
	var m struct {
		Fields []string     `json:"fields"`
		Values [][]*float64 `json:"values"`
	}
	getJSON(t, ts, "/api/insights", http.StatusOK, &m)
	if len(m.Fields) != 5 || len(m.Values) != 5 || *m.Values[0][0] != 1 {
		t.Fatalf("insights = %+v", m)
	}
	getJSON(t, ts, "/api/insights?fields="+dataset.FieldRentCentre+",Nope", http.StatusBadRequest, nil)
	getJSON(t, ts, "/api/overview?field=Nope", http.StatusBadRequest, nil)
}

func TestCharts(t *testing.T) {
	ts := newTestServer(t, staticSource{ds: fixture()})
	for _, path := range []string{
		"/charts/overview.png",
		"/charts/country.png?country=France",
		"/charts/compare.png?country1=USA&city1=LA&country2=France&city2=Lyon",
		"/charts/insights.png",
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
			t.Fatalf("%s: status %d type %q: %s", path, resp.StatusCode, resp.Header.Get("Content-Type"), body)
		}
		if !bytes.HasPrefix(body, []byte("\x89PNG")) {
			t.Fatalf("%s: not a png", path)
		}
	}
	getJSON(t, ts, "/charts/pie.png", http.StatusBadRequest, nil)
	getJSON(t, ts, "/charts/compare.png?country1=USA", http.StatusBadRequest, nil)
	getJSON(t, ts, "/charts/country.png?country=Atlantis", http.StatusNotFound, nil)
}

func TestRequestIDMiddleware(t *testing.T) {
	color.NoColor = true
	var logs bytes.Buffer
	s := New(staticSource{ds: fixture()}, utils.NewLoggerTo(&logs, &logs, false), Options{})

	inbound := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	req.Header.Set("X-Request-ID", inbound)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != inbound {
		t.Fatalf("inbound id not reused: %q", got)
	}
	if !strings.Contains(logs.String(), "GET /api/countries 200") || !strings.Contains(logs.String(), inbound) {
		t.Fatalf("request not logged: %q", logs.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cities", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got == "not-a-uuid" || rec.Code != http.StatusBadRequest {
		t.Fatalf("id %q code %d", got, rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, staticSource{ds: fixture()})
	resp, err := http.Post(ts.URL+"/api/countries", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestIndexPage(t *testing.T) {
	ts := newTestServer(t, staticSource{ds: fixture()})
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	page := string(body)
	for _, want := range []string{"Global Cost of Living Dashboard", "4 cities from fixture.csv", "<option>France</option>", `"rankField":"Apartment_1br_CityCentre_USD"`} {
		if !strings.Contains(page, want) {
			t.Fatalf("index missing %q", want)
		}
	}
	getJSON(t, ts, "/missing", http.StatusNotFound, nil)
}

func TestDataUnavailable(t *testing.T) {
	err := &dataset.DataUnavailableError{Path: "/nope.csv", Reason: "file not found"}
	ts := newTestServer(t, staticSource{err: err})
	getJSON(t, ts, "/api/countries", http.StatusServiceUnavailable, nil)
	getJSON(t, ts, "/healthz", http.StatusServiceUnavailable, nil)
}

func TestHealthAndGracefulShutdown(t *testing.T) {
	color.NoColor = true
	var logs bytes.Buffer
	s := New(staticSource{ds: fixture()}, utils.NewLoggerTo(&logs, &logs, false), Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	var h struct {
		Status string `json:"status"`
		Rows   int    `json:"rows"`
	}
	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get("http://" + ln.Addr().String() + "/healthz"); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	_ = json.NewDecoder(resp.Body).Decode(&h)
	resp.Body.Close()
	if h.Status != "ok" || h.Rows != 4 {
		t.Fatalf("health = %+v", h)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
