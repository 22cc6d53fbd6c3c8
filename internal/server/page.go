package server

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/views"
)

type pageData struct {
	Title     string
	Source    string
	Rows      int
	Countries []string
	Fields    []dataset.FieldInfo
	MapField  string
	RankField string
	TopN      int
	// Initial state for the script, embedded as JSON.
	Boot template.JS
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.load(w)
	if !ok {
		return
	}
	fields := make([]dataset.FieldInfo, 0, len(ds.Fields()))
	for _, f := range ds.Fields() {
		fields = append(fields, dataset.Describe(f))
	}
	countries := ds.Countries()
	boot := map[string]any{
		"countries":   countries,
		"mapField":    s.opts.MapField,
		"rankField":   s.opts.RankField,
		"topN":        s.opts.TopN,
		"cards":       views.CountryCardMetrics,
		"comparison":  views.ComparisonMetrics,
		"insightDefs": views.CorrelationFields(),
	}
	data := pageData{
		Title:     "Global Cost of Living Dashboard",
		Source:    ds.Source(),
		Rows:      ds.Len(),
		Countries: countries,
		Fields:    fields,
		MapField:  s.opts.MapField,
		RankField: s.opts.RankField,
		TopN:      s.opts.TopN,
		Boot:      s.templateJSON(boot),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.log.Error("template error: %v", err)
	}
}

func (s *Server) templateJSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("json marshal error for template data: %v", err)
		return template.JS("null")
	}
	return template.JS(b)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{ .Title }}</title>
  <style>
    body { margin: 0; font-family: system-ui, sans-serif; color: #0f172a; background: #f6f7f9; }
    header { padding: 16px 24px; background: #0f766e; color: #fff; }
    header small { opacity: .8; }
    nav { display: flex; gap: 4px; padding: 0 24px; background: #e2e8f0; }
    nav button { border: 0; padding: 10px 16px; background: none; cursor: pointer; font-size: 15px; }
    nav button.active { background: #f6f7f9; font-weight: 600; }
    section { display: none; padding: 20px 24px; }
    section.active { display: block; }
    .controls { display: flex; flex-wrap: wrap; gap: 12px; margin-bottom: 16px; }
    .cards { display: grid; grid-template-columns: repeat(auto-fill, minmax(200px, 1fr)); gap: 12px; margin: 16px 0; }
    .card { background: #fff; border-radius: 8px; padding: 12px; box-shadow: 0 2px 6px rgba(15,23,42,.08); }
    .card b { display: block; font-size: 20px; margin-top: 4px; }
    img.chart { max-width: 100%; background: #fff; border-radius: 8px; }
    table { border-collapse: collapse; background: #fff; margin-top: 16px; }
    td, th { border: 1px solid #e2e8f0; padding: 6px 10px; text-align: left; }
    .error { color: #b91c1c; }
  </style>
</head>
<body>
  <header>
    <h1>{{ .Title }}</h1>
    <small>{{ .Rows }} cities from {{ .Source }}</small>
  </header>
  <nav>
    <button data-tab="overview" class="active">Global Overview</button>
    <button data-tab="country">Country Deep Dive</button>
    <button data-tab="compare">City Comparison</button>
    <button data-tab="insights">Insights</button>
  </nav>

  <section id="overview" class="active">
    <div class="controls">
      <label>Indicator
        <select id="ov-field">
          {{ range .Fields }}<option value="{{ .Name }}"{{ if eq .Name $.MapField }} selected{{ end }}>{{ .Label }}</option>{{ end }}
        </select>
      </label>
    </div>
    <img class="chart" id="ov-chart" alt="country averages" />
  </section>

  <section id="country">
    <div class="controls">
      <label>Country
        <select id="ct-country">
          {{ range .Countries }}<option>{{ . }}</option>{{ end }}
        </select>
      </label>
    </div>
    <div class="cards" id="ct-cards"></div>
    <img class="chart" id="ct-chart" alt="top cities" />
  </section>

  <section id="compare">
    <div class="controls">
      <label>Country 1 <select id="cp-country1">{{ range .Countries }}<option>{{ . }}</option>{{ end }}</select></label>
      <label>City 1 <select id="cp-city1"></select></label>
      <label>Country 2 <select id="cp-country2">{{ range .Countries }}<option>{{ . }}</option>{{ end }}</select></label>
      <label>City 2 <select id="cp-city2"></select></label>
    </div>
    <img class="chart" id="cp-chart" alt="comparison" />
    <table id="cp-table"></table>
  </section>

  <section id="insights">
    <img class="chart" id="in-chart" alt="correlation heatmap" />
  </section>

  <script>
  const boot = {{ .Boot }};
  const $ = (id) => document.getElementById(id);
  const q = (o) => new URLSearchParams(o).toString();
  const fmt = (v) => v === null ? "no data" : v.toFixed(2);

  function showTab(name) {
    document.querySelectorAll("nav button").forEach(b => b.classList.toggle("active", b.dataset.tab === name));
    document.querySelectorAll("section").forEach(s => s.classList.toggle("active", s.id === name));
  }
  document.querySelectorAll("nav button").forEach(b => b.addEventListener("click", () => showTab(b.dataset.tab)));

  function overview() {
    $("ov-chart").src = "/charts/overview.png?" + q({field: $("ov-field").value, limit: 40});
  }

  async function country() {
    const c = $("ct-country").value;
    if (!c) return;
    $("ct-chart").src = "/charts/country.png?" + q({country: c, field: boot.rankField, n: boot.topN});
    const res = await fetch("/api/country?" + q({country: c, field: boot.rankField, n: boot.topN}));
    const d = await res.json();
    $("ct-cards").innerHTML = "";
    (d.metrics || []).forEach(m => {
      const div = document.createElement("div");
      div.className = "card";
      div.textContent = m.label;
      const b = document.createElement("b");
      b.textContent = m.value === null ? "no data" : (m.unit === "%" ? m.value.toFixed(2) + "%" : "$" + m.value.toFixed(2));
      div.appendChild(b);
      $("ct-cards").appendChild(div);
    });
  }

  async function cities(countrySel, citySel) {
    const res = await fetch("/api/cities?" + q({country: $(countrySel).value}));
    const d = await res.json();
    $(citySel).innerHTML = "";
    (d.cities || []).forEach(c => { const o = document.createElement("option"); o.textContent = c; $(citySel).appendChild(o); });
  }

  async function compare() {
    const p = {country1: $("cp-country1").value, city1: $("cp-city1").value, country2: $("cp-country2").value, city2: $("cp-city2").value};
    if (!p.city1 || !p.city2) return;
    $("cp-chart").src = "/charts/compare.png?" + q(p);
    const res = await fetch("/api/compare?" + q(p));
    const d = await res.json();
    const t = $("cp-table");
    t.innerHTML = "";
    if (!res.ok) { t.innerHTML = "<tr><td class=error></td></tr>"; t.querySelector("td").textContent = d.error; return; }
    const head = t.insertRow();
    ["Metric", d.a_id, d.b_id].forEach(h => { const th = document.createElement("th"); th.textContent = h; head.appendChild(th); });
    d.table.forEach(r => { const tr = t.insertRow(); [r.metric, fmt(r.a), fmt(r.b)].forEach(v => tr.insertCell().textContent = v); });
  }

  $("ov-field").addEventListener("change", overview);
  $("ct-country").addEventListener("change", country);
  $("cp-country1").addEventListener("change", () => cities("cp-country1", "cp-city1").then(compare));
  $("cp-country2").addEventListener("change", () => cities("cp-country2", "cp-city2").then(compare));
  $("cp-city1").addEventListener("change", compare);
  $("cp-city2").addEventListener("change", compare);

  if (boot.countries.length > 1) $("cp-country2").selectedIndex = 1;
  overview();
  country();
  Promise.all([cities("cp-country1", "cp-city1"), cities("cp-country2", "cp-city2")]).then(compare);
  $("in-chart").src = "/charts/insights.png";
  </script>
</body>
</html>
`))
