package server

import (
	"fmt"
	"html/template"
	"time"

	"yieldRadar/internal/model"
)

// pageData feeds the index template.
type pageData struct {
	Chain     string
	View      model.ViewConfig
	Pools     []model.RankedPool
	Limits    []int
	FetchErr  string
	FetchedAt time.Time
	Query     string
}

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"usd":   func(v *float64) string { return model.FormatUSD(v, "—") },
	"pct":   func(v *float64) string { return model.FormatPercent(v, "—") },
	"score": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(indexHTML))

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>yieldRadar · {{.Chain}} yields</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#0f1115;color:#e6e6e6}
header{padding:1rem 1.5rem;border-bottom:1px solid #262a33}
h1{font-size:1.2rem;margin:0 0 .75rem}
form.controls{display:flex;flex-wrap:wrap;gap:.6rem;align-items:center}
input,select{background:#1a1e27;color:#e6e6e6;border:1px solid #333a47;border-radius:6px;padding:.4rem .6rem}
button{background:#2b6cb0;color:#fff;border:0;border-radius:6px;padding:.45rem .9rem;cursor:pointer}
.banner{background:#7f1d1d;color:#fee2e2;padding:.6rem 1.5rem}
.meta{color:#8a93a6;font-size:.8rem;padding:.4rem 1.5rem}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(280px,1fr));gap:1rem;padding:1.5rem}
.card{background:#171b24;border:1px solid #262a33;border-radius:10px;padding:1rem}
.card h2{font-size:1rem;margin:0}
.sym{color:#8a93a6;font-size:.85rem;margin:.15rem 0 .6rem}
.row{display:flex;justify-content:space-between;font-size:.9rem;margin:.2rem 0}
.row .k{color:#8a93a6}
.tokens{margin-top:.5rem;font-size:.7rem;color:#8a93a6;overflow:hidden;text-overflow:ellipsis;white-space:nowrap}
.tokens span{margin-right:.5rem}
.links{margin-top:.7rem;font-size:.85rem}
.links a{color:#63b3ed;text-decoration:none;margin-right:.8rem}
.empty{padding:3rem 1.5rem;color:#8a93a6;text-align:center}
</style>
</head>
<body>
{{if .FetchErr}}<div class="banner">{{.FetchErr}}</div>{{end}}
<header>
<h1>{{.Chain}} yield pools</h1>
<form class="controls" method="get" action="/">
  <input type="text" name="q" value="{{.View.Query}}" placeholder="search project or symbol">
  <input type="number" name="min_tvl" value="{{printf "%.0f" .View.MinTVL}}" min="0" step="1000" title="minimum TVL (USD)">
  <label><input type="checkbox" name="stable" value="1"{{if .View.StableOnly}} checked{{end}}> stables only</label>
  <select name="sort">
    <option value="score"{{if eq .View.SortKey "score"}} selected{{end}}>smart score</option>
    <option value="apy"{{if eq .View.SortKey "apy"}} selected{{end}}>APY</option>
    <option value="tvl"{{if eq .View.SortKey "tvl"}} selected{{end}}>TVL</option>
  </select>
  <select name="limit">
    {{$cur := .View.Limit}}{{range .Limits}}<option value="{{.}}"{{if eq . $cur}} selected{{end}}>top {{.}}</option>{{end}}
  </select>
  <button type="submit">apply</button>
</form>
<form method="post" action="/refresh{{if .Query}}?{{.Query}}{{end}}" style="margin-top:.5rem">
  <button type="submit">reload data</button>
</form>
</header>
{{if not .FetchedAt.IsZero}}<div class="meta">snapshot from {{.FetchedAt.Format "2006-01-02 15:04:05 MST"}} · {{len .Pools}} pools shown</div>{{end}}
{{if .Pools}}
<div class="grid">
{{$chain := .Chain}}
{{range .Pools}}
  <div class="card">
    <h2>{{.Project}}</h2>
    <div class="sym">{{.Symbol}}</div>
    <div class="row"><span class="k">APY</span><span>{{pct .APY}}</span></div>
    <div class="row"><span class="k">· base / reward</span><span>{{pct .APYBase}} / {{pct .APYReward}}</span></div>
    <div class="row"><span class="k">TVL</span><span>{{usd .TVLUSD}}</span></div>
    <div class="row"><span class="k">score</span><span>{{score .Score}}</span></div>
    {{if .UnderlyingTokens}}<div class="tokens">{{range .UnderlyingTokens}}<span>{{.}}</span>{{end}}</div>{{end}}
    <div class="links">
      <a href="{{.PoolURL}}" target="_blank" rel="noopener">pool ↗</a>
      <a href="{{.SearchURL $chain}}" target="_blank" rel="noopener">more by {{.Project}} ↗</a>
    </div>
  </div>
{{end}}
</div>
{{else}}
<div class="empty">no pools match the current filters</div>
{{end}}
</body>
</html>
`
