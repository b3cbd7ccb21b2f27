package widget

import (
	"fmt"
	"html/template"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Half-width of the coordinate sliders, centered on the training means.
const coordSpan = 0.1

type pageData struct {
	Neighborhoods []string
	AreaMin       int
	AreaMax       int
	AreaDefault   int
	LatMin        float64
	LatMax        float64
	LatDefault    float64
	LonMin        float64
	LonMax        float64
	LonDefault    float64
	TestMAE       string
}

// page handles GET / with the interactive prediction page.
func (s *Server) page(c *gin.Context) {
	a := s.predictor.Artifact()

	areaMin := int(math.Floor(a.AreaMin))
	areaMax := int(math.Ceil(a.AreaMax))
	data := pageData{
		Neighborhoods: a.Neighborhoods,
		AreaMin:       areaMin,
		AreaMax:       areaMax,
		AreaDefault:   (areaMin + areaMax) / 2,
		LatMin:        a.LatMean - coordSpan,
		LatMax:        a.LatMean + coordSpan,
		LatDefault:    a.LatMean,
		LonMin:        a.LonMean - coordSpan,
		LonMax:        a.LonMean + coordSpan,
		LonDefault:    a.LonMean,
		TestMAE:       fmt.Sprintf("%.0f", a.Metrics.TestMAE),
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pageTmpl.Execute(c.Writer, data); err != nil {
		s.logger.Error("[widget] render page: %v", err)
	}
}

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Buenos Aires Apartment Pricer</title>
<style>
  body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; color: #222; }
  h1 { font-size: 1.4rem; }
  .sub { color: #666; }
  .control { margin: 1rem 0; }
  .control label { display: block; margin-bottom: 0.25rem; }
  input[type=range], select { width: 100%; }
  #result { font-size: 1.3rem; font-weight: bold; margin: 1.5rem 0; min-height: 1.5rem; }
  .note { color: #888; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Buenos Aires Apartment Pricer</h1>
<p class="sub">Apartment sale prices in Capital Federal, estimated from surface, location and neighborhood.</p>

<div class="control">
  <label>Covered surface: <span id="areaVal"></span> m&sup2;</label>
  <input type="range" id="area" min="{{.AreaMin}}" max="{{.AreaMax}}" step="1" value="{{.AreaDefault}}">
</div>
<div class="control">
  <label>Latitude: <span id="latVal"></span></label>
  <input type="range" id="lat" min="{{.LatMin}}" max="{{.LatMax}}" step="0.001" value="{{.LatDefault}}">
</div>
<div class="control">
  <label>Longitude: <span id="lonVal"></span></label>
  <input type="range" id="lon" min="{{.LonMin}}" max="{{.LonMax}}" step="0.001" value="{{.LonDefault}}">
</div>
<div class="control">
  <label for="neighborhood">Neighborhood</label>
  <select id="neighborhood">
    {{range .Neighborhoods}}<option value="{{.}}">{{.}}</option>{{end}}
  </select>
</div>

<div id="result">&nbsp;</div>
<p class="note">Typical error on held-out listings: &plusmn;${{.TestMAE}}</p>

<script>
function refresh() {
  var area = document.getElementById('area').value;
  var lat = document.getElementById('lat').value;
  var lon = document.getElementById('lon').value;
  var hood = document.getElementById('neighborhood').value;
  document.getElementById('areaVal').textContent = area;
  document.getElementById('latVal').textContent = lat;
  document.getElementById('lonVal').textContent = lon;
  var url = '/api/predict?surface=' + area + '&lat=' + lat + '&lon=' + lon +
    '&neighborhood=' + encodeURIComponent(hood);
  fetch(url)
    .then(function (r) { return r.json(); })
    .then(function (data) {
      document.getElementById('result').textContent =
        data.error ? 'Error: ' + data.error : data.formatted;
    });
}
['area', 'lat', 'lon', 'neighborhood'].forEach(function (id) {
  document.getElementById(id).addEventListener('input', refresh);
});
refresh();
</script>
</body>
</html>
`
