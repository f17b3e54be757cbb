package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Form defaults; redirect URLs only carry params that differ from these.
const (
	webDefaultWake   = "07:00"
	webDefaultSleep  = "8"
	webDefaultCoffee = "1"
)

type PageData struct {
	Wake   string
	Sleep  string
	Coffee int

	SleepLabel    string
	CoffeeLabel   string
	CoffeeOptions []int

	MinSleep  float64
	MaxSleep  float64
	SleepStep float64

	Model   string
	Version string

	Error   string
	Bedtime string
	Alert   Alert
}

type bedtimeResponse struct {
	Bedtime      string  `json:"bedtime"`
	Wake         string  `json:"wake"`
	SleepAmount  float64 `json:"sleepAmount"`
	CoffeeAmount int     `json:"coffeeAmount"`
	Model        string  `json:"model"`
}

type alertResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string         `json:"error,omitempty"`
	Alert *alertResponse `json:"alert,omitempty"`
}

type webApp struct {
	model     Predictor
	modelName string
	loc       *time.Location
	clock     Clock
	log       *slog.Logger
	metrics   *metrics
	tpl       *template.Template
}

func newWebApp(model Predictor, modelName string, cfg Config, log *slog.Logger) *webApp {
	return &webApp{
		model:     model,
		modelName: modelName,
		loc:       cfg.Location,
		clock:     cfg.Clock,
		log:       log,
		metrics:   newMetrics(),
		tpl:       template.Must(template.New("page").Parse(pageHTML)),
	}
}

// routes builds the router. accessLog receives one combined-format line per request.
func (a *webApp) routes(accessLog io.Writer) http.Handler {
	r := mux.NewRouter()
	r.Use(a.requestID, a.countRoute)

	r.HandleFunc("/", a.index).Methods(http.MethodGet)
	r.HandleFunc("/calc", a.calc).Methods(http.MethodPost)
	r.HandleFunc("/api/bedtime", a.apiBedtime).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	}).Methods(http.MethodGet)
	r.Handle("/metrics", a.metrics.handler()).Methods(http.MethodGet)

	var h http.Handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
	if accessLog != nil {
		h = handlers.CombinedLoggingHandler(accessLog, h)
	}
	return h
}

func (a *webApp) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		r.Header.Set("X-Request-ID", id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (a *webApp) countRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		a.metrics.requests.WithLabelValues(route).Inc()
		next.ServeHTTP(w, r)
	})
}

// screen builds a fresh screen for one request; nothing survives between requests.
func (a *webApp) screen(in Inputs, r *http.Request) *Screen {
	s := NewScreen(a.model, a.loc, a.clock, a.log.With("request_id", r.Header.Get("X-Request-ID")))
	s.Inputs = in
	s.metrics = a.metrics
	return s
}

func (a *webApp) page(in Inputs) PageData {
	opts := make([]int, 0, maxCoffeeAmount-minCoffeeAmount+1)
	for n := minCoffeeAmount; n <= maxCoffeeAmount; n++ {
		opts = append(opts, n)
	}
	return PageData{
		Wake:          in.WakeLabel(),
		Sleep:         strconv.FormatFloat(in.SleepAmount, 'g', -1, 64),
		Coffee:        in.CoffeeAmount,
		SleepLabel:    in.SleepLabel(),
		CoffeeLabel:   in.CoffeeLabel(),
		CoffeeOptions: opts,
		MinSleep:      minSleepAmount,
		MaxSleep:      maxSleepAmount,
		SleepStep:     sleepStep,
		Model:         a.modelName,
		Version:       appVersion,
	}
}

func (a *webApp) render(w http.ResponseWriter, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.tpl.Execute(w, data); err != nil {
		a.log.Error("render page", "err", err)
	}
}

func (a *webApp) index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in, err := ParseInputs(q.Get("wake"), q.Get("sleep"), q.Get("coffee"), a.loc)
	if err != nil {
		data := a.page(DefaultInputs(a.loc))
		data.Wake = strings.TrimSpace(q.Get("wake"))
		data.Error = err.Error()
		a.render(w, data)
		return
	}

	view := a.screen(in, r).Render()
	data := a.page(view.Inputs)
	data.Bedtime = view.Bedtime
	data.Alert = view.Alert
	a.render(w, data)
}

func (a *webApp) calc(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	wake := strings.TrimSpace(r.FormValue("wake"))
	sleep := strings.TrimSpace(r.FormValue("sleep"))
	coffee := strings.TrimSpace(r.FormValue("coffee"))

	in, err := ParseInputs(wake, sleep, coffee, a.loc)
	if err != nil {
		data := a.page(DefaultInputs(a.loc))
		data.Wake = wake
		data.Error = err.Error()
		a.render(w, data)
		return
	}
	// Redirect to GET with query params (only non-defaults) so the URL reflects the inputs.
	http.Redirect(w, r, buildCalcURL(in), http.StatusFound)
}

func (a *webApp) apiBedtime(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in, err := ParseInputs(q.Get("wake"), q.Get("sleep"), q.Get("coffee"), a.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	view := a.screen(in, r).Render()
	if view.ShowingError() {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Alert: &alertResponse{Title: view.Alert.Title, Message: view.Alert.Message},
		})
		return
	}
	writeJSON(w, http.StatusOK, bedtimeResponse{
		Bedtime:      view.Bedtime,
		Wake:         view.Inputs.WakeLabel(),
		SleepAmount:  view.Inputs.SleepAmount,
		CoffeeAmount: view.Inputs.CoffeeAmount,
		Model:        a.modelName,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// buildCalcURL returns "/" plus only the inputs that differ from the defaults.
func buildCalcURL(in Inputs) string {
	v := url.Values{}
	if s := in.WakeLabel(); s != webDefaultWake {
		v.Set("wake", s)
	}
	if s := strconv.FormatFloat(in.SleepAmount, 'g', -1, 64); s != webDefaultSleep {
		v.Set("sleep", s)
	}
	if s := strconv.Itoa(in.CoffeeAmount); s != webDefaultCoffee {
		v.Set("coffee", s)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func serveWeb(port int, app *webApp, accessLog io.Writer) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           app.routes(accessLog),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func printListenAddrs(w io.Writer, port int) {
	fmt.Fprintln(w, "Listening on:")
	fmt.Fprintf(w, "  http://127.0.0.1:%d/\n", port)

	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			ip, _, err := net.ParseCIDR(a.String())
			if err != nil || ip == nil || ip.IsLoopback() || ip.To4() == nil {
				continue
			}
			fmt.Fprintf(w, "  http://%s:%d/\n", ip.String(), port)
		}
	}
	fmt.Fprintln(w)
}

const pageHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>BetterRest</title>
  {{if .Bedtime}}<meta name="description" content="Ideal bedtime {{.Bedtime}} to wake at {{.Wake}} after {{.SleepLabel}}.">{{end}}
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; padding: 24px; max-width: 520px; box-sizing: border-box; }
    * { box-sizing: border-box; }
    h1 { margin-top: 0; font-weight: 700; }
    .err { color: #b00020; margin: 12px 0; padding: 10px; background: #ffebee; border-radius: 6px; }
    .section { margin-bottom: 18px; }
    .section-title { font-size: 0.85em; font-weight: 600; text-transform: uppercase; letter-spacing: 0.04em; color: #555; margin-bottom: 8px; padding-bottom: 6px; border-bottom: 1px solid #e0e0e0; }
    .bedtime { font-size: 2.4em; font-weight: 400; }
    .field input, .field select { padding: 8px 10px; font-size: 1em; border: 1px solid #ccc; border-radius: 6px; }
    .time-row { display: flex; align-items: center; gap: 8px; }
    .time-row input { max-width: 90px; }
    .hint { color: #666; font-size: 0.9em; margin-top: 4px; }
    button { padding: 8px 16px; border-radius: 6px; border: 1px solid #ccc; background: #f5f5f5; cursor: pointer; font-size: 0.95em; }
    button.primary, button[type="submit"] { background: #1976d2; color: #fff; border-color: #1976d2; }
    .overlay { position: fixed; inset: 0; background: rgba(0,0,0,0.4); display: none; align-items: center; justify-content: center; z-index: 1000; }
    .overlay.open { display: flex; }
    .modal { background: #fff; border-radius: 10px; padding: 20px; box-shadow: 0 4px 20px rgba(0,0,0,0.2); min-width: 240px; max-width: 320px; }
    .modal h3 { margin: 0 0 10px 0; font-size: 1.05em; }
    .modal .actions { display: flex; justify-content: flex-end; gap: 8px; margin-top: 16px; }
    footer { margin-top: 40px; color: #666; font-size: 0.9em; text-align: center; }
  </style>
</head>
<body>
  <h1>BetterRest</h1>

  <div class="section">
    <div class="section-title">Your ideal bedtime is&hellip;</div>
    <div class="bedtime" id="bedtime">{{.Bedtime}}</div>
  </div>

  {{if .Error}}<div class="err">{{.Error}}</div>{{end}}

  <form method="POST" action="/calc">
    <div class="section field">
      <div class="section-title"><label for="wake">When do you want to wake up?</label></div>
      <div class="time-row">
        <input id="wake" name="wake" type="text" value="{{.Wake}}" placeholder="07:00" pattern="[0-9]{1,2}:[0-9]{2}" autocomplete="off">
        <button type="button" id="wake-picker" aria-label="Pick time">Pick</button>
      </div>
    </div>

    <div class="section field">
      <div class="section-title"><label for="sleep">Desired amount of sleep</label></div>
      <input id="sleep" name="sleep" type="number" min="{{.MinSleep}}" max="{{.MaxSleep}}" step="{{.SleepStep}}" value="{{.Sleep}}">
      <div class="hint">{{.SleepLabel}}</div>
    </div>

    <div class="section field">
      <div class="section-title"><label for="coffee">Daily coffee intake</label></div>
      <select id="coffee" name="coffee">
        {{- $sel := .Coffee}}
        {{range .CoffeeOptions}}<option value="{{.}}"{{if eq . $sel}} selected{{end}}>{{.}}</option>{{end}}
      </select>
      <div class="hint">{{.CoffeeLabel}}</div>
    </div>

    <button type="submit">Calculate</button>
  </form>

  <div id="time-overlay" class="overlay" role="dialog" aria-modal="true" aria-label="Pick wake-up time">
    <div class="modal">
      <h3>Wake-up time</h3>
      <select id="tp-hour"></select> : <select id="tp-minute"></select>
      <div class="actions">
        <button type="button" id="tp-cancel">Cancel</button>
        <button type="button" id="tp-ok" class="primary">OK</button>
      </div>
    </div>
  </div>

  {{with .Alert}}{{if .Showing}}
  <div id="alert" class="overlay open" role="alertdialog" aria-modal="true">
    <div class="modal">
      <h3>{{.Title}}</h3>
      <div>{{.Message}}</div>
      <div class="actions"><button type="button" class="primary" id="alert-ok">OK</button></div>
    </div>
  </div>
  {{end}}{{end}}

  <script>
(function() {
  var overlay = document.getElementById('time-overlay');
  var hour = document.getElementById('tp-hour');
  var minute = document.getElementById('tp-minute');
  var wake = document.getElementById('wake');

  function pad2(n) { return (n < 10 ? '0' : '') + n; }
  function fill(sel, n) {
    for (var i = 0; i < n; i++) {
      var o = document.createElement('option');
      o.value = i;
      o.textContent = pad2(i);
      sel.appendChild(o);
    }
  }
  fill(hour, 24);
  fill(minute, 60);

  document.getElementById('wake-picker').addEventListener('click', function() {
    var m = (wake.value || '').trim().match(/^(\d{1,2}):(\d{2})$/);
    hour.value = m ? parseInt(m[1], 10) : 7;
    minute.value = m ? parseInt(m[2], 10) : 0;
    overlay.classList.add('open');
  });
  document.getElementById('tp-cancel').addEventListener('click', function() { overlay.classList.remove('open'); });
  document.getElementById('tp-ok').addEventListener('click', function() {
    wake.value = pad2(parseInt(hour.value, 10)) + ':' + pad2(parseInt(minute.value, 10));
    overlay.classList.remove('open');
    wake.form.submit();
  });

  ['sleep', 'coffee'].forEach(function(id) {
    document.getElementById(id).addEventListener('change', function(e) { e.target.form.submit(); });
  });

  var ok = document.getElementById('alert-ok');
  if (ok) ok.addEventListener('click', function() { document.getElementById('alert').classList.remove('open'); });
})();
  </script>

  <footer>BetterRest v{{.Version}} &middot; model {{.Model}}</footer>
</body>
</html>`
