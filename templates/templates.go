// Package templates holds the HTML pages served by the dashboard.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// IndexPage is everything the linked chart page needs.
type IndexPage struct {
	Title      string
	Season     string
	EChartsURL string
	MountID    string
	Option     template.JS
	Records    int
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <script src="{{.EChartsURL}}"></script>
  <style>
    body { font-family: sans-serif; margin: 0 2rem; }
    header { display: flex; align-items: baseline; gap: 1rem; }
    #{{.MountID}} { width: 100%; height: 88vh; }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <span>{{.Season}} &middot; {{.Records}} players</span>
    <button id="refresh" type="button">Refresh</button>
    <a href="/split">Split view</a>
  </header>
  <div id="{{.MountID}}"></div>
  <script>
    (function () {
      var chart = echarts.init(document.getElementById({{.MountID}}));
      chart.setOption({{.Option}});

      var scheme = location.protocol === "https:" ? "wss://" : "ws://";
      var socket = new WebSocket(scheme + location.host + "/ws");
      socket.onmessage = function (event) {
        var msg = JSON.parse(event.data);
        if (msg.type === "option") {
          chart.setOption(msg.payload, true);
        }
      };

      document.getElementById("refresh").addEventListener("click", function () {
        fetch("/api/refresh", { method: "POST" }).then(function (resp) {
          if (!resp.ok) {
            console.error("refresh failed", resp.status);
          }
        }, function (err) {
          console.error(err);
        });
      });

      window.addEventListener("resize", function () { chart.resize(); });
    })();
  </script>
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>TheRealMVP</title>
</head>
<body>
  <h1>Chart unavailable</h1>
  <p id="reason">{{.}}</p>
  <button id="retry" type="button">Try again</button>
  <script>
    document.getElementById("retry").addEventListener("click", function () {
      fetch("/api/refresh", { method: "POST" }).then(function (resp) {
        if (resp.ok) {
          location.reload();
          return;
        }
        return resp.json().then(function (body) {
          document.getElementById("reason").textContent = body.error || resp.statusText;
        });
      }).catch(function (err) {
        document.getElementById("reason").textContent = String(err);
      });
    });
  </script>
</body>
</html>
`))

// Index renders the linked parallel/scatter page.
func Index(page IndexPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return indexTemplate.Execute(w, page)
	})
}

// Error renders a page explaining why no chart is available.
func Error(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return errorTemplate.Execute(w, message)
	})
}
