package web

import (
	"html/template"
	"io"
	"time"

	"github.com/sweeney/pir-video/internal/status"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2">
<title>PIR Server</title>
<style>
body { font-family: sans-serif; margin: 2em; background: #f4f4f4; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; background: #fff; }
td, th { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
.on { color: #c0392b; font-weight: bold; }
.off { color: #27ae60; font-weight: bold; }
</style>
</head>
<body>
<h1>PIR Server</h1>
<table>
<tr><th>Motion</th><td class="{{if .Motion}}on{{else}}off{{end}}">{{if .Motion}}DETECTED{{else}}clear{{end}}</td></tr>
<tr><th>Motion count</th><td>{{.MotionCount}}</td></tr>
<tr><th>Clients connected</th><td>{{.Clients}}</td></tr>
{{if .HasLastChange}}<tr><th>Last change</th><td>{{.LastChange}}</td></tr>{{end}}
<tr><th>Uptime</th><td>{{.Uptime}}</td></tr>
<tr><th>GPIO pin</th><td>{{.PIRPin}}</td></tr>
<tr><th>TCP port</th><td>{{.Port}}</td></tr>
<tr><th>Send interval</th><td>{{.SendIntervalMs}} ms</td></tr>
{{if .MQTTBroker}}<tr><th>MQTT</th><td>{{.MQTTBroker}} ({{if .MQTTConnected}}connected{{else}}disconnected{{end}})</td></tr>{{end}}
</table>
</body>
</html>
`))

type indexData struct {
	Motion         bool
	MotionCount    uint64
	Clients        int
	HasLastChange  bool
	LastChange     string
	Uptime         string
	PIRPin         int
	Port           int
	SendIntervalMs int64
	MQTTBroker     string
	MQTTConnected  bool
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := indexData{
		Motion:         snap.Sensor.Motion,
		MotionCount:    snap.Sensor.Count,
		Clients:        snap.Clients,
		Uptime:         snap.Uptime().Round(time.Second).String(),
		PIRPin:         snap.Config.PIRPin,
		Port:           snap.Config.Port,
		SendIntervalMs: snap.Config.SendIntervalMs,
		MQTTBroker:     snap.Config.MQTTBroker,
		MQTTConnected:  snap.MQTTConnected,
	}
	if !snap.Sensor.LastChange.IsZero() {
		data.HasLastChange = true
		data.LastChange = snap.Sensor.LastChange.UTC().Format(time.RFC3339)
	}
	indexTemplate.Execute(w, data)
}
