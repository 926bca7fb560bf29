package server

import "html/template"

// indexTemplate is the single dashboard page: a year dropdown bound to the
// figure endpoint and a Plotly display surface.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8"/>
    <title>US Tornado Dashboard</title>
    <script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0 auto;
            max-width: 1200px;
            padding: 20px;
        }
        h1 {
            text-align: center;
        }
        .controls {
            text-align: center;
            padding: 10px;
        }
        .controls select {
            width: 150px;
        }
        #graph {
            width: 100%;
            height: 700px;
        }
        .error {
            text-align: center;
            color: #a52a2a;
        }
    </style>
</head>
<body>
    <h1>US Tornado Dashboard</h1>

    <div class="controls">
        <label for="year">Select Year:</label>
        <select id="year">
            {{- range .Years }}
            <option value="{{ . }}"{{ if eq . $.DefaultYear }} selected{{ end }}>{{ . }}</option>
            {{- end }}
        </select>
    </div>

    <div id="graph"></div>
    <p id="error" class="error" hidden></p>

    <script>
        const graph = document.getElementById('graph');
        const errorBox = document.getElementById('error');

        async function render(year) {
            errorBox.hidden = true;
            try {
                const resp = await fetch('/api/figure?year=' + year);
                if (!resp.ok) {
                    throw new Error('figure request failed: ' + resp.status);
                }
                const fig = await resp.json();
                await Plotly.react(graph, fig.data, fig.layout);
            } catch (err) {
                errorBox.textContent = err.message;
                errorBox.hidden = false;
            }
        }

        const selector = document.getElementById('year');
        selector.addEventListener('change', () => render(selector.value));
        render(selector.value);
    </script>
</body>
</html>
`))

type indexPage struct {
	Years       []int
	DefaultYear int
}

func indexData() indexPage {
	years := make([]int, 0, MaxYear-MinYear+1)
	for y := MinYear; y <= MaxYear; y++ {
		years = append(years, y)
	}
	return indexPage{Years: years, DefaultYear: DefaultYear}
}
