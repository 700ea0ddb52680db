package server

import "html/template"

var pageTemplate = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Pravka — text correction</title>
  <style>
    body { font-family: Georgia, serif; max-width: 46rem; margin: 3rem auto; padding: 0 1rem; color: #222; }
    h1 { font-size: 1.6rem; }
    textarea { width: 100%; min-height: 8rem; font-size: 1rem; padding: .5rem; box-sizing: border-box; }
    select, button { font-size: 1rem; padding: .3rem .8rem; margin-top: .5rem; }
    .result { margin-top: 2rem; padding: 1rem; background: #f7f7f2; border-left: 4px solid #8a8; line-height: 1.7; }
  </style>
</head>
<body>
  <h1>Pravka</h1>
  <p>Paste a text and get its grammar, spelling, and punctuation corrected.
  Struck-through words were replaced by the green word next to them.</p>
  <form method="post" action="/">
    <textarea name="text" placeholder="Enter text to correct...">{{.Text}}</textarea>
    <div>
      <label for="lang_code">Language:</label>
      <select name="lang_code" id="lang_code">
        <option value="auto"{{if eq .LangCode "auto"}} selected{{end}}>auto-detect</option>
        <option value="en"{{if eq .LangCode "en"}} selected{{end}}>English</option>
        <option value="uk"{{if eq .LangCode "uk"}} selected{{end}}>Українська</option>
        <option value="de"{{if eq .LangCode "de"}} selected{{end}}>Deutsch</option>
        <option value="fr"{{if eq .LangCode "fr"}} selected{{end}}>Français</option>
        <option value="es"{{if eq .LangCode "es"}} selected{{end}}>Español</option>
        <option value="pl"{{if eq .LangCode "pl"}} selected{{end}}>Polski</option>
      </select>
      <button type="submit">Correct</button>
    </div>
  </form>
  {{if .Result}}
  <div class="result">{{.Result}}</div>
  {{end}}
  <p><a href="/docs">API documentation</a></p>
</body>
</html>`
