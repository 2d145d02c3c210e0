package page

// tmplGroup renders the server-side markup of a group page. Widgets are
// left as empty mount points and filled in by Mount.
const tmplGroup = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Group {{.GroupID}} · commit streaks</title>
<style>
body{font-family:-apple-system,sans-serif;font-size:14px;color:#24292e}
.collapsed{display:none}
.day{margin-bottom:8px;border-left:4px solid #eeeeee;padding-left:8px}
.day.heat-1{border-color:#d6e685}
.day.heat-2{border-color:#8cc665}
.day.heat-3{border-color:#44a340}
.day.heat-4{border-color:#1e6823}
.day-link,.repo-link{cursor:pointer;font-weight:600}
.additions{color:#55a532}
.deletions{color:#bd2c00}
.day-error{color:#bd2c00;font-style:italic}
.sha{font-family:monospace}
</style>
</head>
<body>
<div class="group-header">
  <input id="group-url" type="text" readonly value="{{.ShareURL}}">
  <button id="refresh" type="button">Refresh</button>
</div>
<div id="commit-groups">
{{- range .Days}}
  <div class="day heat-{{.Heat}}" data-date="{{.Date}}">
    <div class="day-bar">
      <span data-component="day-bar" data-day="{{.Date}}"></span>
      <span data-component="changes" data-additions="{{.Additions}}" data-deletions="{{.Deletions}}"></span>
    </div>
    <div class="all-repos">
    {{- range .Repos}}
      <div class="repo">
        <a class="repo-link" href="#">{{.Name}}</a>
        <span data-component="changes" data-additions="{{.Additions}}" data-deletions="{{.Deletions}}"></span>
        <ul class="all-commits">
        {{- range .Commits}}
          <li class="commit">
            <span data-component="changes" data-additions="{{.Additions}}" data-deletions="{{.Deletions}}"></span>
            <span class="sha" data-toggle="tooltip" title="{{.SHA}}">{{.ShortSHA}}</span>
            <span class="message">{{.Title}}</span>
          </li>
        {{- end}}
        </ul>
      </div>
    {{- end}}
    </div>
  </div>
{{- end}}
</div>
</body>
</html>
`
