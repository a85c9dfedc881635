package export

// reportTemplate is the self-contained report document: inline CSS, a
// webfont stylesheet link as the only external reference, and a print
// trigger. Content and styling carry no durable schema contract.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Inter:wght@400;600;700&display=swap">
<style>
  body { font-family: 'Inter', -apple-system, sans-serif; color: #1a1a2e; margin: 0; padding: 40px 48px; }
  header { border-bottom: 3px solid #4f46e5; padding-bottom: 16px; margin-bottom: 28px; }
  h1 { font-size: 26px; margin: 0 0 4px; }
  .meta { color: #6b7280; font-size: 13px; }
  .banner { border-radius: 6px; padding: 10px 14px; font-size: 14px; margin-bottom: 24px; }
  .banner.ok { background: #ecfdf5; color: #065f46; }
  .banner.failed { background: #fef2f2; color: #991b1b; }
  section { margin-bottom: 26px; page-break-inside: avoid; }
  h2 { font-size: 17px; border-bottom: 1px solid #e5e7eb; padding-bottom: 6px; }
  table { border-collapse: collapse; width: 100%; font-size: 14px; }
  td, th { border: 1px solid #e5e7eb; padding: 6px 10px; text-align: left; vertical-align: top; }
  th { background: #f9fafb; font-weight: 600; width: 32%; }
  ul { margin: 6px 0; padding-left: 22px; }
  li { margin-bottom: 4px; font-size: 14px; }
  p.value { font-size: 14px; margin: 6px 0; }
  @media print { body { padding: 0; } }
</style>
</head>
<body>
<header>
  <h1>{{ .Title }}</h1>
  <div class="meta">Session #{{ .SessionID }} &middot; Created {{ fmtTime .CreatedAt }} &middot; Updated {{ fmtTime .UpdatedAt }}</div>
</header>
{{ if .Failed }}
<div class="banner failed">This analysis failed: {{ .ErrorMessage }}</div>
{{ else }}
<div class="banner ok">Status: {{ .Status }}</div>
{{ end }}
{{ range .Sections }}
<section>
  <h2>{{ humanize .Key }}</h2>
  {{ .Body }}
</section>
{{ end }}
<script>window.addEventListener('load', function () { window.print(); });</script>
</body>
</html>
`
