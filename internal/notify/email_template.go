package notify

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <style>
    body { font-family: -apple-system, system-ui, "Microsoft YaHei", sans-serif;
           line-height: 1.8; color: #333; max-width: 600px; margin: 0 auto; padding: 15px; }
    h1 { font-size: 20px; color: #111; border-bottom: 2px solid #eee; padding-bottom: 10px; }
    h2 { font-size: 18px; color: #b71c1c; margin-top: 35px; border-left: 4px solid #b71c1c; padding-left: 10px; }
    h3 { font-size: 16px; font-weight: bold; margin-top: 25px; color: #0d47a1; }
    p { margin-bottom: 15px; text-align: justify; font-size: 15px; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; font-size: 13px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1); border-radius: 4px; overflow: hidden; }
    th, td { border: 1px solid #e1e4e8; padding: 8px 5px; text-align: center; }
    th { background-color: #f6f8fa; font-weight: bold; }
    blockquote { border-left: 4px solid #f9a825; background: #fffde7;
                 padding: 15px; margin: 20px 0; border-radius: 6px; font-style: italic; }
    strong { color: #d32f2f; }
    .footer { font-size: 12px; color: #999; margin-top: 40px; text-align: center;
              border-top: 1px solid #eee; padding-top: 10px; }
  </style>
</head>
<body>
{{.Content}}
<div class="footer">本报告由 AI 辅助生成，仅供参考，不构成投资建议。</div>
</body>
</html>
`
