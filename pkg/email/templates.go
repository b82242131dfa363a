package email

import "html/template"

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Welcome to FitBody, {{.FullName}}!</h2>
  <p>Your account is ready. Browse our training packages and start tracking your body-fat progress today.</p>
  <p>— The FitBody team</p>
  <p style="color: #9ca3af; font-size: 12px;">&copy; {{.Year}} FitBody</p>
</body>
</html>`))

var packageContentTemplate = template.Must(template.New("package_content").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Your {{.PackageName}} programme</h2>
  <p>Thanks for your purchase! Your full training plan, nutrition guide and progress tracker for
  <strong>{{.PackageName}}</strong> are attached to your dashboard.</p>
  <p>Log in any time to review your sessions.</p>
  <p>— The FitBody team</p>
  <p style="color: #9ca3af; font-size: 12px;">&copy; {{.Year}} FitBody</p>
</body>
</html>`))

var ticketReplyTemplate = template.Must(template.New("ticket_reply").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Re: {{.Subject}}</h2>
  <p>{{.Reply}}</p>
  <p>— FitBody support</p>
  <p style="color: #9ca3af; font-size: 12px;">&copy; {{.Year}} FitBody</p>
</body>
</html>`))
