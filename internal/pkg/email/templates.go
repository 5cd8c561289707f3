package email

// Email templates in HTML format

// BaseTemplate is the base layout for all emails
const BaseTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: #0f0f0f;
            color: #ffffff;
        }
        .container {
            max-width: 600px;
            margin: 0 auto;
            padding: 40px 20px;
        }
        .card {
            background: #1a1a1a;
            border-radius: 12px;
            padding: 32px;
            border: 1px solid #2a2a2a;
        }
        .logo {
            text-align: center;
            margin-bottom: 24px;
        }
        .logo h1 {
            font-size: 28px;
            background: linear-gradient(135deg, #22c55e 0%, #0ea5e9 100%);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
            margin: 0;
        }
        h2 {
            color: #ffffff;
            font-size: 24px;
            margin: 0 0 16px;
        }
        p {
            color: #888888;
            font-size: 16px;
            line-height: 1.6;
            margin: 0 0 16px;
        }
        .btn {
            display: inline-block;
            background: linear-gradient(135deg, #22c55e 0%, #0ea5e9 100%);
            color: #ffffff !important;
            text-decoration: none;
            padding: 14px 28px;
            border-radius: 8px;
            font-weight: 600;
            font-size: 16px;
            margin: 16px 0;
        }
        .footer {
            text-align: center;
            margin-top: 32px;
            color: #666666;
            font-size: 12px;
        }
        .highlight {
            color: #22c55e;
            font-weight: 600;
        }
        .info-box {
            background: #252525;
            border-radius: 8px;
            padding: 16px;
            margin: 16px 0;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">
            <h1>QuizHub</h1>
        </div>
        <div class="card">
            {{.Content}}
        </div>
        <div class="footer">
            <p>QuizHub — learn, practice, pass.</p>
        </div>
    </div>
</body>
</html>
`

// WelcomeTemplate greets a newly registered user
const WelcomeTemplate = `
<h2>Welcome, {{.Name}}!</h2>
<p>Your QuizHub account is ready. Browse the course catalog, take quizzes and track your progress.</p>
<p>You start with <span class="highlight">{{.FreeAccessCount}} free quiz attempts</span> — no subscription needed.</p>
<a href="{{.URL}}" class="btn">Start learning</a>
`

// WaitlistConfirmTemplate confirms a waitlist/newsletter signup
const WaitlistConfirmTemplate = `
<h2>You're on the list</h2>
<p>Thanks for joining the QuizHub waitlist. We'll let you know as soon as new courses open up.</p>
<p>If this wasn't you, you can unsubscribe at any time:</p>
<a href="{{.UnsubscribeURL}}" class="btn">Unsubscribe</a>
`

// PaymentReceiptTemplate summarizes a confirmed purchase
const PaymentReceiptTemplate = `
<h2>Payment received</h2>
<p>Your purchase of <span class="highlight">{{.PackageName}}</span> has been confirmed.</p>
<div class="info-box">
    <p>Amount: {{.Amount}} {{.Currency}}</p>
    {{if .EndsAt}}<p>Access valid until: {{.EndsAt}}</p>{{end}}
    {{if .Credits}}<p>Credits added: {{.Credits}}</p>{{end}}
</div>
<p>Happy studying!</p>
`

