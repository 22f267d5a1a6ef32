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
            background-color: #f5f7fa;
            color: #1f2933;
        }
        .container {
            max-width: 600px;
            margin: 0 auto;
            padding: 40px 20px;
        }
        .card {
            background: #ffffff;
            border-radius: 12px;
            padding: 32px;
            border: 1px solid #e4e7eb;
        }
        .logo {
            text-align: center;
            margin-bottom: 24px;
        }
        .logo h1 {
            font-size: 28px;
            color: #2563eb;
            margin: 0;
        }
        h2 {
            color: #1f2933;
            font-size: 24px;
            margin: 0 0 16px;
        }
        p {
            color: #52606d;
            font-size: 16px;
            line-height: 1.6;
            margin: 0 0 16px;
        }
        .code {
            display: block;
            text-align: center;
            font-size: 32px;
            letter-spacing: 8px;
            font-weight: 700;
            color: #2563eb;
            margin: 24px 0;
        }
        .btn {
            display: inline-block;
            background: #2563eb;
            color: #ffffff !important;
            text-decoration: none;
            padding: 14px 28px;
            border-radius: 8px;
            font-weight: 600;
        }
        .footer {
            text-align: center;
            color: #9aa5b1;
            font-size: 13px;
            margin-top: 24px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo"><h1>Academy</h1></div>
        <div class="card">{{.Content}}</div>
        <div class="footer">You are receiving this email because you have an Academy account.</div>
    </div>
</body>
</html>
`

// VerificationTemplate delivers the registration code
const VerificationTemplate = `
<h2>Confirm your email</h2>
<p>Hello {{.UserName}}, use this code to finish creating your account:</p>
<span class="code">{{.Code}}</span>
<p>The code expires in 15 minutes. If you did not request it, ignore this email.</p>
`

// PasswordResetTemplate delivers the reset link
const PasswordResetTemplate = `
<h2>Reset your password</h2>
<p>Hello {{.UserName}}, we received a request to reset your password.</p>
<p><a class="btn" href="{{.ResetURL}}">Choose a new password</a></p>
<p>The link expires in 1 hour. If you did not request a reset, ignore this email.</p>
`

// WelcomeTemplate greets newly registered students
const WelcomeTemplate = `
<h2>Welcome to Academy</h2>
<p>Hello {{.UserName}}, your account is ready.</p>
<p>Top up your wallet to purchase courses and register for workshops.</p>
`

// PurchaseReceiptTemplate confirms a wallet purchase
const PurchaseReceiptTemplate = `
<h2>Purchase confirmed</h2>
<p>Hello {{.UserName}}, your purchase was successful.</p>
<p><strong>{{.ItemTitle}}</strong> — {{.Amount}} deducted from your wallet.</p>
<p>Your new balance is {{.Balance}}.</p>
`
