package auth

import (
	"testing"
)

type queuedMail struct {
	to       string
	toName   string
	template string
	subject  string
	data     interface{}
}

type fakeMailer struct {
	sent []queuedMail
}

func (f *fakeMailer) Queue(to, toName, templateName, subject string, data interface{}) {
	f.sent = append(f.sent, queuedMail{to, toName, templateName, subject, data})
}

func TestSendWelcomeEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewVerificationService(nil, mailer, "https://academy.example.com")

	svc.SendWelcomeEmail("aida@example.com", "Aida")

	if len(mailer.sent) != 1 {
		t.Fatalf("queued %d mails, want 1", len(mailer.sent))
	}
	m := mailer.sent[0]
	if m.template != "welcome" {
		t.Errorf("template = %q, want welcome", m.template)
	}
	if m.to != "aida@example.com" || m.toName != "Aida" {
		t.Errorf("addressed to %q (%q)", m.to, m.toName)
	}
	data, ok := m.data.(map[string]string)
	if !ok || data["UserName"] != "Aida" {
		t.Errorf("data = %v", m.data)
	}
}

func TestGenerateNumericCode(t *testing.T) {
	code := generateNumericCode(VerificationCodeLength)
	if len(code) != VerificationCodeLength {
		t.Fatalf("code length = %d, want %d", len(code), VerificationCodeLength)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("non-digit %q in code %q", c, code)
		}
	}
}
