package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

const (
	SignupSubject = "Verify your email address - unusual-directory"
	SigninSubject = "Sign in to unusual-directory"
)

var layout = template.Must(template.New("email").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">{{.Heading}}</h2>
  <p>Hi there,</p>
  <p>{{.Intro}}</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.Link}}" style="background-color: #6366f1; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">{{.Button}}</a>
  </div>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">{{.Link}}</p>
  <p>This link will expire in {{.Expiry}}.</p>
  <p>{{.Ignore}}</p>
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #eee;">
  <p style="color: #666; font-size: 14px;">Best regards,<br>The unusual-directory team</p>
</div>
`))

type view struct {
	Heading string
	Intro   string
	Button  string
	Link    string
	Expiry  string
	Ignore  string
}

// Templates renders the signup and signin messages. Links point at the
// site's /verify page, which posts token and email back to the API.
type Templates struct {
	baseURL string
	ttl     time.Duration
}

func NewTemplates(baseURL string, ttl time.Duration) *Templates {
	return &Templates{baseURL: strings.TrimRight(baseURL, "/"), ttl: ttl}
}

// VerifyLink builds {base}/verify?token=..&email=..
func (t *Templates) VerifyLink(email, token string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	return t.baseURL + "/verify?" + q.Encode()
}

// Signup returns the subject and body of the address verification message.
func (t *Templates) Signup(email, token string) (string, string, error) {
	body, err := t.render(view{
		Heading: "Welcome to unusual-directory!",
		Intro:   "Thanks for signing up! Please verify your email address by clicking the button below:",
		Button:  "Verify Email Address",
		Link:    t.VerifyLink(email, token),
		Ignore:  "If you didn't create an account, you can safely ignore this email.",
	})
	return SignupSubject, body, err
}

// Signin returns the subject and body of the sign-in link message.
func (t *Templates) Signin(email, token string) (string, string, error) {
	body, err := t.render(view{
		Heading: "Sign in to unusual-directory",
		Intro:   "You requested to sign in to your account. Click the button below to complete the sign-in process:",
		Button:  "Sign In",
		Link:    t.VerifyLink(email, token),
		Ignore:  "If you didn't request to sign in, you can safely ignore this email.",
	})
	return SigninSubject, body, err
}

func (t *Templates) render(v view) (string, error) {
	v.Expiry = humanize(t.ttl)

	var buf bytes.Buffer
	if err := layout.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
