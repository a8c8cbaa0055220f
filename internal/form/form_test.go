package form

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
)

const signupYAML = `
id: test/signup
title: Sign up
submit: Register
fields:
  - name: name
    label: Name
    type: text
  - name: email
    label: Email
    type: email
    placeholder: you@example.com
  - name: password
    label: Password
    type: password
`

func TestParse(t *testing.T) {
	fd, err := Parse("signup.yaml", []byte(signupYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"name", "email", "password"}, fd.FieldNames()); diff != "" {
		t.Fatalf("field names (-want +got):\n%s", diff)
	}
	if !fd.Fields[2].Secret {
		t.Fatalf("password field not marked secret")
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"no id":       "fields: [{name: a, label: A, type: text}]",
		"no fields":   "id: x",
		"no label":    "id: x\nfields: [{name: a, type: text}]",
		"bad type":    "id: x\nfields: [{name: a, label: A, type: date}]",
		"duplicate":   "id: x\nfields: [{name: a, label: A, type: text}, {name: a, label: B, type: text}]",
		"broken yaml": "id: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(name, []byte(raw)); err == nil {
				t.Fatalf("Parse accepted %q", raw)
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/signup.yaml": {Data: []byte(signupYAML)},
		"forms/README.md":   {Data: []byte("ignored")},
	}
	ids, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"test/signup"}, ids); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
	if _, ok := GetFormDef("test/signup"); !ok {
		t.Fatalf("form not registered")
	}
}

func TestRenderFields(t *testing.T) {
	fd, err := Parse("signup.yaml", []byte(signupYAML))
	if err != nil {
		t.Fatal(err)
	}
	Register(fd)

	out, err := RenderFields("test/signup", RenderOptions{
		Prefill: map[string]string{"name": `<Ada>`, "password": "Passw0rd!"},
		Errors:  map[string]string{"email": "Email is required"},
		Token:   "tok",
	})
	if err != nil {
		t.Fatalf("RenderFields: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`value="&lt;Ada&gt;"`,
		`<span class="error" id="err-email" aria-live="polite">Email is required</span>`,
		`aria-invalid="true" aria-describedby="err-email"`,
		`placeholder="you@example.com"`,
		`name="csrf_token" value="tok"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(html, "Passw0rd!") {
		t.Errorf("password echoed into markup")
	}

	if _, err := RenderFields("nope", RenderOptions{}); err == nil {
		t.Errorf("unknown form rendered")
	}
}

func TestTokens(t *testing.T) {
	key := base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	tk, generated, err := NewTokens(key)
	if err != nil || generated {
		t.Fatalf("NewTokens: %v generated=%v", err, generated)
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return now }

	tok, err := tk.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if !tk.Verify(tok) {
		t.Fatalf("fresh token rejected")
	}

	other, _, _ := NewTokens("")
	if other.Verify(tok) {
		t.Fatalf("token verified under a different key")
	}

	now = now.Add(MaxAge + time.Second)
	if tk.Verify(tok) {
		t.Fatalf("expired token accepted")
	}
	if tk.Verify("garbage") {
		t.Fatalf("garbage accepted")
	}
}

func TestNewTokens_ShortKey(t *testing.T) {
	short := base64.RawURLEncoding.EncodeToString([]byte("short"))
	if _, _, err := NewTokens(short); err == nil {
		t.Fatalf("short key accepted")
	}
}

func TestDecode(t *testing.T) {
	tk, _, _ := NewTokens("")
	tok, _ := tk.Generate()

	post := func(v url.Values) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(v.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return r
	}

	vals, err := Decode(httptest.NewRecorder(), post(url.Values{"name": {"Ada"}, TokenField: {tok}}), tk)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if vals.Get("name") != "Ada" {
		t.Fatalf("name = %q", vals.Get("name"))
	}

	_, err = Decode(httptest.NewRecorder(), post(url.Values{"name": {"Ada"}}), tk)
	if !errors.Is(err, ErrBadToken) || !IsBadToken(err) {
		t.Fatalf("missing token err = %v", err)
	}
}
