// Package view renders the server-side HTML pages.  Presentation is
// deliberately skeletal: each page is a minimal template carrying the
// forms and data the flows need, ready to be skinned by the real
// stylesheet set.
package view

import (
	"bytes"
	"html/template"

	"github.com/labstack/echo/v4"
)

var pages = template.Must(template.New("pages").Parse(pagesHTML))

// Render executes the named page template and writes it with the given
// status code.
func Render(c echo.Context, code int, name string, data map[string]interface{}) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}

const pagesHTML = `
{{define "flashes"}}{{range .Flashes}}<p class="flash flash-{{.Kind}}">{{.Text}}</p>{{end}}{{end}}

{{define "login"}}<!doctype html>
<title>Sign In</title>
{{template "flashes" .}}
{{if .Error}}<p class="flash flash-error">{{.Error}}</p>{{end}}
<form method="post" action="/accounts/login/">
  <input name="username" placeholder="Enter your username or email" value="{{if .Username}}{{.Username}}{{end}}">
  <input name="password" type="password" placeholder="Enter your password">
  <button type="submit">Sign In</button>
</form>
<a href="/accounts/request-account/">Request account</a>
<a href="/accounts/forgot-password/">Forgot password</a>
{{end}}

{{define "request_account"}}<!doctype html>
<title>Request Account</title>
{{template "flashes" .}}
{{if .DisplayMessage}}<p class="identified">{{.DisplayMessage}}</p>{{end}}
<form method="post" action="/accounts/request-account/">
  <input name="member_id" placeholder="Enter your Church Member ID" value="{{if .MemberID}}{{.MemberID}}{{end}}">
  {{if not .MemberIDValid}}
  <button type="submit" name="validate_id" value="1">Validate ID</button>
  {{else}}
  <input name="email" placeholder="Enter your email (optional)" value="{{if .Email}}{{.Email}}{{end}}">
  <input name="username" placeholder="Choose a username" value="{{if .FormUsername}}{{.FormUsername}}{{end}}">
  <input name="password" type="password" placeholder="Enter a strong password">
  <input name="confirm_password" type="password" placeholder="Confirm your password">
  <button type="submit" name="submit_account" value="1">Create Account</button>
  {{end}}
  {{range $field, $msg := .FieldErrors}}<p class="field-error">{{$field}}: {{$msg}}</p>{{end}}
</form>
{{end}}

{{define "forgot_password"}}<!doctype html>
<title>Forgot Password</title>
{{template "flashes" .}}
{{if .DisplayMessage}}<p class="identified">{{.DisplayMessage}}</p>{{end}}
<form method="post" action="/accounts/forgot-password/">
  <input name="member_id" placeholder="Enter your Church Member ID" value="{{if .MemberID}}{{.MemberID}}{{end}}">
  {{if not .MemberIDValid}}
  <button type="submit" name="validate_id" value="1">Validate ID</button>
  {{else}}
  <input name="new_username" placeholder="Enter your new username" value="{{if .FormUsername}}{{.FormUsername}}{{end}}">
  <input name="new_password" type="password" placeholder="Enter your new password">
  <input name="confirm_password" type="password" placeholder="Confirm your new password">
  <button type="submit" name="submit_reset" value="1">Reset</button>
  {{end}}
  {{range $field, $msg := .FieldErrors}}<p class="field-error">{{$field}}: {{$msg}}</p>{{end}}
</form>
{{end}}

{{define "dashboard"}}<!doctype html>
<title>{{.Title}}</title>
{{template "flashes" .}}
<h1>{{.Title}}</h1>
<p>Signed in as {{.Username}} ({{.Role}}){{if .Occupation}} - {{.Occupation}}{{end}}</p>
{{if .ProfilePicture}}<img src="{{.ProfilePicture}}" alt="profile">{{end}}
<a href="/accounts/logout/">Log out</a>
{{end}}

{{define "upload_picture"}}<!doctype html>
<title>Upload Profile Picture</title>
{{template "flashes" .}}
<form method="post" enctype="multipart/form-data">
  <input type="file" name="fileInput">
  <input type="file" name="cameraInput" capture="user" accept="image/*">
  <button type="submit">Upload</button>
</form>
{{end}}

{{define "superuser_detail"}}<!doctype html>
<title>Account Details</title>
{{template "flashes" .}}
<ul>
  <li>Username: {{.Username}}</li>
  <li>Email: {{.Email}}</li>
  <li>Phone Number: {{.PhoneNumber}}</li>
  <li>User Type: {{.Role}}</li>
  <li>Date Created: {{.CreatedAt}}</li>
</ul>
{{if .ProfilePicture}}<img src="{{.ProfilePicture}}" alt="profile">{{end}}
<a href="/accounts/admin/update/">Edit</a>
{{end}}

{{define "admin_update"}}<!doctype html>
<title>Update Profile</title>
{{template "flashes" .}}
<form method="post" action="/accounts/admin/update/">
  <input name="username" placeholder="Enter Username" value="{{.Username}}">
  <input name="email" placeholder="Enter Email" value="{{.Email}}">
  <input name="phone_number" placeholder="Enter Phone Number" value="{{.PhoneNumber}}">
  <select name="role">
    <option value="ADMIN" {{if eq .Role "ADMIN"}}selected{{end}}>Admin (Superuser)</option>
    <option value="CHURCH_MEMBER" {{if eq .Role "CHURCH_MEMBER"}}selected{{end}}>Church Member</option>
  </select>
  <input name="password" type="password" placeholder="Enter new password (optional)">
  <input name="confirm_password" type="password" placeholder="Confirm new password">
  <button type="submit">Save</button>
  {{range $field, $msg := .FieldErrors}}<p class="field-error">{{$field}}: {{$msg}}</p>{{end}}
</form>
{{end}}

{{define "news_list"}}<!doctype html>
<title>Parish News</title>
{{template "flashes" .}}
{{range .Items}}
<article>
  <h2>{{.Title}}</h2>
  <p>{{.Content}}</p>
  <footer>{{.LikeCount}} likes · {{.CommentCount}} comments · {{.CreatedAt}}</footer>
</article>
{{else}}<p>No news published yet.</p>{{end}}
{{end}}
`
