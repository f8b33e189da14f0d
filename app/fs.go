package app

import "embed"

//go:embed tmpl
var tmplFS embed.FS

// Template file paths within tmplFS.
const (
	authedTmpl   = "tmpl/layout_authed.tmpl"
	unauthedTmpl = "tmpl/layout_unauthed.tmpl"
	errTmpl      = "tmpl/error.tmpl"

	homeTmpl     = "tmpl/home.tmpl"
	loginTmpl    = "tmpl/login.tmpl"
	registerTmpl = "tmpl/register.tmpl"
	secretsTmpl  = "tmpl/secrets.tmpl"
	submitTmpl   = "tmpl/submit.tmpl"
)
